package ui

import (
	"log"
	"net/http"

	"tablechat/app"
	"tablechat/domain/dataset"
	"tablechat/internal/errors"
	"tablechat/internal/proxy"

	"github.com/gin-gonic/gin"
)

// Server is the web server for the spreadsheet chat UI. It owns the session
// store and exposes the JSON API plus the same-origin search proxy.
type Server struct {
	router      *gin.Engine
	chat        *app.ChatService
	analytics   *app.AnalyticsService
	index       *app.IndexService
	searchProxy *proxy.SearchProxy
	sessions    *SessionStore
}

// NewServer creates a web server over the application services. searchProxy
// may be nil when no search endpoint is configured; the proxy route then
// reports the missing configuration instead of forwarding.
func NewServer(chat *app.ChatService, analytics *app.AnalyticsService, index *app.IndexService, searchProxy *proxy.SearchProxy) *Server {
	s := &Server{
		router:      gin.Default(),
		chat:        chat,
		analytics:   analytics,
		index:       index,
		searchProxy: searchProxy,
		sessions:    NewSessionStore(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes registers all API routes.
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/session", s.handleNewSession)
		api.POST("/datasets", s.handleUploadDataset)
		api.GET("/datasets", s.handleGetDataset)
		api.POST("/chat", s.handleChat)
		api.POST("/analyze/keyphrases", s.handleKeyPhrases)
		api.POST("/analyze/sentiment", s.handleSentiment)
		api.POST("/search/index", s.handleIndexDataset)
		api.POST("/search/query", s.handleSearchQuery)
	}

	// The browser talks to the search service through this mount so the API
	// key never reaches the client.
	s.router.Any("/proxy/search/*path", s.handleSearchProxy)
}

// Start runs the server on the given port.
func (s *Server) Start(port string) error {
	addr := ":" + port
	log.Printf("[Server] Listening on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSearchProxy(c *gin.Context) {
	if s.searchProxy == nil {
		writeError(c, errors.ConfigInvalid("search service is not configured"))
		return
	}
	req := c.Request.Clone(c.Request.Context())
	req.URL.Path = c.Param("path")
	s.searchProxy.ServeHTTP(c.Writer, req)
}

// sessionID resolves the caller's session. Clients that never created a
// session share the default one, which keeps single-user usage zero-setup.
func (s *Server) sessionID(c *gin.Context) string {
	if id := c.GetHeader("X-Session-ID"); id != "" {
		return id
	}
	return DefaultSession
}

// sessionDataset fetches the caller's dataset or writes a 404.
func (s *Server) sessionDataset(c *gin.Context) (*dataset.Dataset, bool) {
	ds, ok := s.sessions.Get(s.sessionID(c))
	if !ok {
		writeError(c, errors.New(errors.CodeNotFound, "no dataset uploaded for this session"))
		return nil, false
	}
	return ds, true
}

func errorStatus(code string) int {
	switch code {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeExternalService:
		return http.StatusBadGateway
	case errors.CodeConfigInvalid:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps an application error onto an HTTP status and JSON body.
func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.JSON(errorStatus(code), gin.H{"error": err.Error(), "code": code})
}
