package ui

import (
	"log"
	"mime/multipart"
	"net/http"

	"tablechat/adapters/excel"
	"tablechat/domain/dataset"
	"tablechat/internal/errors"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps multipart spreadsheet uploads.
const maxUploadBytes = 32 << 20 // 32 MB

func (s *Server) handleNewSession(c *gin.Context) {
	id := s.sessions.NewSession()
	c.JSON(http.StatusOK, gin.H{"session_id": id})
}

// handleUploadDataset accepts either a multipart spreadsheet upload (form
// field "file", .xlsx or .csv) or a JSON body of sheets. Either way the
// session's previous dataset is replaced wholesale.
func (s *Server) handleUploadDataset(c *gin.Context) {
	sessionID := s.sessionID(c)

	var ds *dataset.Dataset
	var err error
	if fileHeader, ferr := c.FormFile("file"); ferr == nil {
		ds, err = readUpload(fileHeader)
	} else {
		ds, err = readJSONDataset(c)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	s.sessions.Put(sessionID, ds)
	log.Printf("[API] Session %s loaded dataset (%d sheets, %d rows)",
		sessionID, len(ds.Sheets), ds.RowCount())
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"dataset":    ds.Summarize(),
	})
}

func readUpload(fileHeader *multipart.FileHeader) (*dataset.Dataset, error) {
	if fileHeader.Size > maxUploadBytes {
		return nil, errors.InvalidInput("file exceeds the upload size limit")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open uploaded file")
	}
	defer f.Close()

	ds, err := excel.NewDataReader(fileHeader.Filename).Read(f)
	if err != nil {
		return nil, errors.InvalidInput(err.Error())
	}
	return ds, nil
}

// readJSONDataset parses a {"sheets": {name: [rows...]}} body.
func readJSONDataset(c *gin.Context) (*dataset.Dataset, error) {
	var body struct {
		Sheets map[string][]map[string]any `json:"sheets"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, errors.InvalidInput("request must be a multipart file upload or a JSON sheets body")
	}
	if len(body.Sheets) == 0 {
		return nil, errors.InvalidInput("no sheets in request body")
	}

	sheets := make(map[string][]dataset.Row, len(body.Sheets))
	for name, rows := range body.Sheets {
		converted := make([]dataset.Row, 0, len(rows))
		for _, row := range rows {
			converted = append(converted, dataset.Row(row))
		}
		sheets[name] = converted
	}
	return dataset.FromMap(sheets), nil
}

func (s *Server) handleGetDataset(c *gin.Context) {
	ds, ok := s.sessionDataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataset": ds.Summarize()})
}

func (s *Server) handleChat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("invalid request body"))
		return
	}

	// Chat works without a dataset; the answer is simply ungrounded.
	ds, _ := s.sessions.Get(s.sessionID(c))

	result, err := s.chat.Chat(c.Request.Context(), req.Message, ds)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// analyzeRequest names the sheet and column to analyze. Both are optional:
// an empty sheet means the first sheet, an empty column means the whole
// flattened row.
type analyzeRequest struct {
	Sheet  string `json:"sheet"`
	Column string `json:"column"`
}

// resolveSheet picks the request's target sheet from the session dataset.
func (s *Server) resolveSheet(c *gin.Context, req analyzeRequest) (*dataset.Sheet, bool) {
	ds, ok := s.sessionDataset(c)
	if !ok {
		return nil, false
	}
	if req.Sheet == "" {
		return &ds.Sheets[0], true
	}
	sheet := ds.Sheet(req.Sheet)
	if sheet == nil {
		writeError(c, errors.NotFound("sheet "+req.Sheet))
		return nil, false
	}
	return sheet, true
}

func (s *Server) handleKeyPhrases(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("invalid request body"))
		return
	}
	sheet, ok := s.resolveSheet(c, req)
	if !ok {
		return
	}
	docs, err := s.analytics.Documents(sheet, req.Column)
	if err != nil {
		writeError(c, err)
		return
	}
	results, err := s.analytics.KeyPhrases(c.Request.Context(), docs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sheet":     sheet.Name,
		"documents": results,
		"mode":      s.analytics.Mode(),
	})
}

func (s *Server) handleSentiment(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("invalid request body"))
		return
	}
	sheet, ok := s.resolveSheet(c, req)
	if !ok {
		return
	}
	docs, err := s.analytics.Documents(sheet, req.Column)
	if err != nil {
		writeError(c, err)
		return
	}
	results, err := s.analytics.Sentiment(c.Request.Context(), docs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sheet":     sheet.Name,
		"documents": results,
		"mode":      s.analytics.Mode(),
	})
}

func (s *Server) handleIndexDataset(c *gin.Context) {
	ds, ok := s.sessionDataset(c)
	if !ok {
		return
	}
	result, err := s.index.IndexDataset(c.Request.Context(), ds)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSearchQuery(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
		Top   int    `json:"top"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidInput("invalid request body"))
		return
	}
	if req.Top <= 0 {
		req.Top = 10
	}
	hits, err := s.index.Search(c.Request.Context(), req.Query, req.Top)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits, "count": len(hits)})
}
