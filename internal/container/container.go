package container

import (
	"fmt"
	"log"

	"tablechat/adapters/openai"
	"tablechat/adapters/search"
	"tablechat/adapters/textanalytics"
	"tablechat/app"
	"tablechat/internal/config"
	"tablechat/internal/proxy"
	"tablechat/ports"
)

// Mode labels which variant of a capability was selected at startup.
const (
	ModeLive = "live"
	ModeMock = "mock"
)

// Container holds all application dependencies and manages their lifecycle.
// Each external capability is resolved exactly once at startup: the live
// client when its credentials are configured, the mock variant otherwise. A
// missing credential disables only that feature, never the application.
type Container struct {
	Config *config.Config

	// External service clients
	Completions   ports.CompletionClient
	TextAnalytics ports.TextAnalyticsClient
	Search        ports.SearchClient

	// Same-origin search proxy; nil when no search endpoint is configured.
	SearchProxy *proxy.SearchProxy

	// Services
	ChatService      *app.ChatService
	AnalyticsService *app.AnalyticsService
	IndexService     *app.IndexService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	c := &Container{Config: cfg}

	if err := c.initCompletions(); err != nil {
		return nil, fmt.Errorf("failed to initialize completions client: %w", err)
	}
	if err := c.initTextAnalytics(); err != nil {
		return nil, fmt.Errorf("failed to initialize text analytics client: %w", err)
	}
	if err := c.initSearch(); err != nil {
		return nil, fmt.Errorf("failed to initialize search client: %w", err)
	}
	return c, nil
}

func (c *Container) initCompletions() error {
	mode := ModeMock
	if c.Config.HasCompletions() {
		client, err := openai.NewClient(c.Config.Completions)
		if err != nil {
			return err
		}
		c.Completions = client
		mode = ModeLive
	} else {
		log.Printf("[Container] No completions API key configured, chat runs in mock mode")
		c.Completions = &openai.MockClient{}
	}
	c.ChatService = app.NewChatService(c.Completions, mode)
	return nil
}

func (c *Container) initTextAnalytics() error {
	mode := ModeMock
	if c.Config.HasTextAnalytics() {
		client, err := textanalytics.NewClient(c.Config.TextAnalytics)
		if err != nil {
			return err
		}
		c.TextAnalytics = client
		mode = ModeLive
	} else {
		log.Printf("[Container] No text analytics credentials configured, using keyword analyzer")
		c.TextAnalytics = &textanalytics.MockAnalyzer{}
	}
	c.AnalyticsService = app.NewAnalyticsService(c.TextAnalytics, mode)
	return nil
}

func (c *Container) initSearch() error {
	mode := ModeMock
	if c.Config.HasSearch() {
		client, err := search.NewClient(c.Config.Search)
		if err != nil {
			return err
		}
		c.Search = client
		mode = ModeLive

		p, err := proxy.NewSearchProxy(c.Config.Search)
		if err != nil {
			return err
		}
		c.SearchProxy = p
	} else {
		log.Printf("[Container] No search credentials configured, using in-memory index")
		c.Search = search.NewMockClient()
	}
	c.IndexService = app.NewIndexService(c.Search, c.Config.Search.SettleDelay, mode)
	return nil
}
