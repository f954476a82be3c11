package container

import (
	"testing"

	"tablechat/adapters/openai"
	"tablechat/adapters/search"
	"tablechat/adapters/textanalytics"
	"tablechat/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Search: config.SearchConfig{IndexName: "rows", APIVersion: "v1"},
	}
}

func TestNew_NoCredentialsSelectsMocks(t *testing.T) {
	c, err := New(baseConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.Completions.(*openai.MockClient); !ok {
		t.Fatalf("completions = %T, want mock", c.Completions)
	}
	if _, ok := c.TextAnalytics.(*textanalytics.MockAnalyzer); !ok {
		t.Fatalf("text analytics = %T, want mock", c.TextAnalytics)
	}
	if _, ok := c.Search.(*search.MockClient); !ok {
		t.Fatalf("search = %T, want mock", c.Search)
	}
	if c.SearchProxy != nil {
		t.Fatalf("proxy should be nil without a search endpoint")
	}
}

func TestNew_CredentialsSelectLiveClients(t *testing.T) {
	cfg := baseConfig()
	cfg.Completions.APIKey = "sk-test"
	cfg.TextAnalytics.Endpoint = "https://ta.example.net"
	cfg.TextAnalytics.APIKey = "ta-key"
	cfg.Search.Endpoint = "https://search.example.net"
	cfg.Search.APIKey = "s-key"

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.Completions.(*openai.Client); !ok {
		t.Fatalf("completions = %T, want live", c.Completions)
	}
	if _, ok := c.TextAnalytics.(*textanalytics.Client); !ok {
		t.Fatalf("text analytics = %T, want live", c.TextAnalytics)
	}
	if _, ok := c.Search.(*search.Client); !ok {
		t.Fatalf("search = %T, want live", c.Search)
	}
	if c.SearchProxy == nil {
		t.Fatalf("proxy should exist with a search endpoint")
	}
}

func TestNew_MixedCredentialsDegradePerFeature(t *testing.T) {
	cfg := baseConfig()
	cfg.Completions.APIKey = "sk-test"

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.Completions.(*openai.Client); !ok {
		t.Fatalf("completions should be live")
	}
	if _, ok := c.Search.(*search.MockClient); !ok {
		t.Fatalf("search should degrade to mock independently")
	}
}

func TestNew_NilConfigRejected(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
