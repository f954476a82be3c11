package textanalytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"tablechat/internal/config"
	"tablechat/ports"
)

// MaxBatchSize is the per-request document cap the text-analytics service
// enforces. Callers split larger workloads into batches of this size.
const MaxBatchSize = 10

// Client implements ports.TextAnalyticsClient against a v3.0-style text
// analytics endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a live text-analytics client from explicit configuration.
func NewClient(cfg config.TextAnalyticsConfig) (*Client, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("missing text analytics endpoint or API key")
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// wire shapes for the v3.0 documents envelope
type wireDocument struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

type wireError struct {
	ID    string `json:"id"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type wireConfidence struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// KeyPhrases submits one batch (at most MaxBatchSize documents) and returns
// per-document results. Service-side per-document errors come back as error
// annotations, not a call failure.
func (c *Client) KeyPhrases(ctx context.Context, docs []ports.TextDocument) ([]ports.KeyPhraseResult, error) {
	var decoded struct {
		Documents []struct {
			ID         string   `json:"id"`
			KeyPhrases []string `json:"keyPhrases"`
		} `json:"documents"`
		Errors []wireError `json:"errors"`
	}
	if err := c.post(ctx, "/text/analytics/v3.0/keyPhrases", docs, &decoded); err != nil {
		return nil, err
	}

	results := make([]ports.KeyPhraseResult, 0, len(decoded.Documents)+len(decoded.Errors))
	for _, d := range decoded.Documents {
		results = append(results, ports.KeyPhraseResult{ID: d.ID, KeyPhrases: d.KeyPhrases})
	}
	for _, e := range decoded.Errors {
		results = append(results, ports.KeyPhraseResult{
			ID:    e.ID,
			Error: &ports.DocumentError{Code: e.Error.Code, Message: e.Error.Message},
		})
	}
	return results, nil
}

// Sentiment submits one batch (at most MaxBatchSize documents) and returns
// per-document sentiment labels with confidence triples and per-sentence
// breakdowns.
func (c *Client) Sentiment(ctx context.Context, docs []ports.TextDocument) ([]ports.SentimentResult, error) {
	var decoded struct {
		Documents []struct {
			ID               string         `json:"id"`
			Sentiment        string         `json:"sentiment"`
			ConfidenceScores wireConfidence `json:"confidenceScores"`
			Sentences        []struct {
				Text             string         `json:"text"`
				Sentiment        string         `json:"sentiment"`
				ConfidenceScores wireConfidence `json:"confidenceScores"`
			} `json:"sentences"`
		} `json:"documents"`
		Errors []wireError `json:"errors"`
	}
	if err := c.post(ctx, "/text/analytics/v3.0/sentiment", docs, &decoded); err != nil {
		return nil, err
	}

	results := make([]ports.SentimentResult, 0, len(decoded.Documents)+len(decoded.Errors))
	for _, d := range decoded.Documents {
		res := ports.SentimentResult{
			ID:        d.ID,
			Sentiment: d.Sentiment,
			ConfidenceScores: ports.ConfidenceScores{
				Positive: d.ConfidenceScores.Positive,
				Neutral:  d.ConfidenceScores.Neutral,
				Negative: d.ConfidenceScores.Negative,
			},
		}
		for _, s := range d.Sentences {
			res.Sentences = append(res.Sentences, ports.SentenceSentiment{
				Text:      s.Text,
				Sentiment: s.Sentiment,
				ConfidenceScores: ports.ConfidenceScores{
					Positive: s.ConfidenceScores.Positive,
					Neutral:  s.ConfidenceScores.Neutral,
					Negative: s.ConfidenceScores.Negative,
				},
			})
		}
		results = append(results, res)
	}
	for _, e := range decoded.Errors {
		results = append(results, ports.SentimentResult{
			ID:    e.ID,
			Error: &ports.DocumentError{Code: e.Error.Code, Message: e.Error.Message},
		})
	}
	return results, nil
}

func (c *Client) post(ctx context.Context, path string, docs []ports.TextDocument, out any) error {
	if len(docs) == 0 {
		return fmt.Errorf("empty document batch")
	}
	if len(docs) > MaxBatchSize {
		return fmt.Errorf("batch of %d exceeds cap of %d documents", len(docs), MaxBatchSize)
	}

	envelope := struct {
		Documents []wireDocument `json:"documents"`
	}{}
	for _, d := range docs {
		lang := d.Language
		if lang == "" {
			lang = "en"
		}
		envelope.Documents = append(envelope.Documents, wireDocument{ID: d.ID, Language: lang, Text: d.Text})
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("text analytics request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("text analytics http %d: %s", resp.StatusCode, string(respRaw))
	}
	if err := json.Unmarshal(respRaw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
