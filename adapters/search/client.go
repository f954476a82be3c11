package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"tablechat/internal"
	"tablechat/internal/config"
	"tablechat/ports"
)

// MaxUploadBatch is the per-request document cap of the indexing endpoint.
// Callers split larger uploads into batches of this size.
const MaxUploadBatch = 1000

// Client implements ports.SearchClient against a REST search service. Every
// request carries the api-key header and the fixed api-version query string,
// the same injection the same-origin proxy performs for browser calls.
type Client struct {
	endpoint   string
	apiKey     string
	indexName  string
	apiVersion string
	httpClient *http.Client
}

// NewClient creates a live search client from explicit configuration.
func NewClient(cfg config.SearchConfig) (*Client, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("missing search endpoint or API key")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("missing search index name")
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		indexName:  cfg.IndexName,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// EnsureIndex creates or updates the row index schema.
func (c *Client) EnsureIndex(ctx context.Context) error {
	schema := map[string]any{
		"name": c.indexName,
		"fields": []map[string]any{
			{"name": "id", "type": "Edm.String", "key": true, "filterable": true},
			{"name": "content", "type": "Edm.String", "searchable": true},
			{"name": "sheetName", "type": "Edm.String", "filterable": true},
			{"name": "additionalInfo", "type": "Edm.String", "filterable": false},
		},
	}
	path := fmt.Sprintf("/indexes/%s", c.indexName)
	return c.do(ctx, http.MethodPut, path, schema, nil)
}

// UploadDocuments uploads one batch (at most MaxUploadBatch documents) and
// returns how many the service accepted.
func (c *Client) UploadDocuments(ctx context.Context, docs []ports.SearchDocument) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	if len(docs) > MaxUploadBatch {
		return 0, fmt.Errorf("batch of %d exceeds cap of %d documents", len(docs), MaxUploadBatch)
	}

	type action struct {
		Action string `json:"@search.action"`
		ports.SearchDocument
	}
	envelope := struct {
		Value []action `json:"value"`
	}{}
	for _, d := range docs {
		envelope.Value = append(envelope.Value, action{Action: "upload", SearchDocument: d})
	}

	var decoded struct {
		Value []struct {
			Key    string `json:"key"`
			Status bool   `json:"status"`
		} `json:"value"`
	}
	path := fmt.Sprintf("/indexes/%s/docs/index", c.indexName)
	if err := c.do(ctx, http.MethodPost, path, envelope, &decoded); err != nil {
		return 0, err
	}
	accepted := 0
	for _, v := range decoded.Value {
		if v.Status {
			accepted++
		}
	}
	return accepted, nil
}

// Count returns the number of queryable documents. A short settling delay
// after UploadDocuments is expected before this reflects new documents.
func (c *Client) Count(ctx context.Context) (int, error) {
	path := fmt.Sprintf("/indexes/%s/docs/$count", c.indexName)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("search http %d: %s", resp.StatusCode, string(raw))
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("parse document count: %w", err)
	}
	return count, nil
}

// Search runs one query attempt with the given query type and search mode.
// Fallback to looser queries on empty results is the caller's concern.
func (c *Client) Search(ctx context.Context, query string, opts ports.SearchOptions) ([]ports.SearchHit, error) {
	if opts.QueryType == "" {
		opts.QueryType = "full"
	}
	if opts.SearchMode == "" {
		opts.SearchMode = "any"
	}
	if opts.Top <= 0 {
		opts.Top = 10
	}
	body := map[string]any{
		"search":     query,
		"queryType":  opts.QueryType,
		"searchMode": opts.SearchMode,
		"top":        opts.Top,
	}

	var decoded struct {
		Value []struct {
			Score          float64 `json:"@search.score"`
			ID             string  `json:"id"`
			Content        string  `json:"content"`
			SheetName      string  `json:"sheetName"`
			AdditionalInfo string  `json:"additionalInfo"`
		} `json:"value"`
	}
	path := fmt.Sprintf("/indexes/%s/docs/search", c.indexName)
	if err := c.do(ctx, http.MethodPost, path, body, &decoded); err != nil {
		return nil, err
	}

	hits := make([]ports.SearchHit, 0, len(decoded.Value))
	for _, v := range decoded.Value {
		hits = append(hits, ports.SearchHit{
			Score: v.Score,
			Document: ports.SearchDocument{
				ID:             v.ID,
				Content:        v.Content,
				SheetName:      v.SheetName,
				AdditionalInfo: v.AdditionalInfo,
			},
		})
	}
	return hits, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s%s?api-version=%s", c.endpoint, path, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	internal.DefaultLogger.Debug("search %s %s (%d byte body)", method, path, len(raw))
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("search http %d: %s", resp.StatusCode, string(respRaw))
	}
	if out != nil && len(respRaw) > 0 {
		if err := json.Unmarshal(respRaw, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
