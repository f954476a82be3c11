package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tablechat/ports"
)

// MockClient is the degraded search variant selected at startup when no
// search credentials are configured: an in-memory corpus with
// case-insensitive substring scoring. Safe for concurrent use.
type MockClient struct {
	mu   sync.RWMutex
	docs []ports.SearchDocument
}

// NewMockClient creates an empty in-memory search client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// EnsureIndex resets nothing; the mock index always exists.
func (m *MockClient) EnsureIndex(ctx context.Context) error {
	return nil
}

// UploadDocuments stores the batch, replacing documents with matching IDs.
func (m *MockClient) UploadDocuments(ctx context.Context, docs []ports.SearchDocument) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		replaced := false
		for i := range m.docs {
			if m.docs[i].ID == doc.ID {
				m.docs[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			m.docs = append(m.docs, doc)
		}
	}
	return len(docs), nil
}

// Count returns the corpus size. The mock has no settling delay.
func (m *MockClient) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs), nil
}

// Search scores each document by how many query terms its content contains.
func (m *MockClient) Search(ctx context.Context, query string, opts ports.SearchOptions) ([]ports.SearchHit, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}
	top := opts.Top
	if top <= 0 {
		top = 10
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []ports.SearchHit
	for _, doc := range m.docs {
		content := strings.ToLower(doc.Content)
		matched := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		hits = append(hits, ports.SearchHit{
			Document: doc,
			Score:    float64(matched) / float64(len(terms)),
		})
	}
	// Stable order: score descending, document ID as tiebreaker.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Document.ID < hits[j].Document.ID
	})
	if len(hits) > top {
		hits = hits[:top]
	}
	return hits, nil
}
