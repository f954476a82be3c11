package ports

import "context"

// SearchDocument is one row rendered for the index/search boundary.
type SearchDocument struct {
	ID             string `json:"id"`
	Content        string `json:"content"`
	SheetName      string `json:"sheetName"`
	AdditionalInfo string `json:"additionalInfo"`
}

// SearchOptions selects the query flavor. QueryType is "full" or "simple";
// SearchMode is "any" (match any term).
type SearchOptions struct {
	QueryType  string
	SearchMode string
	Top        int
}

// SearchHit is one search result with its relevance score.
type SearchHit struct {
	Document SearchDocument `json:"document"`
	Score    float64        `json:"score"`
}

// SearchClient is the document-indexing/search boundary. After an upload a
// short settling delay is expected before Count reflects the new documents.
type SearchClient interface {
	EnsureIndex(ctx context.Context) error
	UploadDocuments(ctx context.Context, docs []SearchDocument) (int, error)
	Count(ctx context.Context) (int, error)
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchHit, error)
}
