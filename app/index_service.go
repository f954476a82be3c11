package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tablechat/adapters/search"
	"tablechat/domain/dataset"
	"tablechat/domain/relevance"
	"tablechat/internal/errors"
	"tablechat/ports"

	"github.com/google/uuid"
)

// IndexService pushes a dataset's rows into the search service and runs
// queries with a fallback ladder: a fruitless `full` query is
// retried as a loosened `simple`/`any` query before giving up with an empty
// result set.
type IndexService struct {
	client      ports.SearchClient
	settleDelay time.Duration
	mode        string

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// IndexResult reports the outcome of indexing a dataset.
type IndexResult struct {
	Uploaded      int    `json:"uploaded"`
	IndexedCount  int    `json:"indexed_count"`
	FailedBatches int    `json:"failed_batches"`
	Mode          string `json:"mode"`
}

// NewIndexService creates an index service. settleDelay is how long to wait
// after an upload before the document count is trusted.
func NewIndexService(client ports.SearchClient, settleDelay time.Duration, mode string) *IndexService {
	return &IndexService{
		client:      client,
		settleDelay: settleDelay,
		mode:        mode,
		sleep:       time.Sleep,
	}
}

// BuildDocuments renders every row of the dataset as a search document. The
// content is the same flattened pair text the chat selector emits, so both
// paths ground on identical row renderings.
func BuildDocuments(ds *dataset.Dataset) []ports.SearchDocument {
	var docs []ports.SearchDocument
	for i := range ds.Sheets {
		sheet := &ds.Sheets[i]
		for rowIdx, row := range sheet.Rows {
			docs = append(docs, ports.SearchDocument{
				ID:             uuid.NewString(),
				Content:        dataset.FlattenRow(sheet.Columns, row),
				SheetName:      sheet.Name,
				AdditionalInfo: fmt.Sprintf("row %d", rowIdx+1),
			})
		}
	}
	return docs
}

// IndexDataset ensures the index exists, uploads the dataset in batches, and
// returns the post-settle document count. A failed batch is logged and
// skipped; the remaining batches still upload.
func (s *IndexService) IndexDataset(ctx context.Context, ds *dataset.Dataset) (*IndexResult, error) {
	if ds.IsEmpty() {
		return nil, errors.InvalidInput("no dataset to index")
	}
	if err := s.client.EnsureIndex(ctx); err != nil {
		return nil, errors.ExternalServiceError("search", err)
	}

	docs := BuildDocuments(ds)
	result := &IndexResult{Mode: s.mode}
	for start := 0; start < len(docs); start += search.MaxUploadBatch {
		end := start + search.MaxUploadBatch
		if end > len(docs) {
			end = len(docs)
		}
		accepted, err := s.client.UploadDocuments(ctx, docs[start:end])
		if err != nil {
			log.Printf("[IndexService] upload batch %d-%d failed: %v", start, end, err)
			result.FailedBatches++
			continue
		}
		result.Uploaded += accepted
	}

	// The service needs a moment before uploads become queryable.
	if s.settleDelay > 0 {
		s.sleep(s.settleDelay)
	}

	count, err := s.client.Count(ctx)
	if err != nil {
		log.Printf("[IndexService] count after upload failed: %v", err)
		result.IndexedCount = result.Uploaded
		return result, nil
	}
	result.IndexedCount = count
	return result, nil
}

// Search runs the fallback ladder. It never returns an error for a merely
// empty result; the caller gets an empty hit set once every attempt is
// exhausted.
func (s *IndexService) Search(ctx context.Context, query string, top int) ([]ports.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.InvalidInput("query is required")
	}

	hits, err := s.client.Search(ctx, query, ports.SearchOptions{
		QueryType:  "full",
		SearchMode: "any",
		Top:        top,
	})
	if err == nil && len(hits) > 0 {
		return hits, nil
	}
	if err != nil {
		log.Printf("[IndexService] full query failed, falling back to simple: %v", err)
	}

	// Loosen the query to its keyword phrases and drop to simple syntax.
	loosened := strings.Join(relevance.SearchKeywords(query), " ")
	if loosened == "" {
		loosened = query
	}
	hits, err = s.client.Search(ctx, loosened, ports.SearchOptions{
		QueryType:  "simple",
		SearchMode: "any",
		Top:        top,
	})
	if err != nil {
		log.Printf("[IndexService] fallback query failed, returning empty result set: %v", err)
		return []ports.SearchHit{}, nil
	}
	return hits, nil
}
