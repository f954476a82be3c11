package app

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"tablechat/adapters/textanalytics"
	"tablechat/domain/dataset"
	"tablechat/internal/errors"
	"tablechat/ports"

	"golang.org/x/sync/errgroup"
)

// analyticsParallelism bounds how many analytics batches are in flight at
// once.
const analyticsParallelism = 4

// AnalyticsService runs key-phrase extraction and sentiment analysis over a
// sheet's rows, splitting the work into service-sized batches. A failed batch
// annotates only its own documents; sibling batches still complete.
type AnalyticsService struct {
	analyzer ports.TextAnalyticsClient
	mode     string
}

// NewAnalyticsService creates an analytics service over the given client.
func NewAnalyticsService(analyzer ports.TextAnalyticsClient, mode string) *AnalyticsService {
	return &AnalyticsService{analyzer: analyzer, mode: mode}
}

// Mode reports whether the service runs live or mock.
func (s *AnalyticsService) Mode() string { return s.mode }

// Documents renders one sheet's rows as text-analytics documents. When a
// column is named, only that column's value is analyzed; otherwise the whole
// flattened row is. Document IDs are 1-based row indexes.
func (s *AnalyticsService) Documents(sheet *dataset.Sheet, column string) ([]ports.TextDocument, error) {
	if sheet == nil {
		return nil, errors.NotFound("sheet")
	}
	if column != "" && !containsColumn(sheet.Columns, column) {
		return nil, errors.InvalidInput(fmt.Sprintf("sheet %q has no column %q", sheet.Name, column))
	}

	docs := make([]ports.TextDocument, 0, len(sheet.Rows))
	for i, row := range sheet.Rows {
		text := ""
		if column != "" {
			text = dataset.FormatValue(row[column])
		} else {
			text = dataset.FlattenRow(sheet.Columns, row)
		}
		docs = append(docs, ports.TextDocument{
			ID:       strconv.Itoa(i + 1),
			Language: "en",
			Text:     text,
		})
	}
	return docs, nil
}

// KeyPhrases analyzes the documents in batches and merges the per-document
// results back into input order.
func (s *AnalyticsService) KeyPhrases(ctx context.Context, docs []ports.TextDocument) ([]ports.KeyPhraseResult, error) {
	return runBatches(ctx, docs,
		s.analyzer.KeyPhrases,
		func(doc ports.TextDocument, derr *ports.DocumentError) ports.KeyPhraseResult {
			return ports.KeyPhraseResult{ID: doc.ID, Error: derr}
		},
		func(r ports.KeyPhraseResult) string { return r.ID },
	)
}

// Sentiment analyzes the documents in batches and merges the per-document
// results back into input order.
func (s *AnalyticsService) Sentiment(ctx context.Context, docs []ports.TextDocument) ([]ports.SentimentResult, error) {
	return runBatches(ctx, docs,
		s.analyzer.Sentiment,
		func(doc ports.TextDocument, derr *ports.DocumentError) ports.SentimentResult {
			return ports.SentimentResult{ID: doc.ID, Error: derr}
		},
		func(r ports.SentimentResult) string { return r.ID },
	)
}

// runBatches splits documents into batches of the service cap, runs them with
// bounded parallelism, and stitches the results back together in document-ID
// order. Empty documents are annotated locally and never sent; a batch that
// fails outright yields error annotations for exactly its documents.
func runBatches[R any](
	ctx context.Context,
	docs []ports.TextDocument,
	call func(context.Context, []ports.TextDocument) ([]R, error),
	annotate func(ports.TextDocument, *ports.DocumentError) R,
	idOf func(R) string,
) ([]R, error) {
	if len(docs) == 0 {
		return nil, errors.InvalidInput("no documents to analyze")
	}

	byID := make(map[string]R, len(docs))
	var sendable []ports.TextDocument
	for _, doc := range docs {
		if doc.Text == "" {
			byID[doc.ID] = annotate(doc, &ports.DocumentError{
				Code:    errors.CodeInvalidInput,
				Message: "document text is empty",
			})
			continue
		}
		sendable = append(sendable, doc)
	}

	type batchOut struct {
		results []R
		failed  []ports.TextDocument
		err     error
	}
	batches := splitBatches(sendable, textanalytics.MaxBatchSize)
	outs := make([]batchOut, len(batches))

	// Batches record their own outcome and always return nil so one failure
	// never cancels siblings.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyticsParallelism)
	for i, batch := range batches {
		i, batch := i, batch // pin per-iteration values; go directive < 1.22
		g.Go(func() error {
			results, err := call(gctx, batch)
			if err != nil {
				log.Printf("[AnalyticsService] batch %d/%d failed: %v", i+1, len(batches), err)
				outs[i] = batchOut{failed: batch, err: err}
				return nil
			}
			outs[i] = batchOut{results: results}
			return nil
		})
	}
	_ = g.Wait()

	for _, out := range outs {
		for _, r := range out.results {
			byID[idOf(r)] = r
		}
		for _, doc := range out.failed {
			byID[doc.ID] = annotate(doc, &ports.DocumentError{
				Code:    errors.CodeExternalService,
				Message: out.err.Error(),
			})
		}
	}

	merged := make([]R, 0, len(docs))
	for _, doc := range docs {
		if r, ok := byID[doc.ID]; ok {
			merged = append(merged, r)
		}
	}
	return merged, nil
}

// splitBatches cuts docs into chunks of at most size documents.
func splitBatches(docs []ports.TextDocument, size int) [][]ports.TextDocument {
	var batches [][]ports.TextDocument
	for start := 0; start < len(docs); start += size {
		end := start + size
		if end > len(docs) {
			end = len(docs)
		}
		batches = append(batches, docs[start:end])
	}
	return batches
}

func containsColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
