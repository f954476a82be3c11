package relevance

import (
	"fmt"
	"regexp"
	"strings"

	"tablechat/domain/dataset"
)

// MaxContextSnippets caps how many matched snippets a single query may hand
// to the completions call. Simple prefix truncation, no re-ranking; the
// sample fallback path is not subject to this cap.
const MaxContextSnippets = 20

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Keywords extracts the query tokens that participate in matching: the query
// is lowercased, every character that is neither a word character nor
// whitespace becomes a space, and the resulting tokens are kept when longer
// than two characters and not stop words. An empty or all-stop-word query
// yields an empty slice, not an error.
func Keywords(query string) []string {
	normalized := nonWord.ReplaceAllString(strings.ToLower(query), " ")
	var keywords []string
	for _, tok := range strings.Fields(normalized) {
		if len(tok) <= 2 || stopWords[tok] {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

// SelectContext returns the ordered snippets used as grounding context for a
// completions call. A row matches when any keyword is a substring of its
// lowercase-flattened serialization; matches are emitted in sheet order, then
// row order, truncated to MaxContextSnippets. When nothing matches, the
// selector degrades to one sample snippet per non-empty sheet instead of
// failing. Pure: the dataset is never mutated and identical inputs always
// produce identical output.
func SelectContext(query string, ds *dataset.Dataset) []string {
	if ds.IsEmpty() {
		return nil
	}

	keywords := Keywords(query)

	var snippets []string
	if len(keywords) > 0 {
		for i := range ds.Sheets {
			sheet := &ds.Sheets[i]
			for rowIdx, row := range sheet.Rows {
				flattened := dataset.FlattenRow(sheet.Columns, row)
				if !rowMatches(strings.ToLower(flattened), keywords) {
					continue
				}
				snippets = append(snippets,
					fmt.Sprintf("[From sheet %q, row %d]: %s", sheet.Name, rowIdx+1, flattened))
			}
		}
		if len(snippets) > MaxContextSnippets {
			snippets = snippets[:MaxContextSnippets]
		}
	}

	if len(snippets) == 0 {
		snippets = sampleSnippets(ds)
	}
	return snippets
}

// rowMatches reports whether any keyword appears as a substring of the
// serialized row. Pure containment: a keyword may match inside a larger word.
func rowMatches(serialized string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(serialized, kw) {
			return true
		}
	}
	return false
}

// sampleSnippets is the fallback when keyword matching finds nothing: the
// first row of every non-empty sheet, one snippet per sheet.
func sampleSnippets(ds *dataset.Dataset) []string {
	var snippets []string
	for i := range ds.Sheets {
		sheet := &ds.Sheets[i]
		if len(sheet.Rows) == 0 {
			continue
		}
		snippets = append(snippets,
			fmt.Sprintf("[Sample from sheet %q]: %s", sheet.Name, dataset.FlattenRow(sheet.Columns, sheet.Rows[0])))
	}
	return snippets
}
