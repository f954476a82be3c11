package relevance

// stopWords is the fixed, process-wide set of common English function words
// filtered out of query tokens before matching. Read-only after init.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "any": true, "can": true,
	"had": true, "her": true, "was": true, "one": true, "our": true,
	"out": true, "has": true, "have": true, "him": true, "his": true,
	"how": true, "its": true, "may": true, "new": true, "now": true,
	"old": true, "see": true, "two": true, "who": true, "did": true,
	"get": true, "let": true, "say": true, "she": true, "too": true,
	"use": true, "with": true, "from": true, "this": true, "that": true,
	"what": true, "when": true, "where": true, "which": true, "there": true,
	"their": true, "about": true, "would": true, "could": true, "should": true,
	"them": true, "then": true, "than": true, "some": true, "into": true,
	"only": true, "other": true, "also": true, "does": true, "show": true,
	"find": true, "give": true, "tell": true, "many": true, "much": true,
	"most": true, "more": true, "over": true, "each": true, "between": true,
	"across": true, "under": true, "after": true, "before": true, "while": true,
}
