package relevance

import "strings"

// SearchKeywords builds the deduplicated set of 1-, 2-, and 3-word phrases
// used to construct looser search-service queries. Phrases are formed from
// adjacent surviving keywords in query order and deduplicated keeping the
// first occurrence. This extractor feeds search-query construction only; the
// chat-context selector tests single keywords and must stay independent of
// it.
func SearchKeywords(query string) []string {
	keywords := Keywords(query)

	var phrases []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		phrases = append(phrases, p)
	}

	for _, kw := range keywords {
		add(kw)
	}
	for i := 0; i+1 < len(keywords); i++ {
		add(strings.Join(keywords[i:i+2], " "))
	}
	for i := 0; i+2 < len(keywords); i++ {
		add(strings.Join(keywords[i:i+3], " "))
	}
	return phrases
}
