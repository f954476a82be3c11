package textanalytics

import (
	"context"
	"regexp"
	"strings"

	"tablechat/domain/relevance"
	"tablechat/ports"

	"github.com/montanaflynn/stats"
)

// SentimentRatio is the lexicon-hit ratio the mock analyzer uses to classify
// a sentence: positive when positive hits exceed SentimentRatio times the
// negative hits, negative for the inverse, neutral otherwise.
const SentimentRatio = 2.0

// MaxMockPhrases caps how many key phrases the mock extractor returns.
const MaxMockPhrases = 10

var positiveWords = map[string]bool{
	"good": true, "great": true, "excellent": true, "nice": true,
	"happy": true, "love": true, "best": true, "positive": true,
	"wonderful": true, "amazing": true, "success": true, "growth": true,
	"improved": true, "strong": true, "win": true, "profit": true,
}

var negativeWords = map[string]bool{
	"bad": true, "poor": true, "terrible": true, "awful": true,
	"sad": true, "hate": true, "worst": true, "negative": true,
	"broken": true, "failure": true, "decline": true, "loss": true,
	"weak": true, "problem": true, "defective": true, "complaint": true,
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)
var wordSplit = regexp.MustCompile(`[^\w]+`)

// MockAnalyzer is the degraded text-analytics variant selected at startup
// when no credentials are configured. Same interface, keyword heuristics.
type MockAnalyzer struct {
	// Ratio overrides SentimentRatio when > 0.
	Ratio float64
}

func (m *MockAnalyzer) ratio() float64 {
	if m.Ratio > 0 {
		return m.Ratio
	}
	return SentimentRatio
}

// KeyPhrases extracts the deduplicated non-stop-word tokens longer than
// three characters, capped at MaxMockPhrases per document.
func (m *MockAnalyzer) KeyPhrases(ctx context.Context, docs []ports.TextDocument) ([]ports.KeyPhraseResult, error) {
	results := make([]ports.KeyPhraseResult, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			results = append(results, ports.KeyPhraseResult{
				ID:    doc.ID,
				Error: &ports.DocumentError{Code: "InvalidDocument", Message: "document text is empty"},
			})
			continue
		}
		var phrases []string
		seen := make(map[string]bool)
		for _, tok := range wordSplit.Split(strings.ToLower(doc.Text), -1) {
			if len(tok) <= 3 || seen[tok] || isStopWord(tok) {
				continue
			}
			seen[tok] = true
			phrases = append(phrases, tok)
			if len(phrases) >= MaxMockPhrases {
				break
			}
		}
		results = append(results, ports.KeyPhraseResult{ID: doc.ID, KeyPhrases: phrases})
	}
	return results, nil
}

// isStopWord reuses the selector's fixed stop-word filtering via the keyword
// extractor: a stop word (or too-short token) yields no keywords.
func isStopWord(tok string) bool {
	return len(relevance.Keywords(tok)) == 0
}

// Sentiment classifies each document by lexicon hits with the 2x-ratio rule,
// carrying a per-sentence breakdown. Document confidence is the mean of the
// sentence confidences.
func (m *MockAnalyzer) Sentiment(ctx context.Context, docs []ports.TextDocument) ([]ports.SentimentResult, error) {
	results := make([]ports.SentimentResult, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			results = append(results, ports.SentimentResult{
				ID:    doc.ID,
				Error: &ports.DocumentError{Code: "InvalidDocument", Message: "document text is empty"},
			})
			continue
		}

		var sentences []ports.SentenceSentiment
		var pos, neu, neg []float64
		for _, raw := range sentenceSplit.Split(doc.Text, -1) {
			sentence := strings.TrimSpace(raw)
			if sentence == "" {
				continue
			}
			label, scores := m.classify(sentence)
			sentences = append(sentences, ports.SentenceSentiment{
				Text:             sentence,
				Sentiment:        label,
				ConfidenceScores: scores,
			})
			pos = append(pos, scores.Positive)
			neu = append(neu, scores.Neutral)
			neg = append(neg, scores.Negative)
		}

		docScores := ports.ConfidenceScores{Neutral: 1}
		if len(sentences) > 0 {
			docScores.Positive, _ = stats.Mean(pos)
			docScores.Neutral, _ = stats.Mean(neu)
			docScores.Negative, _ = stats.Mean(neg)
		}
		results = append(results, ports.SentimentResult{
			ID:               doc.ID,
			Sentiment:        dominantLabel(docScores),
			ConfidenceScores: docScores,
			Sentences:        sentences,
		})
	}
	return results, nil
}

// classify scores one sentence by lexicon hits.
func (m *MockAnalyzer) classify(sentence string) (string, ports.ConfidenceScores) {
	var posHits, negHits float64
	for _, tok := range wordSplit.Split(strings.ToLower(sentence), -1) {
		if positiveWords[tok] {
			posHits++
		}
		if negativeWords[tok] {
			negHits++
		}
	}

	total := posHits + negHits
	if total == 0 {
		return "neutral", ports.ConfidenceScores{Neutral: 1}
	}

	ratio := m.ratio()
	switch {
	case posHits > ratio*negHits:
		return "positive", ports.ConfidenceScores{Positive: posHits / total, Negative: negHits / total}
	case negHits > ratio*posHits:
		return "negative", ports.ConfidenceScores{Negative: negHits / total, Positive: posHits / total}
	default:
		// Mixed signal: split the non-neutral mass between the two poles.
		return "neutral", ports.ConfidenceScores{Neutral: 0.5, Positive: posHits / total / 2, Negative: negHits / total / 2}
	}
}

// dominantLabel picks the label matching the largest confidence component.
func dominantLabel(s ports.ConfidenceScores) string {
	switch {
	case s.Positive > s.Neutral && s.Positive > s.Negative:
		return "positive"
	case s.Negative > s.Neutral && s.Negative > s.Positive:
		return "negative"
	default:
		return "neutral"
	}
}
