package ports

import "context"

// TextDocument is one unit of work for the text-analytics boundary.
type TextDocument struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

// DocumentError is a non-fatal per-document error annotation. One failed
// document (or one failed batch) never aborts its siblings.
type DocumentError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// KeyPhraseResult carries either key phrases or an error for one document.
type KeyPhraseResult struct {
	ID         string         `json:"id"`
	KeyPhrases []string       `json:"key_phrases,omitempty"`
	Error      *DocumentError `json:"error,omitempty"`
}

// ConfidenceScores is the positive/neutral/negative confidence triple.
type ConfidenceScores struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// SentenceSentiment is the per-sentence breakdown of a sentiment result.
type SentenceSentiment struct {
	Text             string           `json:"text"`
	Sentiment        string           `json:"sentiment"`
	ConfidenceScores ConfidenceScores `json:"confidence_scores"`
}

// SentimentResult carries either a sentiment label with confidences or an
// error for one document.
type SentimentResult struct {
	ID               string              `json:"id"`
	Sentiment        string              `json:"sentiment,omitempty"`
	ConfidenceScores ConfidenceScores    `json:"confidence_scores"`
	Sentences        []SentenceSentiment `json:"sentences,omitempty"`
	Error            *DocumentError      `json:"error,omitempty"`
}

// TextAnalyticsClient is the text-analytics boundary: batched short documents
// in, per-document results (or per-document errors) out. Implementations
// receive at most one batch worth of documents per call; batching across the
// cap is the caller's concern.
type TextAnalyticsClient interface {
	KeyPhrases(ctx context.Context, docs []TextDocument) ([]KeyPhraseResult, error)
	Sentiment(ctx context.Context, docs []TextDocument) ([]SentimentResult, error)
}
