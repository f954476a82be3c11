package app

import (
	"context"
	"log"

	"tablechat/domain/dataset"
	"tablechat/domain/relevance"
	"tablechat/internal/errors"
	"tablechat/ports"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

// ChatResult is one answered chat turn.
type ChatResult struct {
	Answer     string   `json:"answer"`
	AnswerHTML string   `json:"answer_html"`
	Grounded   bool     `json:"grounded"`
	Context    []string `json:"context"`
	Mode       string   `json:"mode"`
}

// ChatService answers questions about a session's dataset: the relevance
// selector picks grounding snippets, the completion client generates the
// answer.
type ChatService struct {
	completer ports.CompletionClient
	mode      string
}

// NewChatService creates a chat service over the given completion client.
// Mode ("live" or "mock") is echoed into responses so the UI can surface
// degraded operation inline.
func NewChatService(completer ports.CompletionClient, mode string) *ChatService {
	return &ChatService{completer: completer, mode: mode}
}

// Chat selects grounding context for the message and generates an answer.
// An empty dataset yields an ungrounded answer rather than an error.
func (s *ChatService) Chat(ctx context.Context, message string, ds *dataset.Dataset) (*ChatResult, error) {
	if message == "" {
		return nil, errors.InvalidInput("message is required")
	}

	snippets := relevance.SelectContext(message, ds)
	log.Printf("[ChatService] Selected %d context snippets for message (%d chars)", len(snippets), len(message))

	answer, err := s.completer.Generate(ctx, message, snippets)
	if err != nil {
		return nil, errors.ExternalServiceError("completions", err)
	}

	return &ChatResult{
		Answer:     answer,
		AnswerHTML: renderMarkdown(answer),
		Grounded:   len(snippets) > 0,
		Context:    snippets,
		Mode:       s.mode,
	}, nil
}

// renderMarkdown converts a model answer to HTML for the browser.
func renderMarkdown(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	return string(markdown.ToHTML([]byte(text), p, nil))
}
