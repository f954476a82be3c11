package ports

import "context"

// CompletionClient generates text from a prompt plus grounding context. An
// empty context list must produce an ungrounded response, never an error.
type CompletionClient interface {
	Generate(ctx context.Context, prompt string, contextSnippets []string) (string, error)
}
