// Package llm provides an abstraction for the dialogue model client.
package llm

import "context"

// CompletionRequest is a single-shot prompt to the model. The dialogue layer
// rebuilds the full conversation into the system prompt every turn, so one
// user message is all that is ever sent.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Client defines the interface for dialogue model operations.
type Client interface {
	// Complete sends a completion request and returns the generated text.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}
