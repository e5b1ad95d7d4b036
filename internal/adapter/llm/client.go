package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient is the Anthropic-backed dialogue model client.
type AnthropicClient struct {
	client  anthropic.Client
	timeout time.Duration
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(apiKey string, timeout time.Duration) *AnthropicClient {
	return &AnthropicClient{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		timeout: timeout,
	}
}

// Ensure AnthropicClient implements Client interface.
var _ Client = (*AnthropicClient)(nil)

// Complete sends a non-streaming messages request and returns the first text
// block of the response.
func (c *AnthropicClient) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: req.System},
		}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", errors.New("unexpected response shape: no text content")
}
