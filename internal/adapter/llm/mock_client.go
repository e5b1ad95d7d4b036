package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockClient is a mock implementation of Client for testing and offline runs.
type MockClient struct {
	// Response, when set, is returned verbatim by every call.
	Response string
	// Err, when set, is returned by every call.
	Err error
	// Calls records every request received, in order.
	Calls []*CompletionRequest
}

// NewMockClient creates a new mock dialogue client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements Client interface.
var _ Client = (*MockClient)(nil)

// Complete returns a canned response derived from the request.
func (m *MockClient) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return "", m.Err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return fmt.Sprintf("[MOCK] %s", truncate(strings.TrimSpace(req.Prompt), 80)), nil
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
