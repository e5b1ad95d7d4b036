package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "DISPUTECALL_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewClient creates a dialogue client based on the DISPUTECALL_MODE
// environment variable. If DISPUTECALL_MODE=MOCK, returns a MockClient;
// otherwise returns a real Anthropic client.
func NewClient(apiKey string, timeout time.Duration) Client {
	if os.Getenv(EnvMode) == ModeMock {
		log.Println("DISPUTECALL_MODE=MOCK detected, using mock dialogue client")
		return NewMockClient()
	}
	return NewAnthropicClient(apiKey, timeout)
}
