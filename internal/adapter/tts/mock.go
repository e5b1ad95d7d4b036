package tts

import (
	"context"
	"log"
	"os"
	"time"
)

// MockSynthesizer is a mock implementation of Synthesizer for testing.
type MockSynthesizer struct {
	// Err, when set, is returned by every call.
	Err error
	// Calls records every (text, voiceID) pair received, in order.
	Calls []MockCall
}

// MockCall is one recorded synthesis request.
type MockCall struct {
	Text    string
	VoiceID string
}

// NewMockSynthesizer creates a new mock synthesizer.
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

// Ensure MockSynthesizer implements Synthesizer interface.
var _ Synthesizer = (*MockSynthesizer)(nil)

// Synthesize returns a fake audio payload derived from the text.
func (m *MockSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	m.Calls = append(m.Calls, MockCall{Text: text, VoiceID: voiceID})
	if m.Err != nil {
		return nil, m.Err
	}
	return []byte("MP3:" + text), nil
}

// NewSynthesizer creates a synthesizer based on the DISPUTECALL_MODE
// environment variable, mirroring the dialogue client factory.
func NewSynthesizer(apiKey string, timeout time.Duration) Synthesizer {
	if os.Getenv("DISPUTECALL_MODE") == "MOCK" {
		log.Println("DISPUTECALL_MODE=MOCK detected, using mock synthesizer")
		return NewMockSynthesizer()
	}
	return NewElevenLabsClient(apiKey, timeout)
}
