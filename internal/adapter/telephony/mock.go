package telephony

import (
	"context"
	"fmt"
	"log"
	"os"
)

// MockDialer is a mock implementation of Dialer for testing.
type MockDialer struct {
	// Err, when set, is returned by every call.
	Err error
	// Calls records every request received, in order.
	Calls []*CreateCallInput
}

// NewMockDialer creates a new mock dialer.
func NewMockDialer() *MockDialer {
	return &MockDialer{}
}

// Ensure MockDialer implements Dialer interface.
var _ Dialer = (*MockDialer)(nil)

// CreateCall records the request and returns a synthetic call SID.
func (m *MockDialer) CreateCall(ctx context.Context, in *CreateCallInput) (string, error) {
	m.Calls = append(m.Calls, in)
	if m.Err != nil {
		return "", m.Err
	}
	return fmt.Sprintf("CA%032d", len(m.Calls)), nil
}

// NewDialer creates a dialer based on the DISPUTECALL_MODE environment
// variable, mirroring the dialogue client factory.
func NewDialer(accountSID, authToken string) (Dialer, error) {
	if os.Getenv("DISPUTECALL_MODE") == "MOCK" {
		log.Println("DISPUTECALL_MODE=MOCK detected, using mock dialer")
		return NewMockDialer(), nil
	}
	return NewTwilioClient(accountSID, authToken)
}
