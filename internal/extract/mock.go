package extract

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/billdispute/disputecall/internal/adapter/llm"
	"github.com/billdispute/disputecall/internal/domain"
)

// MockExtractor returns canned fields for testing and local development.
type MockExtractor struct {
	Fields *domain.BillFields
	Err    error

	// Calls records the media types of every extraction request.
	Calls []string
}

var _ Extractor = (*MockExtractor)(nil)

func (m *MockExtractor) Extract(_ context.Context, _ []byte, mediaType string) (*domain.BillFields, error) {
	m.Calls = append(m.Calls, mediaType)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Fields != nil {
		return m.Fields, nil
	}
	amount := 49.99
	return &domain.BillFields{
		PhoneNumber:  "+15555550100",
		Company:      "Mock Telecom",
		CustomerName: "Pat Example",
		Amount:       &amount,
		BillType:     "phone",
	}, nil
}

// NewExtractor returns a mock extractor when DISPUTECALL_MODE=MOCK, otherwise
// the vision-backed implementation.
func NewExtractor(apiKey, model string, timeout time.Duration) Extractor {
	if os.Getenv(llm.EnvMode) == llm.ModeMock {
		log.Println("DISPUTECALL_MODE=MOCK detected, using mock bill extractor")
		return &MockExtractor{}
	}
	return NewVisionExtractor(apiKey, model, timeout)
}
