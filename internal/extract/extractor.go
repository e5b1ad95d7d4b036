// Package extract pulls structured bill fields out of uploaded bill documents.
package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/billdispute/disputecall/internal/domain"
)

// Extractor reads a bill document and returns whatever fields it can find.
// Extraction is best effort: a nil error with sparse fields is normal.
type Extractor interface {
	Extract(ctx context.Context, document []byte, mediaType string) (*domain.BillFields, error)
}

const extractionPrompt = `Analyze this bill or receipt image and extract the following information as JSON:
{
  "phoneNumber": "customer service phone number on the bill, in E.164 format if possible",
  "company": "company or service provider name",
  "customerName": "account holder name",
  "accountNumber": "account number",
  "amount": disputed or total charge amount as a number,
  "billType": "type of bill (phone, internet, utility, etc.)",
  "transactionId": "transaction or invoice ID",
  "chargeDate": "date of the charge",
  "dueDate": "payment due date",
  "billingPeriod": "billing period covered",
  "previousBalance": previous balance as a number,
  "currentCharges": current charges as a number,
  "totalAmount": total amount due as a number
}
Omit any field you cannot find. Respond with JSON only, no other text.`

// VisionExtractor extracts bill fields with the Anthropic vision API.
type VisionExtractor struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
}

// NewVisionExtractor creates a new vision-backed extractor.
func NewVisionExtractor(apiKey, model string, timeout time.Duration) *VisionExtractor {
	return &VisionExtractor{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: timeout,
	}
}

var _ Extractor = (*VisionExtractor)(nil)

// Extract sends the document image to the model and parses the JSON reply.
// A reply that cannot be parsed yields empty fields, not an error, so an
// unreadable bill still produces a dispute.
func (e *VisionExtractor) Extract(ctx context.Context, document []byte, mediaType string) (*domain.BillFields, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if c, ok := supportedMediaType(mediaType); ok {
		mediaType = c
	} else {
		return nil, fmt.Errorf("unsupported media type %q", mediaType)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	encoded := base64.StdEncoding.EncodeToString(document)
	msg, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, encoded),
				anthropic.NewTextBlock(extractionPrompt),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	var raw string
	for _, block := range msg.Content {
		if block.Type == "text" {
			raw = block.Text
			break
		}
	}
	return parseFields(raw), nil
}

// supportedMediaType normalizes the content type of an uploaded document.
func supportedMediaType(mediaType string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "image/jpeg", "image/jpg":
		return "image/jpeg", true
	case "image/png":
		return "image/png", true
	case "image/gif":
		return "image/gif", true
	case "image/webp":
		return "image/webp", true
	}
	return "", false
}

// parseFields decodes the model's JSON reply, tolerating code fences and
// surrounding prose. Unparseable output degrades to empty fields.
func parseFields(raw string) *domain.BillFields {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "{"); i >= 0 {
		if j := strings.LastIndex(raw, "}"); j > i {
			raw = raw[i : j+1]
		}
	}

	var fields domain.BillFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		log.Printf("WARN: could not parse extraction response: %v", err)
		return &domain.BillFields{}
	}
	return &fields
}
