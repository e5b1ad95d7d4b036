package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/billdispute/disputecall/internal/adapter/telephony"
	"github.com/billdispute/disputecall/internal/domain"
	"github.com/billdispute/disputecall/internal/policy"
)

// CreateDisputeInput is an uploaded bill plus the customer's complaint.
type CreateDisputeInput struct {
	Document    []byte
	MediaType   string
	Description string
	Priority    string
}

// DisputeResult summarizes a created dispute and whether a call went out.
type DisputeResult struct {
	DisputeID     string                `json:"disputeId"`
	Fields        domain.BillFields     `json:"extractedFields"`
	Context       domain.DisputeContext `json:"context"`
	CallInitiated bool                  `json:"callInitiated"`
	CallSID       string                `json:"callSid,omitempty"`
	Message       string                `json:"message"`
}

// CreateDispute extracts bill fields from the uploaded document, stores the
// dispute context, and places the outbound call when a callee number was
// found and the dial policy allows it. Extraction failure degrades to an
// empty-fields dispute, never an upload error.
func (s *Service) CreateDispute(ctx context.Context, in CreateDisputeInput) (*DisputeResult, error) {
	if len(in.Document) == 0 {
		return nil, fmt.Errorf("document is required")
	}
	if in.Description == "" {
		return nil, fmt.Errorf("description is required")
	}

	fields, err := s.extractor.Extract(ctx, in.Document, in.MediaType)
	if err != nil {
		log.Printf("WARN: bill extraction failed: %v", err)
		fields = &domain.BillFields{}
	}

	disputeID := uuid.NewString()
	dc := domain.ContextFromBill(disputeID, in.Description, *fields)
	s.contexts.Set(dc)
	log.Printf("dispute %s created (company=%q, priority=%q)", disputeID, dc.Company, in.Priority)

	result := &DisputeResult{
		DisputeID: disputeID,
		Fields:    *fields,
		Context:   dc,
	}

	if dc.PhoneNumber == "" {
		result.Message = "Dispute created. No customer service number was found on the bill, so no call was placed."
		return result, nil
	}

	decision, err := s.evaluateDialPolicy(ctx, dc)
	if err != nil {
		log.Printf("WARN: dial policy evaluation failed for dispute %s: %v", disputeID, err)
		result.Message = "Dispute created, but the call could not be policy-checked and was not placed."
		s.countCallPlaced("error")
		return result, nil
	}
	if decision != policy.DecisionAllow {
		result.Message = "Dispute created. This dispute requires a human caller and was not auto-dialed."
		s.countCallPlaced("blocked")
		return result, nil
	}

	callSID, err := s.placeCall(ctx, dc)
	if err != nil {
		log.Printf("WARN: failed to place call for dispute %s: %v", disputeID, err)
		result.Message = "Dispute created, but the call could not be placed. Please try again."
		s.countCallPlaced("error")
		return result, nil
	}

	s.sessions.Create(callSID, disputeID, dc.PhoneNumber)
	s.updateActiveGauge()
	s.countCallPlaced("placed")

	result.CallInitiated = true
	result.CallSID = callSID
	result.Message = fmt.Sprintf("Dispute created and call placed to %s at %s.", dc.Company, dc.PhoneNumber)
	return result, nil
}

func (s *Service) evaluateDialPolicy(ctx context.Context, dc domain.DisputeContext) (string, error) {
	amount := 0.0
	if dc.Amount != nil {
		amount = *dc.Amount
	} else if dc.TotalAmount != nil {
		amount = *dc.TotalAmount
	}
	return s.dialGate.Evaluate(ctx, policy.DialInput{
		PhoneNumber: dc.PhoneNumber,
		Amount:      amount,
		MaxAmount:   s.cfg.MaxDisputeAmount,
		Company:     dc.Company,
	})
}

// placeCall dials the callee with the initial webhook carrying the full
// context. The context rides the URL because it is the only state guaranteed
// to reach the first turn.
func (s *Service) placeCall(ctx context.Context, dc domain.DisputeContext) (string, error) {
	data, err := json.Marshal(dc)
	if err != nil {
		return "", fmt.Errorf("failed to serialize context: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.dialer.CreateCall(ctx, &telephony.CreateCallInput{
		To:                         dc.PhoneNumber,
		From:                       s.cfg.TwilioFromNumber,
		WebhookURL:                 s.initialURL(dc.DisputeID, string(data), 0),
		StatusCallbackURL:          s.cfg.PublicBaseURL + "/webhooks/call-status",
		Record:                     s.cfg.RecordCalls,
		RecordingStatusCallbackURL: s.cfg.PublicBaseURL + "/webhooks/recording-status",
	})
}

func (s *Service) countCallPlaced(status string) {
	if s.metrics != nil {
		s.metrics.CallsPlaced.WithLabelValues(status).Inc()
	}
}
