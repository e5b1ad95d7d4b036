package domain

import "time"

// CallStatus is the provider-reported status of a call.
type CallStatus string

const (
	CallStatusInitiated CallStatus = "initiated"
	CallStatusRinging   CallStatus = "ringing"
	CallStatusAnswered  CallStatus = "answered"
	CallStatusCompleted CallStatus = "completed"
	CallStatusBusy      CallStatus = "busy"
	CallStatusNoAnswer  CallStatus = "no-answer"
	CallStatusFailed    CallStatus = "failed"
	CallStatusCanceled  CallStatus = "canceled"
)

// Terminal reports whether the status ends the call.
func (s CallStatus) Terminal() bool {
	switch s {
	case CallStatusCompleted, CallStatusBusy, CallStatusNoAnswer, CallStatusFailed, CallStatusCanceled:
		return true
	}
	return false
}

// CallOutcome classifies how a dispute call went, determined from the full
// transcript after the call ends.
type CallOutcome string

const (
	OutcomeResolved  CallOutcome = "resolved"
	OutcomeEscalated CallOutcome = "escalated"
	OutcomePending   CallOutcome = "pending"
	OutcomeFailed    CallOutcome = "failed"
)

// OutcomeAnalysis is the parsed result of transcript classification.
type OutcomeAnalysis struct {
	Outcome   CallOutcome `json:"outcome"`
	Summary   string      `json:"summary"`
	NextSteps string      `json:"nextSteps,omitempty"`
}

// CallRecord is the archived record of a finished call.
type CallRecord struct {
	RecordID        string      `json:"recordId"`
	CallSID         string      `json:"callSid"`
	DisputeID       string      `json:"disputeId"`
	Status          CallStatus  `json:"status"`
	DurationSeconds int         `json:"durationSeconds"`
	Transcript      string      `json:"transcript,omitempty"`
	Outcome         CallOutcome `json:"outcome"`
	Summary         string      `json:"summary,omitempty"`
	NextSteps       string      `json:"nextSteps,omitempty"`
	StartedAt       time.Time   `json:"startedAt"`
	EndedAt         time.Time   `json:"endedAt"`
}

// Recording is a provider-hosted call recording.
type Recording struct {
	RecordingSID    string    `json:"recordingSid"`
	CallSID         string    `json:"callSid"`
	URL             string    `json:"url"`
	DurationSeconds int       `json:"durationSeconds"`
	CreatedAt       time.Time `json:"createdAt"`
}
