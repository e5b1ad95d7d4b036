package domain

import (
	"strings"
	"time"
)

// Speaker tags one side of the conversation. The string values appear
// verbatim in transcripts handed to the dialogue model.
type Speaker string

const (
	// SpeakerAgent is the automated caller (the customer persona).
	SpeakerAgent Speaker = "AI"
	// SpeakerHuman is the customer-service representative on the other end.
	SpeakerHuman Speaker = "Human"
)

// Utterance is one line of dialogue. Immutable once appended.
type Utterance struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// CallSession is the live state of one active phone call. Turns for one call
// arrive strictly serially from the provider, so the session itself needs no
// lock; the registry that owns the map does.
type CallSession struct {
	CallSID     string      `json:"callSid"`
	DisputeID   string      `json:"disputeId"`
	PhoneNumber string      `json:"phoneNumber"`
	Transcript  []Utterance `json:"transcript"`
	IsActive    bool        `json:"isActive"`
	StartTime   time.Time   `json:"startTime"`
}

// TranscriptText renders the transcript as "Speaker: text" lines in turn
// order, the format the dialogue model is prompted with.
func (s *CallSession) TranscriptText() string {
	lines := make([]string, 0, len(s.Transcript))
	for _, u := range s.Transcript {
		lines = append(lines, string(u.Speaker)+": "+u.Text)
	}
	return strings.Join(lines, "\n")
}
