package service

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/billdispute/disputecall/internal/domain"
)

// StatusEvent is a provider call-status callback.
type StatusEvent struct {
	CallSID         string
	CallStatus      string
	CallDuration    string
	RecordingSID    string
	RecordingStatus string
	RecordingURL    string
	RecordingLength string
}

// HandleCallStatus processes a call-status callback. Non-terminal statuses
// are only logged; a terminal status closes the live session, archives the
// call record, and kicks off outcome classification.
func (s *Service) HandleCallStatus(ctx context.Context, ev StatusEvent) {
	status := domain.CallStatus(ev.CallStatus)
	log.Printf("call %s status: %s", ev.CallSID, status)

	if !status.Terminal() {
		return
	}

	session, ok := s.sessions.Close(ev.CallSID)
	s.updateActiveGauge()
	if !ok {
		// Status callbacks can outlive the session (restart, duplicate
		// callbacks). Nothing to archive without a session.
		log.Printf("WARN: terminal status for unknown call %s", ev.CallSID)
		return
	}

	duration, _ := strconv.Atoi(ev.CallDuration)
	now := time.Now().UTC()
	rec := &domain.CallRecord{
		RecordID:        uuid.NewString(),
		CallSID:         session.CallSID,
		DisputeID:       session.DisputeID,
		Status:          status,
		DurationSeconds: duration,
		Transcript:      session.TranscriptText(),
		Outcome:         domain.OutcomePending,
		StartedAt:       session.StartTime.UTC(),
		EndedAt:         now,
	}
	if status != domain.CallStatusCompleted {
		rec.Outcome = domain.OutcomeFailed
		rec.Summary = "Call ended with status " + string(status)
	}

	if err := s.archive.SaveCallRecord(ctx, rec); err != nil {
		log.Printf("WARN: failed to archive call %s: %v", ev.CallSID, err)
		return
	}

	if status == domain.CallStatusCompleted && rec.Transcript != "" {
		// Classification is slow and best effort; never on the callback path.
		go s.classifyAndStore(rec.RecordID, rec.Transcript)
	} else {
		s.countOutcome(rec.Outcome)
	}
}

// classifyAndStore runs outcome classification for an archived record.
func (s *Service) classifyAndStore(recordID, transcript string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	genStart := time.Now()
	analysis := s.generator.ClassifyOutcome(ctx, transcript)
	s.observeDialogue(genStart, "outcome", nil)
	s.countOutcome(analysis.Outcome)

	if err := s.archive.UpdateOutcome(ctx, recordID, analysis); err != nil {
		log.Printf("WARN: failed to store outcome for record %s: %v", recordID, err)
	}
}

// HandleRecordingStatus processes a recording-status callback. Only a
// finished recording with a fetchable URL is worth keeping; in-progress and
// failed callbacks are ignored.
func (s *Service) HandleRecordingStatus(ctx context.Context, ev StatusEvent) {
	if ev.RecordingSID == "" {
		return
	}
	if ev.RecordingStatus != "completed" || ev.RecordingURL == "" {
		log.Printf("recording %s status: %s, skipping", ev.RecordingSID, ev.RecordingStatus)
		return
	}
	duration, _ := strconv.Atoi(ev.RecordingLength)
	rec := &domain.Recording{
		RecordingSID:    ev.RecordingSID,
		CallSID:         ev.CallSID,
		URL:             ev.RecordingURL,
		DurationSeconds: duration,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.archive.SaveRecording(ctx, rec); err != nil {
		log.Printf("WARN: failed to save recording %s: %v", ev.RecordingSID, err)
	}
}

func (s *Service) updateActiveGauge() {
	if s.metrics != nil {
		s.metrics.ActiveCalls.Set(float64(len(s.sessions.Active())))
	}
}

func (s *Service) countOutcome(outcome domain.CallOutcome) {
	if s.metrics != nil {
		s.metrics.CallOutcomes.WithLabelValues(string(outcome)).Inc()
	}
}
