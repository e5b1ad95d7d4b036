// Package service implements the dispute-call business logic: dispute
// creation, the webhook turn orchestration, and call lifecycle handling.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/billdispute/disputecall/internal/adapter/telephony"
	"github.com/billdispute/disputecall/internal/audio"
	"github.com/billdispute/disputecall/internal/config"
	"github.com/billdispute/disputecall/internal/dialogue"
	"github.com/billdispute/disputecall/internal/domain"
	"github.com/billdispute/disputecall/internal/extract"
	"github.com/billdispute/disputecall/internal/observability"
	"github.com/billdispute/disputecall/internal/policy"
	"github.com/billdispute/disputecall/internal/repository"
	"github.com/billdispute/disputecall/internal/store"
)

// Phrases spoken on fixed paths. These are part of the call experience and
// the synthesis cache keys off their exact text, so they are constants.
const (
	phraseInitialRetry  = "I didn't receive a response. Let me try again."
	phraseTurnRetry     = "I didn't hear anything."
	phraseReprompt      = "I didn't hear anything. Could you please repeat that?"
	phraseTransfer      = "I'm having trouble hearing you. Let me transfer you to a human representative."
	phraseTechnical     = "I'm sorry, I'm having technical difficulties. Let me transfer you to a human representative."
	phraseInitialFailed = "I'm sorry, there was an error processing your call. Please try again later."
)

// Service wires the stores, adapters and policy into the dispute-call
// operations the transport layer exposes.
type Service struct {
	cfg       *config.Config
	contexts  store.ContextStore
	sessions  store.SessionRegistry
	generator *dialogue.Generator
	gateway   *audio.Gateway
	extractor extract.Extractor
	dialer    telephony.Dialer
	dialGate  *policy.Engine
	archive   repository.Archive
	metrics   *observability.Metrics
}

// New creates the service.
func New(
	cfg *config.Config,
	contexts store.ContextStore,
	sessions store.SessionRegistry,
	generator *dialogue.Generator,
	gateway *audio.Gateway,
	extractor extract.Extractor,
	dialer telephony.Dialer,
	dialGate *policy.Engine,
	archive repository.Archive,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		cfg:       cfg,
		contexts:  contexts,
		sessions:  sessions,
		generator: generator,
		gateway:   gateway,
		extractor: extractor,
		dialer:    dialer,
		dialGate:  dialGate,
		archive:   archive,
		metrics:   metrics,
	}
}

// SynthesizeAudio serves the /audio endpoint: cached synthesis of one phrase.
func (s *Service) SynthesizeAudio(ctx context.Context, text, voiceID string) ([]byte, error) {
	return s.gateway.Synthesize(ctx, text, voiceID)
}

// ActiveCalls returns snapshots of all live call sessions.
func (s *Service) ActiveCalls() []domain.CallSession {
	return s.sessions.Active()
}

// ArchivedCalls returns the archived call records for a dispute, newest first.
func (s *Service) ArchivedCalls(ctx context.Context, disputeID string) ([]domain.CallRecord, error) {
	return s.archive.ListCallRecords(ctx, disputeID)
}

// resolveContext recovers the dispute context for a webhook turn. The URL's
// data parameter is authoritative when present (it survives process
// restarts); the in-memory store is next; a generic context is the floor.
// The resolved context is written back to the store so later turns that
// arrive without data still find it.
func (s *Service) resolveContext(disputeID, dataJSON string) domain.DisputeContext {
	if dataJSON != "" {
		var dc domain.DisputeContext
		if err := json.Unmarshal([]byte(dataJSON), &dc); err == nil {
			if dc.DisputeID == "" {
				dc.DisputeID = disputeID
			}
			s.contexts.Set(dc)
			return dc
		}
		log.Printf("WARN: could not parse context data for dispute %s", disputeID)
	}
	if dc, ok := s.contexts.Get(disputeID); ok {
		return dc
	}
	dc := domain.GenericContext(disputeID)
	s.contexts.Set(dc)
	return dc
}

// audioURL builds the playback URL for one phrase. The URL embeds the text
// itself, so the audio endpoint can serve it even if the cache entry expired.
func (s *Service) audioURL(text string) string {
	return s.cfg.PublicBaseURL + "/audio?text=" + url.QueryEscape(text) + "&voiceId=" + url.QueryEscape(s.cfg.DefaultVoiceID)
}

// turnURL builds the per-turn webhook URL carrying the call state.
func (s *Service) turnURL(callSID, disputeID, dataJSON string) string {
	u := s.cfg.PublicBaseURL + "/twiml/process-speech?callSid=" + url.QueryEscape(callSID) +
		"&disputeId=" + url.QueryEscape(disputeID)
	if dataJSON != "" {
		u += "&data=" + url.QueryEscape(dataJSON)
	}
	return u
}

// initialURL builds the initial-turn webhook URL, with the greeting retry
// counter when non-zero.
func (s *Service) initialURL(disputeID, dataJSON string, retry int) string {
	u := s.cfg.PublicBaseURL + "/twiml/dispute-call?disputeId=" + url.QueryEscape(disputeID)
	if dataJSON != "" {
		u += "&data=" + url.QueryEscape(dataJSON)
	}
	if retry > 0 {
		u += fmt.Sprintf("&retry=%d", retry)
	}
	return u
}

// synthesizeAll warms the cache for every phrase concurrently and returns the
// first error. The rendered document references phrases by /audio URL, so a
// warm cache is what makes playback fetches cheap.
func (s *Service) synthesizeAll(ctx context.Context, texts ...string) error {
	errs := make([]error, len(texts))
	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			_, errs[i] = s.gateway.Synthesize(ctx, text, s.cfg.DefaultVoiceID)
		}(i, text)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) observeTurn(start time.Time, turn, status string) {
	if s.metrics != nil {
		s.metrics.TurnDuration.WithLabelValues(turn, status).Observe(time.Since(start).Seconds())
	}
}

func (s *Service) observeDialogue(start time.Time, operation string, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.DialogueDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}
