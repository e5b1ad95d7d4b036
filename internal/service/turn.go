package service

import (
	"context"
	"log"
	"time"

	"github.com/billdispute/disputecall/internal/domain"
	"github.com/billdispute/disputecall/internal/twiml"
)

// Gather timings. The initial turn waits generously for the representative's
// greeting; mid-conversation turns cut silence short to keep the exchange
// snappy; the reprompt after a missed turn waits barely at all.
const (
	initialGatherTimeout  = 10
	speechGatherTimeout   = 5
	noSpeechGatherTimeout = 2

	speechEndThreshold = "0.5"
)

// maxGreetingRetries caps the greeting self-loop. One replay, then a human
// gets the call.
const maxGreetingRetries = 1

// TurnInput carries the webhook parameters for one call turn. The URL is the
// only state guaranteed to survive between turns, so everything here comes
// from query or form parameters.
type TurnInput struct {
	CallSID   string
	DisputeID string
	// DataJSON is the URL-carried serialized dispute context, possibly empty.
	DataJSON string
	// SpeechResult is the provider's transcription of what the callee said,
	// empty on no-input turns.
	SpeechResult string
	// Confidence is the provider's transcription confidence, zero when the
	// provider omits it.
	Confidence float64
	// Retry is the greeting replay counter, initial turns only.
	Retry int
}

// InitialTurn handles the first webhook of a call: greet, listen, and arm the
// per-turn loop. It always returns a playable document; internal failures
// degrade to a spoken apology rather than a provider error page.
func (s *Service) InitialTurn(ctx context.Context, in TurnInput) *twiml.Document {
	start := time.Now()
	dc := s.resolveContext(in.DisputeID, in.DataJSON)
	session := s.sessions.GetOrCreate(in.CallSID, in.DisputeID)

	var opening string
	if in.Retry > 0 && len(session.Transcript) > 0 {
		// Greeting replay: speak the same opening again rather than
		// generating a new one mid-silence.
		opening = session.Transcript[0].Text
	} else {
		genStart := time.Now()
		var genErr error
		opening, genErr = s.generator.OpeningLine(ctx, dc)
		s.observeDialogue(genStart, "opening", genErr)
		s.sessions.AppendUtterance(in.CallSID, domain.SpeakerAgent, opening)
	}

	fallbackPhrase := phraseInitialRetry
	if in.Retry >= maxGreetingRetries {
		fallbackPhrase = phraseTransfer
	}

	if err := s.synthesizeAll(ctx, opening, fallbackPhrase); err != nil {
		log.Printf("WARN: initial turn synthesis failed for call %s: %v", in.CallSID, err)
		s.observeTurn(start, "initial", "degraded")
		// Synthesis itself is down, so the apology cannot go through the
		// audio endpoint either. The provider's voice is the last resort.
		return &twiml.Document{
			Prompts: []twiml.Step{twiml.Say{Text: phraseInitialFailed}},
			Hangup:  true,
		}
	}

	doc := &twiml.Document{
		Listen: &twiml.Listen{
			TimeoutSeconds: initialGatherTimeout,
			SpeechTimeout:  "auto",
			BargeIn:        true,
			ActionURL:      s.turnURL(in.CallSID, in.DisputeID, in.DataJSON),
		},
		Prompts:  []twiml.Step{twiml.Play{URL: s.audioURL(opening)}},
		Fallback: []twiml.Step{twiml.Play{URL: s.audioURL(fallbackPhrase)}},
	}
	if in.Retry >= maxGreetingRetries {
		doc.Hangup = true
	} else {
		doc.RedirectURL = s.initialURL(in.DisputeID, in.DataJSON, in.Retry+1)
	}

	s.observeTurn(start, "initial", "ok")
	return doc
}

// ProcessTurn handles every webhook after the first. A turn with speech runs
// the dialogue model; a turn without speech reprompts once and then hands the
// call to a human. Always returns a playable document.
func (s *Service) ProcessTurn(ctx context.Context, in TurnInput) *twiml.Document {
	if in.SpeechResult == "" {
		return s.noSpeechTurn(ctx, in)
	}
	return s.speechTurn(ctx, in)
}

func (s *Service) speechTurn(ctx context.Context, in TurnInput) *twiml.Document {
	start := time.Now()
	dc := s.resolveContext(in.DisputeID, in.DataJSON)
	s.sessions.GetOrCreate(in.CallSID, in.DisputeID)

	log.Printf("call %s heard %q (confidence %.2f)", in.CallSID, in.SpeechResult, in.Confidence)
	s.sessions.AppendUtterance(in.CallSID, domain.SpeakerHuman, in.SpeechResult)
	session, _ := s.sessions.Get(in.CallSID)

	genStart := time.Now()
	reply, err := s.generator.NextUtterance(ctx, session.TranscriptText(), dc)
	s.observeDialogue(genStart, "turn", err)
	if err != nil {
		log.Printf("WARN: dialogue generation failed for call %s: %v", in.CallSID, err)
		s.observeTurn(start, "speech", "degraded")
		return s.terminalApology(ctx)
	}
	s.sessions.AppendUtterance(in.CallSID, domain.SpeakerAgent, reply)

	if err := s.synthesizeAll(ctx, reply, phraseTurnRetry); err != nil {
		log.Printf("WARN: turn synthesis failed for call %s: %v", in.CallSID, err)
		s.observeTurn(start, "speech", "degraded")
		return s.terminalApology(ctx)
	}

	s.observeTurn(start, "speech", "ok")
	return &twiml.Document{
		Listen: &twiml.Listen{
			TimeoutSeconds: speechGatherTimeout,
			SpeechTimeout:  speechEndThreshold,
			BargeIn:        true,
			ActionURL:      s.turnURL(in.CallSID, in.DisputeID, in.DataJSON),
		},
		Prompts:  []twiml.Step{twiml.Play{URL: s.audioURL(reply)}},
		Fallback: []twiml.Step{twiml.Play{URL: s.audioURL(phraseTurnRetry)}},
		// Silence re-enters the call at the entry point, which replays the
		// recorded opening. The retry counter keeps that loop bounded.
		RedirectURL: s.initialURL(in.DisputeID, in.DataJSON, 1),
	}
}

// noSpeechTurn reprompts after silence. The dialogue model is not consulted:
// nothing new was said, so there is nothing to respond to. If the reprompt
// gather also yields nothing, the fallback transfers and hangs up, which
// bounds silence tolerance at exactly one retry.
func (s *Service) noSpeechTurn(ctx context.Context, in TurnInput) *twiml.Document {
	start := time.Now()
	s.sessions.GetOrCreate(in.CallSID, in.DisputeID)

	if err := s.synthesizeAll(ctx, phraseReprompt, phraseTransfer); err != nil {
		log.Printf("WARN: reprompt synthesis failed for call %s: %v", in.CallSID, err)
		s.observeTurn(start, "no_speech", "degraded")
		return s.terminalApology(ctx)
	}

	s.observeTurn(start, "no_speech", "ok")
	return &twiml.Document{
		Listen: &twiml.Listen{
			TimeoutSeconds: noSpeechGatherTimeout,
			SpeechTimeout:  "auto",
			BargeIn:        true,
			ActionURL:      s.turnURL(in.CallSID, in.DisputeID, in.DataJSON),
		},
		Prompts:  []twiml.Step{twiml.Play{URL: s.audioURL(phraseReprompt)}},
		Fallback: []twiml.Step{twiml.Play{URL: s.audioURL(phraseTransfer)}},
		Hangup:   true,
	}
}

// terminalApology ends the call with the technical-difficulties phrase,
// preferring synthesized audio but falling back to the provider voice when
// synthesis is the failing component.
func (s *Service) terminalApology(ctx context.Context) *twiml.Document {
	if _, err := s.gateway.Synthesize(ctx, phraseTechnical, s.cfg.DefaultVoiceID); err == nil {
		return &twiml.Document{
			Prompts: []twiml.Step{twiml.Play{URL: s.audioURL(phraseTechnical)}},
			Hangup:  true,
		}
	}
	return &twiml.Document{
		Prompts: []twiml.Step{twiml.Say{Text: phraseTechnical}},
		Hangup:  true,
	}
}
