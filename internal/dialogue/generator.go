package dialogue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/billdispute/disputecall/internal/adapter/llm"
	"github.com/billdispute/disputecall/internal/domain"
)

// FallbackOpeningLine is spoken when opening-line generation fails. The first
// thing said on a call must never be empty.
const FallbackOpeningLine = "Hello, I'm calling about an incorrect charge on my recent bill that I'd like to dispute."

const (
	turnMaxTokens    = 80
	openingMaxTokens = 100
	outcomeMaxTokens = 300

	turnTemperature    = 0.7
	openingTemperature = 0.8
	outcomeTemperature = 0.3
)

// GenerationError wraps a failed model call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("dialogue generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator produces the automated caller's next lines.
type Generator struct {
	client llm.Client
	model  string
}

// New creates a Generator backed by the given model client.
func New(client llm.Client, model string) *Generator {
	return &Generator{client: client, model: model}
}

// OpeningLine generates the call's first utterance. It always returns a
// speakable line: on any generation error it returns the fixed fallback
// sentence alongside a *GenerationError so callers can observe the
// degradation.
func (g *Generator) OpeningLine(ctx context.Context, dc domain.DisputeContext) (string, error) {
	text, err := g.client.Complete(ctx, &llm.CompletionRequest{
		Model:       g.model,
		System:      OpeningSystemPrompt(dc),
		Prompt:      "Generate the initial greeting for this dispute call.",
		MaxTokens:   openingMaxTokens,
		Temperature: openingTemperature,
	})
	if err != nil {
		log.Printf("WARN: opening line generation failed, using fallback: %v", err)
		return FallbackOpeningLine, &GenerationError{Err: err}
	}
	return text, nil
}

// NextUtterance generates the caller's next line given the conversation so
// far. Fails with *GenerationError when the model is unreachable or returns
// an unexpected shape.
func (g *Generator) NextUtterance(ctx context.Context, conversation string, dc domain.DisputeContext) (string, error) {
	text, err := g.client.Complete(ctx, &llm.CompletionRequest{
		Model:       g.model,
		System:      TurnSystemPrompt(dc, conversation),
		Prompt:      "Generate the next response in this bill dispute conversation.",
		MaxTokens:   turnMaxTokens,
		Temperature: turnTemperature,
	})
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	return text, nil
}

// ClassifyOutcome analyzes a full transcript and classifies the call. It is
// not latency critical and never fails the caller: a model error yields a
// failed classification, an unparseable response yields a pending one.
func (g *Generator) ClassifyOutcome(ctx context.Context, transcript string) domain.OutcomeAnalysis {
	raw, err := g.client.Complete(ctx, &llm.CompletionRequest{
		Model:       g.model,
		System:      OutcomeSystemPrompt(transcript),
		Prompt:      "Analyze this call transcript and determine the outcome.",
		MaxTokens:   outcomeMaxTokens,
		Temperature: outcomeTemperature,
	})
	if err != nil {
		log.Printf("WARN: outcome analysis failed: %v", err)
		return domain.OutcomeAnalysis{
			Outcome: domain.OutcomeFailed,
			Summary: "Error analyzing call outcome",
		}
	}

	return ParseOutcomeOrDefault(raw, domain.OutcomeAnalysis{
		Outcome: domain.OutcomePending,
		Summary: "Call completed but outcome unclear",
	})
}

// ParseOutcomeOrDefault parses a model classification response, returning the
// supplied default on any parse failure or unrecognized outcome value. The
// fallback policy lives here, visibly, rather than in a catch block.
func ParseOutcomeOrDefault(raw string, def domain.OutcomeAnalysis) domain.OutcomeAnalysis {
	var analysis domain.OutcomeAnalysis
	if err := json.Unmarshal([]byte(stripFences(raw)), &analysis); err != nil {
		log.Printf("WARN: failed to parse outcome response: %v", err)
		return def
	}
	switch analysis.Outcome {
	case domain.OutcomeResolved, domain.OutcomeEscalated, domain.OutcomePending, domain.OutcomeFailed:
	default:
		return def
	}
	if analysis.Summary == "" {
		analysis.Summary = def.Summary
	}
	return analysis
}

// stripFences removes a markdown code fence the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
