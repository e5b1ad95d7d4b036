// Package twiml renders Twilio control-flow documents. Rendering is pure:
// the output is the literal wire contract with the telephony provider, so
// structure and escaping are deliberate, not incidental.
package twiml

import (
	"fmt"
	"strings"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>`

// Step is one playable instruction inside or after a Gather.
type Step interface {
	render(b *strings.Builder, indent string)
}

// Play fetches and plays audio by URL.
type Play struct {
	URL string
}

func (p Play) render(b *strings.Builder, indent string) {
	fmt.Fprintf(b, "%s<Play>%s</Play>\n", indent, Escape(p.URL))
}

// Say speaks text with the provider's built-in voice. Used only on paths
// where synthesis itself may be the failing component.
type Say struct {
	Voice string
	Text  string
}

func (s Say) render(b *strings.Builder, indent string) {
	voice := s.Voice
	if voice == "" {
		voice = "alice"
	}
	fmt.Fprintf(b, "%s<Say voice=%q>%s</Say>\n", indent, voice, Escape(s.Text))
}

// Listen describes the speech-gathering directive armed after the prompts.
type Listen struct {
	// TimeoutSeconds is how long the provider waits for speech to start.
	TimeoutSeconds int
	// SpeechTimeout is the end-of-speech silence threshold: "auto" or a
	// second count like "0.5".
	SpeechTimeout string
	// BargeIn lets the callee interrupt playback by speaking.
	BargeIn bool
	// ActionURL receives the next webhook turn with the transcription.
	ActionURL string
}

// Document is one complete control document: prompts played while listening,
// then fallback steps if listening yields nothing, ending in a redirect or a
// hangup.
type Document struct {
	// Listen, when set, wraps Prompts in a Gather. When nil the document is
	// terminal: Prompts play unconditionally and the call ends.
	Listen *Listen
	// Prompts are played while (or before) listening.
	Prompts []Step
	// Fallback steps play only when listening yields no input.
	Fallback []Step
	// RedirectURL, when non-empty, re-enters the conversation at another
	// webhook after the fallback steps. Mutually exclusive with Hangup.
	RedirectURL string
	// Hangup terminates the call after the fallback steps.
	Hangup bool
}

// Render produces the document text.
func (d Document) Render() string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n<Response>\n")

	if d.Listen != nil {
		speechTimeout := d.Listen.SpeechTimeout
		if speechTimeout == "" {
			speechTimeout = "auto"
		}
		b.WriteString(`  <Gather input="speech"`)
		fmt.Fprintf(&b, " timeout=%q speechTimeout=%q", fmt.Sprint(d.Listen.TimeoutSeconds), speechTimeout)
		if d.Listen.BargeIn {
			b.WriteString(` bargein="true"`)
		}
		fmt.Fprintf(&b, " action=%q method=\"POST\">\n", Escape(d.Listen.ActionURL))
		for _, s := range d.Prompts {
			s.render(&b, "    ")
		}
		b.WriteString("  </Gather>\n")
	} else {
		for _, s := range d.Prompts {
			s.render(&b, "  ")
		}
	}

	for _, s := range d.Fallback {
		s.render(&b, "  ")
	}

	switch {
	case d.RedirectURL != "":
		fmt.Fprintf(&b, "  <Redirect>%s</Redirect>\n", Escape(d.RedirectURL))
	case d.Hangup:
		b.WriteString("  <Hangup/>\n")
	}

	b.WriteString("</Response>")
	return b.String()
}

// Escape escapes XML-reserved characters. URLs embedded in documents carry
// query strings, so unescaped "&" would produce an unparseable document.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
