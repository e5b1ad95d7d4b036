package twiml

import (
	"encoding/xml"
	"strings"
	"testing"
)

// parsedResponse is the minimal XML shape used to verify rendered documents
// survive a round trip through a real XML parser.
type parsedResponse struct {
	XMLName xml.Name `xml:"Response"`
	Gather  *struct {
		Input         string   `xml:"input,attr"`
		Timeout       string   `xml:"timeout,attr"`
		SpeechTimeout string   `xml:"speechTimeout,attr"`
		Action        string   `xml:"action,attr"`
		Method        string   `xml:"method,attr"`
		Play          []string `xml:"Play"`
	} `xml:"Gather"`
	Play     []string  `xml:"Play"`
	Say      []string  `xml:"Say"`
	Redirect string    `xml:"Redirect"`
	Hangup   *struct{} `xml:"Hangup"`
}

func parse(t *testing.T, doc string) parsedResponse {
	t.Helper()
	var r parsedResponse
	if err := xml.Unmarshal([]byte(doc), &r); err != nil {
		t.Fatalf("rendered document is not valid XML: %v\n%s", err, doc)
	}
	return r
}

func TestRenderGatherDocument(t *testing.T) {
	doc := Document{
		Listen: &Listen{
			TimeoutSeconds: 10,
			SpeechTimeout:  "auto",
			BargeIn:        true,
			ActionURL:      "https://example.com/turn?callSid=CA1&disputeId=d1",
		},
		Prompts:     []Step{Play{URL: "https://example.com/audio?text=hello&voiceId=v1"}},
		Fallback:    []Step{Play{URL: "https://example.com/audio?text=retry"}},
		RedirectURL: "https://example.com/start?disputeId=d1&retry=1",
	}

	out := doc.Render()
	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("missing XML declaration: %s", out)
	}
	if !strings.Contains(out, `bargein="true"`) {
		t.Fatalf("missing bargein attribute: %s", out)
	}

	r := parse(t, out)
	if r.Gather == nil {
		t.Fatal("expected a Gather element")
	}
	if r.Gather.Input != "speech" || r.Gather.Timeout != "10" || r.Gather.SpeechTimeout != "auto" {
		t.Fatalf("unexpected gather attributes: %+v", r.Gather)
	}
	if r.Gather.Method != "POST" {
		t.Fatalf("expected POST method, got %q", r.Gather.Method)
	}
	// The parser decodes entities, so the parsed URL carries a literal "&".
	if r.Gather.Action != "https://example.com/turn?callSid=CA1&disputeId=d1" {
		t.Fatalf("unexpected action URL: %q", r.Gather.Action)
	}
	if len(r.Gather.Play) != 1 || r.Gather.Play[0] != "https://example.com/audio?text=hello&voiceId=v1" {
		t.Fatalf("unexpected gather prompts: %v", r.Gather.Play)
	}
	if len(r.Play) != 1 {
		t.Fatalf("expected one fallback play, got %v", r.Play)
	}
	if r.Redirect != "https://example.com/start?disputeId=d1&retry=1" {
		t.Fatalf("unexpected redirect: %q", r.Redirect)
	}
	if r.Hangup != nil {
		t.Fatal("redirect documents must not hang up")
	}
}

func TestRenderTerminalDocument(t *testing.T) {
	doc := Document{
		Prompts: []Step{Play{URL: "https://example.com/audio?text=bye"}},
		Hangup:  true,
	}

	r := parse(t, doc.Render())
	if r.Gather != nil {
		t.Fatal("terminal documents must not gather")
	}
	if len(r.Play) != 1 {
		t.Fatalf("expected one play, got %v", r.Play)
	}
	if r.Hangup == nil {
		t.Fatal("expected a Hangup element")
	}
	if r.Redirect != "" {
		t.Fatalf("unexpected redirect: %q", r.Redirect)
	}
}

func TestRenderSayFallback(t *testing.T) {
	doc := Document{
		Prompts: []Step{Say{Text: "Sorry, something went wrong & we must stop."}},
		Hangup:  true,
	}

	out := doc.Render()
	if !strings.Contains(out, `<Say voice="alice">`) {
		t.Fatalf("expected default voice: %s", out)
	}

	r := parse(t, out)
	if len(r.Say) != 1 || r.Say[0] != "Sorry, something went wrong & we must stop." {
		t.Fatalf("unexpected say content: %v", r.Say)
	}
}

func TestEscape(t *testing.T) {
	in := `a&b<c>d"e`
	want := "a&amp;b&lt;c&gt;d&quot;e"
	if got := Escape(in); got != want {
		t.Fatalf("Escape(%q) = %q, want %q", in, got, want)
	}
}

func TestRenderEscapesAmpersandsInURLs(t *testing.T) {
	doc := Document{
		Listen:  &Listen{TimeoutSeconds: 5, ActionURL: "https://example.com/a?x=1&y=2"},
		Prompts: []Step{Play{URL: "https://example.com/audio?text=hi&voiceId=v"}},
	}
	out := doc.Render()
	if strings.Contains(out, "y=2\"") && !strings.Contains(out, "x=1&amp;y=2") {
		t.Fatalf("raw ampersand leaked into document: %s", out)
	}
	if strings.Contains(out, "text=hi&voiceId") {
		t.Fatalf("raw ampersand leaked into Play URL: %s", out)
	}
}
