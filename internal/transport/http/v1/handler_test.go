package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/billdispute/disputecall/internal/adapter/llm"
	"github.com/billdispute/disputecall/internal/adapter/telephony"
	"github.com/billdispute/disputecall/internal/adapter/tts"
	"github.com/billdispute/disputecall/internal/audio"
	"github.com/billdispute/disputecall/internal/config"
	"github.com/billdispute/disputecall/internal/dialogue"
	"github.com/billdispute/disputecall/internal/extract"
	"github.com/billdispute/disputecall/internal/policy"
	"github.com/billdispute/disputecall/internal/repository"
	"github.com/billdispute/disputecall/internal/service"
	"github.com/billdispute/disputecall/internal/store"
)

// testMocks exposes the collaborators behind a test handler.
type testMocks struct {
	llm       *llm.MockClient
	tts       *tts.MockSynthesizer
	extractor *extract.MockExtractor
	dialer    *telephony.MockDialer
	sessions  *store.MemorySessionRegistry
}

func newTestHandler(t *testing.T) (*Handler, *testMocks) {
	t.Helper()

	cfg := &config.Config{
		PublicBaseURL:    "http://test.local",
		TwilioFromNumber: "+15005550006",
		DefaultVoiceID:   "voice-1",
		DialogueModel:    "test-model",
		MaxDisputeAmount: 5000,
	}

	archive, err := repository.NewSQLiteArchive(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })

	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	m := &testMocks{
		llm:       llm.NewMockClient(),
		tts:       tts.NewMockSynthesizer(),
		extractor: &extract.MockExtractor{},
		dialer:    telephony.NewMockDialer(),
		sessions:  store.NewMemorySessionRegistry(),
	}
	svc := service.New(
		cfg,
		store.NewMemoryContextStore(),
		m.sessions,
		dialogue.New(m.llm, cfg.DialogueModel),
		audio.NewGateway(m.tts, cfg.DefaultVoiceID, time.Minute, nil),
		m.extractor,
		m.dialer,
		policyEngine,
		archive,
		nil,
	)
	return NewHandler(svc), m
}

func TestHealth(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
