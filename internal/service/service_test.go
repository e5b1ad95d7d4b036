package service

import (
	"context"
	"testing"
	"time"

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
	"github.com/billdispute/disputecall/internal/store"
)

// testEnv bundles a Service with the mocks behind it so tests can inspect
// what each collaborator saw.
type testEnv struct {
	svc       *Service
	llm       *llm.MockClient
	tts       *tts.MockSynthesizer
	extractor *extract.MockExtractor
	dialer    *telephony.MockDialer
	contexts  *store.MemoryContextStore
	sessions  *store.MemorySessionRegistry
	archive   *repository.SQLiteArchive
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		PublicBaseURL:    "http://test.local",
		TwilioFromNumber: "+15005550006",
		DefaultVoiceID:   "voice-1",
		DialogueModel:    "test-model",
		MaxDisputeAmount: 5000,
		RecordCalls:      true,
	}

	archive, err := repository.NewSQLiteArchive(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })

	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	env := &testEnv{
		llm:       llm.NewMockClient(),
		tts:       tts.NewMockSynthesizer(),
		extractor: &extract.MockExtractor{},
		dialer:    telephony.NewMockDialer(),
		contexts:  store.NewMemoryContextStore(),
		sessions:  store.NewMemorySessionRegistry(),
		archive:   archive,
	}
	env.svc = New(
		cfg,
		env.contexts,
		env.sessions,
		dialogue.New(env.llm, cfg.DialogueModel),
		audio.NewGateway(env.tts, cfg.DefaultVoiceID, time.Minute, nil),
		env.extractor,
		env.dialer,
		policyEngine,
		archive,
		nil,
	)
	return env
}
