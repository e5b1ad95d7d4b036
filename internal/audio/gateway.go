// Package audio provides the speech-synthesis gateway and its result cache.
package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/billdispute/disputecall/internal/adapter/tts"
	"github.com/billdispute/disputecall/internal/observability"
)

// DefaultTTL is how long a synthesized phrase may be reused. System-authored
// phrases (retry prompts, greetings) recur constantly; the cache exists to
// bound the cost and latency of re-synthesizing them.
const DefaultTTL = 5 * time.Minute

// SynthesisError wraps a failed or rejected synthesis call.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("audio synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

type cacheEntry struct {
	audio   []byte
	created time.Time
}

// Gateway wraps the synthesizer with a TTL cache keyed by (text, voice).
// Safe for concurrent use.
type Gateway struct {
	synth        tts.Synthesizer
	defaultVoice string
	ttl          time.Duration
	metrics      *observability.Metrics

	now func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewGateway creates a synthesis gateway. A zero ttl means DefaultTTL.
func NewGateway(synth tts.Synthesizer, defaultVoice string, ttl time.Duration, metrics *observability.Metrics) *Gateway {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Gateway{
		synth:        synth,
		defaultVoice: defaultVoice,
		ttl:          ttl,
		metrics:      metrics,
		now:          time.Now,
		cache:        make(map[string]cacheEntry),
	}
}

// Synthesize returns audio bytes for the given text and voice, serving from
// cache when a fresh entry exists. Fails with *SynthesisError.
func (g *Gateway) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &SynthesisError{Err: errors.New("text is empty")}
	}
	if voiceID == "" {
		voiceID = g.defaultVoice
	}

	key := text + "-" + voiceID
	if audio, ok := g.lookup(key); ok {
		g.countCache("hit")
		return audio, nil
	}
	g.countCache("miss")

	start := g.now()
	audio, err := g.synth.Synthesize(ctx, text, voiceID)
	if err != nil {
		g.observeSynthesis(start, "error")
		return nil, &SynthesisError{Err: err}
	}
	g.observeSynthesis(start, "success")

	g.store(key, audio)
	return audio, nil
}

func (g *Gateway) lookup(key string) ([]byte, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	entry, ok := g.cache[key]
	if !ok || g.now().Sub(entry.created) >= g.ttl {
		return nil, false
	}
	return entry.audio, true
}

// store inserts the entry and sweeps stale ones. Sweeping happens
// opportunistically after writes rather than on a timer.
func (g *Gateway) store(key string, audio []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	g.cache[key] = cacheEntry{audio: audio, created: now}
	for k, entry := range g.cache {
		if now.Sub(entry.created) >= g.ttl {
			delete(g.cache, k)
		}
	}
}

func (g *Gateway) countCache(result string) {
	if g.metrics != nil {
		g.metrics.AudioCache.WithLabelValues(result).Inc()
	}
}

func (g *Gateway) observeSynthesis(start time.Time, status string) {
	if g.metrics != nil {
		g.metrics.SynthesisDuration.WithLabelValues(status).Observe(g.now().Sub(start).Seconds())
	}
}
