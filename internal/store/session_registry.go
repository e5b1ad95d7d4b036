package store

import (
	"sync"
	"time"

	"github.com/billdispute/disputecall/internal/domain"
)

// SessionRegistry owns the live state of active calls, keyed by provider
// call SID. Turns for one call arrive serially, so per-call mutation is
// race-free; the registry lock only protects the map itself.
type SessionRegistry interface {
	// Create registers a new active session.
	Create(callSID, disputeID, phoneNumber string) domain.CallSession
	// Get returns a snapshot of the session.
	Get(callSID string) (domain.CallSession, bool)
	// GetOrCreate returns the session, creating a minimal one when the call
	// was never registered (process restart, race with call placement). It
	// is total: it never fails.
	GetOrCreate(callSID, disputeID string) domain.CallSession
	// AppendUtterance appends one line to the session transcript.
	AppendUtterance(callSID string, speaker domain.Speaker, text string)
	// Close marks the session inactive, removes it, and returns the final
	// snapshot for outcome finalization.
	Close(callSID string) (domain.CallSession, bool)
	// Active returns snapshots of all live sessions.
	Active() []domain.CallSession
}

// MemorySessionRegistry is a mutex-guarded map implementation of
// SessionRegistry.
type MemorySessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*domain.CallSession

	now func() time.Time
}

// NewMemorySessionRegistry creates an empty registry.
func NewMemorySessionRegistry() *MemorySessionRegistry {
	return &MemorySessionRegistry{
		sessions: make(map[string]*domain.CallSession),
		now:      time.Now,
	}
}

var _ SessionRegistry = (*MemorySessionRegistry)(nil)

// Create registers a new active session, replacing any stale one under the
// same SID.
func (r *MemorySessionRegistry) Create(callSID, disputeID, phoneNumber string) domain.CallSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &domain.CallSession{
		CallSID:     callSID,
		DisputeID:   disputeID,
		PhoneNumber: phoneNumber,
		IsActive:    true,
		StartTime:   r.now(),
	}
	r.sessions[callSID] = s
	return snapshot(s)
}

// Get returns a snapshot of the session.
func (r *MemorySessionRegistry) Get(callSID string) (domain.CallSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[callSID]
	if !ok {
		return domain.CallSession{}, false
	}
	return snapshot(s), true
}

// GetOrCreate returns the session, self-healing by creating a minimal one
// when absent.
func (r *MemorySessionRegistry) GetOrCreate(callSID, disputeID string) domain.CallSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[callSID]; ok {
		return snapshot(s)
	}
	s := &domain.CallSession{
		CallSID:     callSID,
		DisputeID:   disputeID,
		PhoneNumber: "unknown",
		IsActive:    true,
		StartTime:   r.now(),
	}
	r.sessions[callSID] = s
	return snapshot(s)
}

// AppendUtterance appends one transcript line. Appending to an unknown call
// is a no-op; turn handling always calls GetOrCreate first.
func (r *MemorySessionRegistry) AppendUtterance(callSID string, speaker domain.Speaker, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[callSID]
	if !ok {
		return
	}
	s.Transcript = append(s.Transcript, domain.Utterance{
		Speaker: speaker,
		Text:    text,
		At:      r.now(),
	})
}

// Close marks the session inactive and removes it.
func (r *MemorySessionRegistry) Close(callSID string) (domain.CallSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[callSID]
	if !ok {
		return domain.CallSession{}, false
	}
	s.IsActive = false
	delete(r.sessions, callSID)
	return snapshot(s), true
}

// Active returns snapshots of all live sessions.
func (r *MemorySessionRegistry) Active() []domain.CallSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CallSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, snapshot(s))
	}
	return out
}

func snapshot(s *domain.CallSession) domain.CallSession {
	c := *s
	c.Transcript = append([]domain.Utterance(nil), s.Transcript...)
	return c
}
