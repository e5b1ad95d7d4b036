// Package store holds the in-process state for disputes and live calls.
// Everything here is a single-instance simplification: the interfaces are the
// seam for swapping in a shared external store for multi-instance deployment.
package store

import (
	"sync"

	"github.com/billdispute/disputecall/internal/domain"
)

// ContextStore maps dispute identifiers to their bill facts.
type ContextStore interface {
	// Set upserts the context, replacing any prior fields under that key.
	Set(dc domain.DisputeContext)
	// Get looks up a context by dispute ID.
	Get(disputeID string) (domain.DisputeContext, bool)
}

// MemoryContextStore is a mutex-guarded map implementation of ContextStore.
type MemoryContextStore struct {
	mu       sync.RWMutex
	contexts map[string]domain.DisputeContext
}

// NewMemoryContextStore creates an empty context store.
func NewMemoryContextStore() *MemoryContextStore {
	return &MemoryContextStore{contexts: make(map[string]domain.DisputeContext)}
}

var _ ContextStore = (*MemoryContextStore)(nil)

// Set upserts the context under its dispute ID.
func (s *MemoryContextStore) Set(dc domain.DisputeContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[dc.DisputeID] = dc
}

// Get returns a copy of the stored context.
func (s *MemoryContextStore) Get(disputeID string) (domain.DisputeContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dc, ok := s.contexts[disputeID]
	return dc, ok
}
