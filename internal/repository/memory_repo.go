package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"codespark/internal/progress"
)

// MemoryProgressRepository keeps progress in process memory. State lives as
// long as the process, or until a session sits idle past the eviction limit.
type MemoryProgressRepository struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	state      *progress.State
	lastAccess time.Time
}

// NewMemoryProgressRepository creates an empty in-memory repository
func NewMemoryProgressRepository() *MemoryProgressRepository {
	return &MemoryProgressRepository{
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
	}
}

// Load returns a copy of the session's state, or nil if the session is unknown
func (r *MemoryProgressRepository) Load(ctx context.Context, sessionID string) (*progress.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	entry.lastAccess = r.now()
	return entry.state.Clone(), nil
}

// Save stores a copy of the state
func (r *MemoryProgressRepository) Save(ctx context.Context, sessionID string, state *progress.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = &memoryEntry{state: state.Clone(), lastAccess: r.now()}
	return nil
}

// Delete removes a session's state
func (r *MemoryProgressRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// Len returns the number of stored sessions
func (r *MemoryProgressRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle removes sessions not touched within idle and returns how many were removed
func (r *MemoryProgressRepository) EvictIdle(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	evicted := 0
	for id, entry := range r.sessions {
		if now.Sub(entry.lastAccess) > idle {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartEviction evicts idle sessions every interval until ctx is cancelled
func (r *MemoryProgressRepository) StartEviction(ctx context.Context, interval, idle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.EvictIdle(idle); n > 0 {
					log.Printf("Evicted %d idle sessions", n)
				}
			}
		}
	}()
}
