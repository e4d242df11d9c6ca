package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Registry maps each player to their single live session. Writes happen on
// the main thread; Snapshot, Get and Len are safe from any goroutine.
type Registry struct {
	mu   sync.Mutex
	snap atomic.Value // map[uuid.UUID]*Session, replaced on every write
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.snap.Store(map[uuid.UUID]*Session{})
	return r
}

// Snapshot returns the current player to session map. It must not be modified.
func (r *Registry) Snapshot() map[uuid.UUID]*Session {
	if m, ok := r.snap.Load().(map[uuid.UUID]*Session); ok {
		return m
	}
	return nil
}

// Get returns the live session of player.
func (r *Registry) Get(player uuid.UUID) *Session {
	return r.Snapshot()[player]
}

// Len returns the number of live sessions.
func (r *Registry) Len() int { return len(r.Snapshot()) }

// Put registers s for player. A session it replaces is closed with
// ReasonReplaced before Put returns.
func (r *Registry) Put(player uuid.UUID, s *Session) (evicted *Session) {
	r.mu.Lock()
	cur := r.Snapshot()
	evicted = cur[player]
	next := make(map[uuid.UUID]*Session, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	next[player] = s
	r.snap.Store(next)
	r.mu.Unlock()

	if evicted != nil && evicted != s {
		evicted.CloseWith(ReasonReplaced)
	}
	return evicted
}

// Remove deletes the entry for player only if it still points at s.
func (r *Registry) Remove(player uuid.UUID, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.Snapshot()
	if cur[player] != s {
		return false
	}
	next := make(map[uuid.UUID]*Session, len(cur))
	for k, v := range cur {
		if k != player {
			next[k] = v
		}
	}
	r.snap.Store(next)
	return true
}

// CloseAll closes every live session.
func (r *Registry) CloseAll(reason Reason) {
	for _, s := range r.Snapshot() {
		s.CloseWith(reason)
	}
}
