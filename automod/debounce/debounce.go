package debounce

import (
	"sync"
	"time"
)

type key struct {
	guildID int64
	userID  int64
}

// Registry suppresses duplicate escalations for the same (guild, user) within
// a short TTL. Entries expire lazily on the next check for the same key; the
// background janitor sweeps the rest. While an entry is live, no second
// escalation may be issued for its key.
type Registry struct {
	mu      sync.Mutex
	entries map[key]time.Time // key -> expiry
	ttl     time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		entries: make(map[key]time.Time),
		ttl:     ttl,
	}
}

// TryAcquire reports whether the caller may escalate for the key. When it
// returns true the key is marked for the TTL; when false, a live entry exists
// and the caller must not escalate.
func (r *Registry) TryAcquire(guildID, userID int64, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{guildID: guildID, userID: userID}
	if expiry, ok := r.entries[k]; ok {
		if now.Before(expiry) {
			return false
		}
		delete(r.entries, k)
	}

	r.entries[k] = now.Add(r.ttl)
	return true
}

// Release removes the entry for the key immediately, regardless of expiry.
// Used on shutdown so no debounce state dangles across a clean reload.
func (r *Registry) Release(guildID, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key{guildID: guildID, userID: userID})
}

// ReleaseAll clears every entry. Shutdown path only.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[key]time.Time)
}

// Sweep removes all expired entries and returns how many were dropped
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for k, expiry := range r.entries {
		if !now.Before(expiry) {
			delete(r.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, expired or not
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
