package spamdetector

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// fingerprint is the first 8 bytes of the SHA-256 of the message content,
// enough to detect byte-identical repeats across the tracking window.
type fingerprint uint64

type trackedMessage struct {
	fp fingerprint
	at time.Time
}

// window is one user's bounded FIFO of recent messages
type window struct {
	messages []trackedMessage
}

// Detector decides, from a user's recent message history, whether the user is
// spamming. Tracked users are capped with an LRU so total memory stays bounded
// at maxTrackedUsers * trackCount entries; the least-recently-active user is
// evicted when the cap is reached.
type Detector struct {
	mu         sync.Mutex
	users      *lru.Cache[int64, *window]
	trackCount int
	spamWindow time.Duration
	maxAge     time.Duration
}

func NewDetector(trackCount int, spamWindow time.Duration, maxTrackedUsers int, maxAge time.Duration) (*Detector, error) {
	users, err := lru.New[int64, *window](maxTrackedUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracked users cache: %w", err)
	}

	return &Detector{
		users:      users,
		trackCount: trackCount,
		spamWindow: spamWindow,
		maxAge:     maxAge,
	}, nil
}

// Fingerprint computes the comparable content representation used for
// repetition detection
func Fingerprint(content string) fingerprint {
	sum := sha256.Sum256([]byte(content))
	return fingerprint(binary.BigEndian.Uint64(sum[:8]))
}

// RecordAndCheck appends the message to the user's window and reports whether
// the window now constitutes spam. A full window counts as spam when all
// messages arrived inside the spam window (burst rule, strict <) or when every
// fingerprint in it is identical (repetition rule).
func (d *Detector) RecordAndCheck(userID int64, content string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.users.Get(userID)
	if !ok {
		w = &window{messages: make([]trackedMessage, 0, d.trackCount)}
		d.users.Add(userID, w)
	}

	w.messages = append(w.messages, trackedMessage{fp: Fingerprint(content), at: now})
	if len(w.messages) > d.trackCount {
		w.messages = w.messages[1:]
	}

	return d.isSpamming(w)
}

func (d *Detector) isSpamming(w *window) bool {
	if len(w.messages) < d.trackCount {
		return false
	}

	newest := w.messages[len(w.messages)-1]
	oldest := w.messages[0]
	if newest.at.Sub(oldest.at) < d.spamWindow {
		return true
	}

	first := w.messages[0].fp
	for _, msg := range w.messages[1:] {
		if msg.fp != first {
			return false
		}
	}
	return true
}

// Sweep evicts messages older than the staleness cutoff and drops users whose
// windows become empty. Returns the number of users removed.
func (d *Detector) Sweep(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	cutoff := now.Add(-d.maxAge)
	removed := 0

	for _, userID := range d.users.Keys() {
		w, ok := d.users.Peek(userID)
		if !ok {
			continue
		}

		kept := w.messages[:0]
		for _, msg := range w.messages {
			if msg.at.After(cutoff) {
				kept = append(kept, msg)
			}
		}
		w.messages = kept

		if len(w.messages) == 0 {
			d.users.Remove(userID)
			removed++
		}
	}

	return removed
}

// TrackedUsers returns the number of users currently being tracked
func (d *Detector) TrackedUsers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.users.Len()
}

// WindowLen returns the current window length for a user, for tests and stats
func (d *Detector) WindowLen(userID int64) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.users.Peek(userID)
	if !ok {
		return 0
	}
	return len(w.messages)
}
