package spamdetector

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	detector, err := NewDetector(5, 3*time.Second, 100, 12*time.Second)
	require.NoError(t, err)
	return detector
}

func TestRecordAndCheck(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Burst_WithinWindowIsSpam", func(t *testing.T) {
		detector := newTestDetector(t)

		offsets := []time.Duration{0, 1 * time.Second, 2 * time.Second, 2500 * time.Millisecond}
		for i, offset := range offsets {
			spam := detector.RecordAndCheck(1, fmt.Sprintf("message %d", i), base.Add(offset))
			assert.False(t, spam, "window not full yet at message %d", i)
		}

		spam := detector.RecordAndCheck(1, "message 4", base.Add(2800*time.Millisecond))
		assert.True(t, spam, "five messages within 3s should be spam")
	})

	t.Run("Repetition_OutsideWindowIsSpam", func(t *testing.T) {
		detector := newTestDetector(t)

		for i := 0; i < 4; i++ {
			spam := detector.RecordAndCheck(1, "same text", base.Add(time.Duration(i*5)*time.Second))
			assert.False(t, spam)
		}

		spam := detector.RecordAndCheck(1, "same text", base.Add(20*time.Second))
		assert.True(t, spam, "five identical messages should be spam regardless of timing")
	})

	t.Run("DistinctSlowMessages_NotSpam", func(t *testing.T) {
		detector := newTestDetector(t)

		for i := 0; i < 5; i++ {
			spam := detector.RecordAndCheck(1, fmt.Sprintf("message %d", i), base.Add(time.Duration(i*10)*time.Second))
			assert.False(t, spam, "distinct spaced-out messages must never be spam")
		}
	})

	t.Run("WindowBoundary_ExactWindowIsNotBurst", func(t *testing.T) {
		detector := newTestDetector(t)

		// newest - oldest == window exactly; the burst rule uses strict <
		offsets := []time.Duration{0, 500 * time.Millisecond, 1 * time.Second, 2 * time.Second, 3 * time.Second}
		var spam bool
		for i, offset := range offsets {
			spam = detector.RecordAndCheck(1, fmt.Sprintf("message %d", i), base.Add(offset))
		}
		assert.False(t, spam)
	})

	t.Run("WindowNeverExceedsBound", func(t *testing.T) {
		detector := newTestDetector(t)

		for i := 0; i < 20; i++ {
			detector.RecordAndCheck(1, fmt.Sprintf("message %d", i), base.Add(time.Duration(i)*time.Minute))
			assert.LessOrEqual(t, detector.WindowLen(1), 5)
		}
	})

	t.Run("UsersAreIndependent", func(t *testing.T) {
		detector := newTestDetector(t)

		// User 1 fills a burst, user 2 only contributes two messages
		for i := 0; i < 4; i++ {
			detector.RecordAndCheck(1, fmt.Sprintf("a%d", i), base.Add(time.Duration(i*100)*time.Millisecond))
			detector.RecordAndCheck(2, fmt.Sprintf("b%d", i), base.Add(time.Duration(i*100)*time.Millisecond))
		}
		detector.RecordAndCheck(2, "b4", base.Add(time.Hour))

		spam := detector.RecordAndCheck(1, "a4", base.Add(400*time.Millisecond))
		assert.True(t, spam)
		assert.False(t, detector.RecordAndCheck(2, "b5", base.Add(2*time.Hour)))
	})
}

func TestTrackedUserCap(t *testing.T) {
	detector, err := NewDetector(5, 3*time.Second, 3, 12*time.Second)
	require.NoError(t, err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for userID := int64(1); userID <= 4; userID++ {
		detector.RecordAndCheck(userID, "hello", base)
	}

	// The least-recently-active user was evicted to stay under the cap
	assert.Equal(t, 3, detector.TrackedUsers())
	assert.Equal(t, 0, detector.WindowLen(1))
	assert.Equal(t, 1, detector.WindowLen(4))
}

func TestSweep(t *testing.T) {
	detector := newTestDetector(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	detector.RecordAndCheck(1, "old", base)
	detector.RecordAndCheck(2, "old", base)
	detector.RecordAndCheck(2, "fresh", base.Add(10*time.Second))

	// maxAge is 12s: at +13s user 1's only message is stale, user 2 keeps one
	removed := detector.Sweep(base.Add(13 * time.Second))

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, detector.TrackedUsers())
	assert.Equal(t, 0, detector.WindowLen(1))
	assert.Equal(t, 1, detector.WindowLen(2))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("hello"), Fingerprint("hello"))
	assert.NotEqual(t, Fingerprint("hello"), Fingerprint("hello "))
	assert.NotEqual(t, Fingerprint(""), Fingerprint("a"))
}
