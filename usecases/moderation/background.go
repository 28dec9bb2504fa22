package moderation

import (
	"context"
	"log"
	"time"
)

// CleanupStaleEntries trims stale message history and expired debounce
// entries. Runs on the janitor ticker, independent of the per-message path.
func (u *ModerationUseCase) CleanupStaleEntries(ctx context.Context) error {
	log.Printf("📋 Starting automod cleanup sweep")

	now := time.Now()
	evictedUsers := u.detector.Sweep(now)
	expiredEntries := u.debounce.Sweep(now)

	log.Printf("📋 Completed successfully - evicted %d idle users, expired %d debounce entries",
		evictedUsers, expiredEntries)
	return nil
}
