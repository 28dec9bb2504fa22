package clients

import (
	"context"
	"errors"
	"time"
)

// ErrForbidden marks a platform refusal caused by missing permissions.
// Enforcement code recovers from it locally instead of escalating.
var ErrForbidden = errors.New("missing platform permissions")

// Member is the capability surface the moderation core needs for any guild
// member it acts on. Any concrete platform member implementing this can be
// substituted, which is what the test fakes do.
type Member interface {
	UserID() int64
	GuildID() int64
	Mention() string
	Ban(ctx context.Context, reason string) error
	Kick(ctx context.Context, reason string) error
	Timeout(ctx context.Context, until time.Time, reason string) error
	IsTimedOut(now time.Time) bool
}

// DiscordClient defines the outbound Discord operations the bot performs
// outside of member punishment
type DiscordClient interface {
	// Message operations
	PostChannelMessage(ctx context.Context, channelID, content string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// Member operations
	ResolveMember(ctx context.Context, guildID, userID string) (Member, error)
	MemberHasPermission(ctx context.Context, userID, channelID string, permission int64) (bool, error)
	UnbanUser(ctx context.Context, guildID, userID string) error

	// Channel operations. The default-role id equals the guild id.
	LockChannel(ctx context.Context, channelID, guildID string) error
	UnlockChannel(ctx context.Context, channelID, guildID string) error
}
