package services

import (
	"context"

	"kurumibot/models"
)

// WarningsService defines the interface for the persistent warning counter.
// IncreaseWarning must fail loudly when the store is unreachable; callers
// never punish based on a fabricated count.
type WarningsService interface {
	IncreaseWarning(ctx context.Context, userID, guildID int64) (int, error)
	GetWarnings(ctx context.Context, userID, guildID int64) (int, error)
	ResetWarnings(ctx context.Context, userID, guildID int64) error
	MaxWarnings() int
}

// ModerationActionsService defines the interface for the punishment audit trail
type ModerationActionsService interface {
	RecordModerationAction(
		ctx context.Context,
		guildID, userID int64,
		action models.ModerationActionType,
		reason string,
		warningCount int,
	) (*models.ModerationAction, error)
	GetRecentModerationActions(ctx context.Context, guildID int64, limit int) ([]*models.ModerationAction, error)
}
