package modactions

import (
	"context"
	"fmt"
	"log"

	"kurumibot/core"
	"kurumibot/db"
	"kurumibot/models"
)

type ModerationActionsService struct {
	actionsRepo *db.PostgresModerationActionsRepository
}

func NewModerationActionsService(repo *db.PostgresModerationActionsRepository) *ModerationActionsService {
	return &ModerationActionsService{actionsRepo: repo}
}

func (s *ModerationActionsService) RecordModerationAction(
	ctx context.Context,
	guildID, userID int64,
	action models.ModerationActionType,
	reason string,
	warningCount int,
) (*models.ModerationAction, error) {
	log.Printf("📋 Starting to record moderation action %s for user: %d, guild: %d", action, userID, guildID)

	if action == models.ModerationActionNone {
		return nil, fmt.Errorf("cannot record a %q action", models.ModerationActionNone)
	}

	record := &models.ModerationAction{
		ID:           core.NewID("ma"),
		GuildID:      guildID,
		UserID:       userID,
		Action:       action,
		Reason:       reason,
		WarningCount: warningCount,
	}

	if err := s.actionsRepo.CreateModerationAction(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record moderation action: %w", err)
	}

	log.Printf("📋 Completed successfully - recorded moderation action %s", record.ID)
	return record, nil
}

func (s *ModerationActionsService) GetRecentModerationActions(
	ctx context.Context,
	guildID int64,
	limit int,
) ([]*models.ModerationAction, error) {
	if limit <= 0 {
		limit = 10
	}

	actions, err := s.actionsRepo.GetRecentModerationActions(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent moderation actions: %w", err)
	}

	return actions, nil
}
