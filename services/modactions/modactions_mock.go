package modactions

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kurumibot/models"
)

// MockModerationActionsService is a mock implementation of the
// ModerationActionsService interface
type MockModerationActionsService struct {
	mock.Mock
}

func (m *MockModerationActionsService) RecordModerationAction(
	ctx context.Context,
	guildID, userID int64,
	action models.ModerationActionType,
	reason string,
	warningCount int,
) (*models.ModerationAction, error) {
	args := m.Called(ctx, guildID, userID, action, reason, warningCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModerationAction), args.Error(1)
}

func (m *MockModerationActionsService) GetRecentModerationActions(
	ctx context.Context,
	guildID int64,
	limit int,
) ([]*models.ModerationAction, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ModerationAction), args.Error(1)
}
