package warnings

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockWarningsService is a mock implementation of the WarningsService interface
type MockWarningsService struct {
	mock.Mock
}

func (m *MockWarningsService) IncreaseWarning(ctx context.Context, userID, guildID int64) (int, error) {
	args := m.Called(ctx, userID, guildID)
	return args.Int(0), args.Error(1)
}

func (m *MockWarningsService) GetWarnings(ctx context.Context, userID, guildID int64) (int, error) {
	args := m.Called(ctx, userID, guildID)
	return args.Int(0), args.Error(1)
}

func (m *MockWarningsService) ResetWarnings(ctx context.Context, userID, guildID int64) error {
	args := m.Called(ctx, userID, guildID)
	return args.Error(0)
}

func (m *MockWarningsService) MaxWarnings() int {
	args := m.Called()
	return args.Int(0)
}
