package clients

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockDiscordClient is a mock implementation of the DiscordClient interface
type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) PostChannelMessage(ctx context.Context, channelID, content string) error {
	args := m.Called(ctx, channelID, content)
	return args.Error(0)
}

func (m *MockDiscordClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

func (m *MockDiscordClient) ResolveMember(ctx context.Context, guildID, userID string) (Member, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Member), args.Error(1)
}

func (m *MockDiscordClient) MemberHasPermission(
	ctx context.Context,
	userID, channelID string,
	permission int64,
) (bool, error) {
	args := m.Called(ctx, userID, channelID, permission)
	return args.Bool(0), args.Error(1)
}

func (m *MockDiscordClient) UnbanUser(ctx context.Context, guildID, userID string) error {
	args := m.Called(ctx, guildID, userID)
	return args.Error(0)
}

func (m *MockDiscordClient) LockChannel(ctx context.Context, channelID, guildID string) error {
	args := m.Called(ctx, channelID, guildID)
	return args.Error(0)
}

func (m *MockDiscordClient) UnlockChannel(ctx context.Context, channelID, guildID string) error {
	args := m.Called(ctx, channelID, guildID)
	return args.Error(0)
}

// MockMember is a mock implementation of the Member capability interface
type MockMember struct {
	mock.Mock
}

func (m *MockMember) UserID() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *MockMember) GuildID() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *MockMember) Mention() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMember) Ban(ctx context.Context, reason string) error {
	args := m.Called(ctx, reason)
	return args.Error(0)
}

func (m *MockMember) Kick(ctx context.Context, reason string) error {
	args := m.Called(ctx, reason)
	return args.Error(0)
}

func (m *MockMember) Timeout(ctx context.Context, until time.Time, reason string) error {
	args := m.Called(ctx, until, reason)
	return args.Error(0)
}

func (m *MockMember) IsTimedOut(now time.Time) bool {
	args := m.Called(now)
	return args.Bool(0)
}
