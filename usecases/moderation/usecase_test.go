package moderation

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kurumibot/automod/debounce"
	"kurumibot/automod/spamdetector"
	"kurumibot/clients"
	"kurumibot/config"
	"kurumibot/models"
	"kurumibot/services/modactions"
	"kurumibot/services/warnings"
)

var testAutomodConfig = config.AutomodConfig{
	MaxWarnings:           10,
	TimeoutAtWarnings:     3,
	KickAtWarnings:        5,
	BanAtWarnings:         10,
	TimeoutOnThreshold:    60 * time.Second,
	SpamTrackMessageCount: 5,
	SpamWindow:            3 * time.Second,
	MaxTrackedUsers:       100,
	MessageMaxAge:         12 * time.Second,
	DebounceTTL:           5 * time.Second,
	CleanupInterval:       5 * time.Minute,
}

// setupModerationUseCase builds a usecase around a detector with the given
// window size; a window of 1 makes every message count as spam, which keeps
// orchestration tests focused on the wiring rather than the detector
func setupModerationUseCase(
	t *testing.T,
	trackCount int,
) (*ModerationUseCase, *warnings.MockWarningsService, *modactions.MockModerationActionsService, *clients.MockDiscordClient) {
	t.Helper()

	cfg := testAutomodConfig
	cfg.SpamTrackMessageCount = trackCount

	detector, err := spamdetector.NewDetector(
		cfg.SpamTrackMessageCount, cfg.SpamWindow, cfg.MaxTrackedUsers, cfg.MessageMaxAge)
	require.NoError(t, err)

	mockWarnings := new(warnings.MockWarningsService)
	mockModActions := new(modactions.MockModerationActionsService)
	mockDiscord := new(clients.MockDiscordClient)

	useCase := NewModerationUseCase(
		detector,
		debounce.NewRegistry(cfg.DebounceTTL),
		mockWarnings,
		mockModActions,
		mockDiscord,
		cfg,
	)
	return useCase, mockWarnings, mockModActions, mockDiscord
}

func newSpamEvent(offset time.Duration) *models.MessageEvent {
	return &models.MessageEvent{
		AuthorID:  42,
		GuildID:   7,
		ChannelID: "chan-1",
		MessageID: "msg-1",
		Content:   "buy cheap gems",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(offset),
	}
}

func cleanMember() *clients.MockMember {
	member := new(clients.MockMember)
	member.On("UserID").Return(int64(42)).Maybe()
	member.On("GuildID").Return(int64(7)).Maybe()
	member.On("Mention").Return("<@42>").Maybe()
	return member
}

func TestOnMessage(t *testing.T) {
	t.Run("SpamIncrementsWarnsAndNotifies", func(t *testing.T) {
		useCase, mockWarnings, _, mockDiscord := setupModerationUseCase(t, 1)
		member := cleanMember()
		member.On("IsTimedOut", mock.Anything).Return(true).Maybe()

		mockWarnings.On("IncreaseWarning", mock.Anything, int64(42), int64(7)).Return(1, nil)
		mockWarnings.On("MaxWarnings").Return(10)
		mockDiscord.On("PostChannelMessage", mock.Anything, "chan-1", mock.MatchedBy(func(s string) bool {
			return strings.Contains(s, "stop spamming") && strings.Contains(s, "`1`/10")
		})).Return(nil)

		err := useCase.OnMessage(context.Background(), newSpamEvent(0), member)

		require.NoError(t, err)
		mockWarnings.AssertExpectations(t)
		mockDiscord.AssertExpectations(t)
	})

	t.Run("DebounceSuppressesSecondEscalation", func(t *testing.T) {
		useCase, mockWarnings, _, mockDiscord := setupModerationUseCase(t, 1)
		member := cleanMember()
		member.On("IsTimedOut", mock.Anything).Return(true).Maybe()

		mockWarnings.On("IncreaseWarning", mock.Anything, int64(42), int64(7)).Return(1, nil).Once()
		mockWarnings.On("MaxWarnings").Return(10)
		mockDiscord.On("PostChannelMessage", mock.Anything, "chan-1", mock.Anything).Return(nil).Once()

		require.NoError(t, useCase.OnMessage(context.Background(), newSpamEvent(0), member))
		require.NoError(t, useCase.OnMessage(context.Background(), newSpamEvent(time.Second), member))

		mockWarnings.AssertExpectations(t)
		mockDiscord.AssertExpectations(t)
	})

	t.Run("DebounceExpiresAfterTTL", func(t *testing.T) {
		useCase, mockWarnings, _, mockDiscord := setupModerationUseCase(t, 1)
		member := cleanMember()
		member.On("IsTimedOut", mock.Anything).Return(true).Maybe()

		mockWarnings.On("IncreaseWarning", mock.Anything, int64(42), int64(7)).Return(1, nil).Twice()
		mockWarnings.On("MaxWarnings").Return(10)
		mockDiscord.On("PostChannelMessage", mock.Anything, "chan-1", mock.Anything).Return(nil).Twice()

		require.NoError(t, useCase.OnMessage(context.Background(), newSpamEvent(0), member))
		require.NoError(t, useCase.OnMessage(context.Background(), newSpamEvent(6*time.Second), member))

		mockWarnings.AssertExpectations(t)
	})

	t.Run("NotSpamDoesNothing", func(t *testing.T) {
		useCase, mockWarnings, _, mockDiscord := setupModerationUseCase(t, 5)
		member := cleanMember()

		err := useCase.OnMessage(context.Background(), newSpamEvent(0), member)

		require.NoError(t, err)
		mockWarnings.AssertNotCalled(t, "IncreaseWarning", mock.Anything, mock.Anything, mock.Anything)
		mockDiscord.AssertNotCalled(t, "PostChannelMessage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BotAuthorIsIgnored", func(t *testing.T) {
		useCase, mockWarnings, _, _ := setupModerationUseCase(t, 1)
		event := newSpamEvent(0)
		event.AuthorIsBot = true

		err := useCase.OnMessage(context.Background(), event, cleanMember())

		require.NoError(t, err)
		mockWarnings.AssertNotCalled(t, "IncreaseWarning", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DirectMessageIsIgnored", func(t *testing.T) {
		useCase, mockWarnings, _, _ := setupModerationUseCase(t, 1)
		event := newSpamEvent(0)
		event.GuildID = 0

		err := useCase.OnMessage(context.Background(), event, cleanMember())

		require.NoError(t, err)
		mockWarnings.AssertNotCalled(t, "IncreaseWarning", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StoreFailurePropagatesAndPunishesNothing", func(t *testing.T) {
		useCase, mockWarnings, _, mockDiscord := setupModerationUseCase(t, 1)
		member := cleanMember()

		mockWarnings.On("IncreaseWarning", mock.Anything, int64(42), int64(7)).
			Return(0, fmt.Errorf("connection refused"))

		err := useCase.OnMessage(context.Background(), newSpamEvent(0), member)

		require.Error(t, err)
		// No user-visible message and no punishment on a guessed count
		mockDiscord.AssertNotCalled(t, "PostChannelMessage", mock.Anything, mock.Anything, mock.Anything)
		member.AssertNotCalled(t, "Ban", mock.Anything, mock.Anything)
		member.AssertNotCalled(t, "Kick", mock.Anything, mock.Anything)
		member.AssertNotCalled(t, "Timeout", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestManualWarn(t *testing.T) {
	t.Run("ReachingTimeoutThresholdMutesMember", func(t *testing.T) {
		useCase, mockWarnings, mockModActions, mockDiscord := setupModerationUseCase(t, 5)
		member := cleanMember()
		member.On("IsTimedOut", mock.Anything).Return(false)
		member.On("Timeout", mock.Anything, mock.MatchedBy(func(until time.Time) bool {
			remaining := time.Until(until)
			return remaining > 55*time.Second && remaining <= 61*time.Second
		}), "Auto timeout due to warnings").Return(nil)

		mockWarnings.On("IncreaseWarning", mock.Anything, int64(42), int64(7)).Return(3, nil)
		mockWarnings.On("MaxWarnings").Return(10)
		mockDiscord.On("PostChannelMessage", mock.Anything, "chan-1", mock.MatchedBy(func(s string) bool {
			return strings.Contains(s, "temporarily muted")
		})).Return(nil).Once()
		mockModActions.On("RecordModerationAction",
			mock.Anything, int64(7), int64(42), models.ModerationActionTimeout, mock.Anything, 3).
			Return(&models.ModerationAction{ID: "ma_test"}, nil)

		action, count, err := useCase.ManualWarn(context.Background(), member, "chan-1", "spamming")

		require.NoError(t, err)
		assert.Equal(t, models.ModerationActionTimeout, action)
		assert.Equal(t, 3, count)
		member.AssertExpectations(t)
		mockDiscord.AssertExpectations(t)
		mockModActions.AssertExpectations(t)
	})

	t.Run("BelowThresholdsReturnsNone", func(t *testing.T) {
		useCase, mockWarnings, _, _ := setupModerationUseCase(t, 5)
		member := cleanMember()
		member.On("IsTimedOut", mock.Anything).Return(false).Maybe()

		mockWarnings.On("IncreaseWarning", mock.Anything, int64(42), int64(7)).Return(1, nil)
		mockWarnings.On("MaxWarnings").Return(10)

		action, count, err := useCase.ManualWarn(context.Background(), member, "chan-1", "rude")

		require.NoError(t, err)
		assert.Equal(t, models.ModerationActionNone, action)
		assert.Equal(t, 1, count)
	})

	t.Run("StoreFailurePropagates", func(t *testing.T) {
		useCase, mockWarnings, _, _ := setupModerationUseCase(t, 5)
		member := cleanMember()

		mockWarnings.On("IncreaseWarning", mock.Anything, int64(42), int64(7)).
			Return(0, fmt.Errorf("connection refused"))

		action, count, err := useCase.ManualWarn(context.Background(), member, "chan-1", "rude")

		require.Error(t, err)
		assert.Equal(t, models.ModerationActionNone, action)
		assert.Equal(t, 0, count)
	})
}

func TestCleanupStaleEntries(t *testing.T) {
	useCase, mockWarnings, _, mockDiscord := setupModerationUseCase(t, 1)
	member := cleanMember()
	member.On("IsTimedOut", mock.Anything).Return(true).Maybe()

	mockWarnings.On("IncreaseWarning", mock.Anything, int64(42), int64(7)).Return(1, nil)
	mockWarnings.On("MaxWarnings").Return(10)
	mockDiscord.On("PostChannelMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, useCase.OnMessage(context.Background(), newSpamEvent(0), member))
	assert.Equal(t, 1, useCase.Stats().TrackedUsers)
	assert.Equal(t, 1, useCase.Stats().LiveDebounceEntries)

	require.NoError(t, useCase.CleanupStaleEntries(context.Background()))

	// The event timestamp is far in the past, so both stores come out empty
	stats := useCase.Stats()
	assert.Equal(t, 0, stats.TrackedUsers)
	assert.Equal(t, 0, stats.LiveDebounceEntries)
}

func TestShutdownClearsDebounce(t *testing.T) {
	useCase, mockWarnings, _, mockDiscord := setupModerationUseCase(t, 1)
	member := cleanMember()
	member.On("IsTimedOut", mock.Anything).Return(true).Maybe()

	mockWarnings.On("IncreaseWarning", mock.Anything, int64(42), int64(7)).Return(1, nil)
	mockWarnings.On("MaxWarnings").Return(10)
	mockDiscord.On("PostChannelMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, useCase.OnMessage(context.Background(), newSpamEvent(0), member))
	useCase.Shutdown()

	assert.Equal(t, 0, useCase.Stats().LiveDebounceEntries)
}
