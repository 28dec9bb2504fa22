package moderation

import (
	"context"
	"fmt"
	"log"
	"time"

	"kurumibot/automod/debounce"
	"kurumibot/automod/spamdetector"
	"kurumibot/clients"
	"kurumibot/config"
	"kurumibot/models"
	"kurumibot/services"
)

// ModerationUseCase wires the spam detector, debounce registry, warning store
// and enforcer together on the message-received path, and exposes the same
// escalation path for moderator-issued warnings.
type ModerationUseCase struct {
	detector          *spamdetector.Detector
	debounce          *debounce.Registry
	warningsService   services.WarningsService
	modActionsService services.ModerationActionsService
	discordClient     clients.DiscordClient
	enforcer          *Enforcer
}

func NewModerationUseCase(
	detector *spamdetector.Detector,
	debounceRegistry *debounce.Registry,
	warningsService services.WarningsService,
	modActionsService services.ModerationActionsService,
	discordClient clients.DiscordClient,
	cfg config.AutomodConfig,
) *ModerationUseCase {
	return &ModerationUseCase{
		detector:          detector,
		debounce:          debounceRegistry,
		warningsService:   warningsService,
		modActionsService: modActionsService,
		discordClient:     discordClient,
		enforcer:          NewEnforcer(discordClient, modActionsService, cfg),
	}
}

// OnMessage runs the automated escalation path for one inbound message.
// A store failure propagates to the caller before any punishment is decided;
// the caller logs it and takes no moderation action for that message.
func (u *ModerationUseCase) OnMessage(
	ctx context.Context,
	event *models.MessageEvent,
	member clients.Member,
) error {
	if event.AuthorIsBot || event.GuildID == 0 {
		return nil
	}

	now := event.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	if !u.detector.RecordAndCheck(event.AuthorID, event.Content, now) {
		return nil
	}

	if !u.debounce.TryAcquire(event.GuildID, event.AuthorID, now) {
		// Already warned within the debounce window; the entry expires on its
		// own, no scheduled release needed
		return nil
	}

	log.Printf("🚨 Spam detected from user %d in guild %d", event.AuthorID, event.GuildID)

	count, err := u.warningsService.IncreaseWarning(ctx, event.AuthorID, event.GuildID)
	if err != nil {
		return fmt.Errorf("failed to increase warning for spamming user: %w", err)
	}

	notice := fmt.Sprintf("⚠️ %s, please stop spamming! Warning `%d`/%d.",
		member.Mention(), count, u.warningsService.MaxWarnings())
	if err := u.discordClient.PostChannelMessage(ctx, event.ChannelID, notice); err != nil {
		log.Printf("⚠️ Failed to send spam warning notice: %v", err)
	}

	action := u.enforcer.Enforce(ctx, member, event.ChannelID, count)
	if action != models.ModerationActionNone {
		log.Printf("✅ Enforced %s against user %d in guild %d (%d warnings)",
			action, event.AuthorID, event.GuildID, count)
	}

	return nil
}

// ManualWarn runs the escalation path for a moderator-issued warning. There is
// no spam check and no debounce; the resulting action and count go back to the
// caller for display.
func (u *ModerationUseCase) ManualWarn(
	ctx context.Context,
	member clients.Member,
	channelID string,
	reason string,
) (models.ModerationActionType, int, error) {
	log.Printf("📋 Starting manual warn for user %d in guild %d", member.UserID(), member.GuildID())

	count, err := u.warningsService.IncreaseWarning(ctx, member.UserID(), member.GuildID())
	if err != nil {
		return models.ModerationActionNone, 0, fmt.Errorf("failed to increase warning: %w", err)
	}

	action := u.enforcer.Enforce(ctx, member, channelID, count)

	log.Printf("📋 Completed successfully - user %d warned (%d/%d), action: %s",
		member.UserID(), count, u.warningsService.MaxWarnings(), action)
	return action, count, nil
}

func (u *ModerationUseCase) GetWarnings(ctx context.Context, userID, guildID int64) (int, error) {
	return u.warningsService.GetWarnings(ctx, userID, guildID)
}

func (u *ModerationUseCase) ResetWarnings(ctx context.Context, userID, guildID int64) error {
	return u.warningsService.ResetWarnings(ctx, userID, guildID)
}

func (u *ModerationUseCase) GetRecentModerationActions(
	ctx context.Context,
	guildID int64,
	limit int,
) ([]*models.ModerationAction, error) {
	return u.modActionsService.GetRecentModerationActions(ctx, guildID, limit)
}

func (u *ModerationUseCase) MaxWarnings() int {
	return u.warningsService.MaxWarnings()
}

// Stats snapshots the in-memory tracking state for the status endpoint
func (u *ModerationUseCase) Stats() models.AutomodStats {
	return models.AutomodStats{
		TrackedUsers:        u.detector.TrackedUsers(),
		LiveDebounceEntries: u.debounce.Len(),
	}
}

// Shutdown clears all debounce state so nothing dangles across a clean
// shutdown/reload cycle
func (u *ModerationUseCase) Shutdown() {
	u.debounce.ReleaseAll()
	log.Printf("🛑 Moderation state cleared")
}
