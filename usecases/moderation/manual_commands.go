package moderation

import (
	"context"
	"fmt"
	"log"

	"kurumibot/clients"
	"kurumibot/models"
)

// ManualKick kicks a member on a moderator's command and records it in the
// audit trail
func (u *ModerationUseCase) ManualKick(
	ctx context.Context,
	member clients.Member,
	reason string,
) error {
	if err := member.Kick(ctx, reason); err != nil {
		return fmt.Errorf("failed to kick member: %w", err)
	}

	count, err := u.warningsService.GetWarnings(ctx, member.UserID(), member.GuildID())
	if err != nil {
		log.Printf("⚠️ Could not read warning count for kicked user: %v", err)
		count = 0
	}

	if _, err := u.modActionsService.RecordModerationAction(
		ctx, member.GuildID(), member.UserID(), models.ModerationActionKick, reason, count,
	); err != nil {
		log.Printf("⚠️ Failed to record manual kick: %v", err)
	}

	return nil
}

// ManualBan bans a member on a moderator's command and records it in the
// audit trail
func (u *ModerationUseCase) ManualBan(
	ctx context.Context,
	member clients.Member,
	reason string,
) error {
	if err := member.Ban(ctx, reason); err != nil {
		return fmt.Errorf("failed to ban member: %w", err)
	}

	count, err := u.warningsService.GetWarnings(ctx, member.UserID(), member.GuildID())
	if err != nil {
		log.Printf("⚠️ Could not read warning count for banned user: %v", err)
		count = 0
	}

	if _, err := u.modActionsService.RecordModerationAction(
		ctx, member.GuildID(), member.UserID(), models.ModerationActionBan, reason, count,
	); err != nil {
		log.Printf("⚠️ Failed to record manual ban: %v", err)
	}

	return nil
}

// Unban lifts a ban and clears the user's warnings so they start clean
func (u *ModerationUseCase) Unban(ctx context.Context, guildID, userID int64, guildIDStr, userIDStr string) error {
	if err := u.discordClient.UnbanUser(ctx, guildIDStr, userIDStr); err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}

	if err := u.warningsService.ResetWarnings(ctx, userID, guildID); err != nil {
		return fmt.Errorf("failed to reset warnings after unban: %w", err)
	}

	return nil
}
