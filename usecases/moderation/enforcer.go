package moderation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"kurumibot/clients"
	"kurumibot/config"
	"kurumibot/models"
	"kurumibot/services"
)

// Enforcer maps a warning count to the single highest-severity punishment and
// applies it. Priority is strict: ban dominates kick dominates timeout.
//
// Threshold policy: ban uses >= so it can never be missed even if a count
// jumps past the threshold; kick uses exact match so a user is not re-kicked
// on every warning beyond the threshold. Counts only move through this path
// in increments of one, so exact match still fires exactly once.
type Enforcer struct {
	discordClient     clients.DiscordClient
	modActionsService services.ModerationActionsService
	cfg               config.AutomodConfig
}

func NewEnforcer(
	discordClient clients.DiscordClient,
	modActionsService services.ModerationActionsService,
	cfg config.AutomodConfig,
) *Enforcer {
	return &Enforcer{
		discordClient:     discordClient,
		modActionsService: modActionsService,
		cfg:               cfg,
	}
}

// Enforce applies the punishment the count calls for and reports which one
// fired. Failures never propagate: a permission refusal is logged and answered
// with an honest in-channel notice, any other failure is logged with full
// context and the action is treated as not having happened (ActionNone).
func (e *Enforcer) Enforce(
	ctx context.Context,
	member clients.Member,
	channelID string,
	count int,
) models.ModerationActionType {
	now := time.Now()

	switch {
	case count >= e.cfg.BanAtWarnings:
		reason := fmt.Sprintf("Too many warnings (%d)", e.cfg.BanAtWarnings)
		if err := member.Ban(ctx, reason); err != nil {
			e.reportFailure(ctx, member, channelID, models.ModerationActionBan, err)
			return models.ModerationActionNone
		}
		e.notify(ctx, channelID, fmt.Sprintf("⛔ %s has been banned for reaching %d warnings.",
			member.Mention(), e.cfg.BanAtWarnings))
		e.record(ctx, member, models.ModerationActionBan, reason, count)
		return models.ModerationActionBan

	case count == e.cfg.KickAtWarnings:
		reason := fmt.Sprintf("Too many warnings (%d)", e.cfg.KickAtWarnings)
		if err := member.Kick(ctx, reason); err != nil {
			e.reportFailure(ctx, member, channelID, models.ModerationActionKick, err)
			return models.ModerationActionNone
		}
		e.notify(ctx, channelID, fmt.Sprintf("👢 %s has been kicked for reaching %d warnings.",
			member.Mention(), e.cfg.KickAtWarnings))
		e.record(ctx, member, models.ModerationActionKick, reason, count)
		return models.ModerationActionKick

	case count >= e.cfg.TimeoutAtWarnings && !member.IsTimedOut(now):
		reason := "Auto timeout due to warnings"
		until := now.Add(e.cfg.TimeoutOnThreshold)
		if err := member.Timeout(ctx, until, reason); err != nil {
			e.reportFailure(ctx, member, channelID, models.ModerationActionTimeout, err)
			return models.ModerationActionNone
		}
		e.notify(ctx, channelID, fmt.Sprintf("🔇 %s has been temporarily muted (%ds) due to repeated warnings.",
			member.Mention(), int(e.cfg.TimeoutOnThreshold.Seconds())))
		e.record(ctx, member, models.ModerationActionTimeout, reason, count)
		return models.ModerationActionTimeout
	}

	return models.ModerationActionNone
}

func (e *Enforcer) reportFailure(
	ctx context.Context,
	member clients.Member,
	channelID string,
	action models.ModerationActionType,
	err error,
) {
	if errors.Is(err, clients.ErrForbidden) {
		log.Printf("⚠️ Missing permissions to %s user %d in guild %d: %v",
			action, member.UserID(), member.GuildID(), err)
		e.notify(ctx, channelID, "❌ I lack permissions to enforce the punishment.")
		return
	}

	log.Printf("❌ Failed to %s user %d in guild %d: %v",
		action, member.UserID(), member.GuildID(), err)
}

func (e *Enforcer) notify(ctx context.Context, channelID, content string) {
	if channelID == "" {
		return
	}
	if err := e.discordClient.PostChannelMessage(ctx, channelID, content); err != nil {
		log.Printf("⚠️ Failed to send punishment notification: %v", err)
	}
}

func (e *Enforcer) record(
	ctx context.Context,
	member clients.Member,
	action models.ModerationActionType,
	reason string,
	count int,
) {
	_, err := e.modActionsService.RecordModerationAction(
		ctx,
		member.GuildID(),
		member.UserID(),
		action,
		reason,
		count,
	)
	if err != nil {
		// The punishment already happened on the platform; a failed audit
		// write must not undo or retry it
		log.Printf("⚠️ Failed to record moderation action: %v", err)
	}
}
