package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"kurumibot/clients"
)

// handleCommand dispatches moderator prefix commands. Each command checks the
// invoking member's own guild permissions before acting.
func (h *DiscordEventsHandler) handleCommand(ctx context.Context, m *discordgo.MessageCreate) {
	fields := strings.Fields(strings.TrimPrefix(m.Content, h.commandPrefix))
	if len(fields) == 0 {
		return
	}

	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case "warn":
		h.commandWarn(ctx, m, args)
	case "warnings":
		h.commandWarnings(ctx, m, args)
	case "resetwarnings":
		h.commandResetWarnings(ctx, m, args)
	case "kick":
		h.commandKick(ctx, m, args)
	case "ban":
		h.commandBan(ctx, m, args)
	case "unban":
		h.commandUnban(ctx, m, args)
	case "lock":
		h.commandLock(ctx, m, true)
	case "unlock":
		h.commandLock(ctx, m, false)
	case "modlog":
		h.commandModLog(ctx, m, args)
	}
}

func (h *DiscordEventsHandler) commandWarn(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if !h.requirePermission(ctx, m, discordgo.PermissionManageMessages) {
		return
	}
	member, ok := h.resolveMentionedMember(ctx, m, args)
	if !ok {
		return
	}

	reason := "No reason provided"
	if len(args) > 1 {
		reason = strings.Join(args[1:], " ")
	}

	_, count, err := h.moderationUseCase.ManualWarn(ctx, member, m.ChannelID, reason)
	if err != nil {
		log.Printf("❌ Manual warn failed: %v", err)
		h.reply(ctx, m, "❌ Could not record the warning, please try again later.")
		return
	}

	h.reply(ctx, m, fmt.Sprintf("⚠️ %s has been warned. (%d/%d) Reason: %s",
		member.Mention(), count, h.moderationUseCase.MaxWarnings(), reason))
}

func (h *DiscordEventsHandler) commandWarnings(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	member, ok := h.resolveMentionedMember(ctx, m, args)
	if !ok {
		return
	}

	count, err := h.moderationUseCase.GetWarnings(ctx, member.UserID(), member.GuildID())
	if err != nil {
		log.Printf("❌ Failed to read warnings: %v", err)
		h.reply(ctx, m, "❌ Could not read the warning count, please try again later.")
		return
	}

	h.reply(ctx, m, fmt.Sprintf("📋 %s has %d/%d warnings.",
		member.Mention(), count, h.moderationUseCase.MaxWarnings()))
}

func (h *DiscordEventsHandler) commandResetWarnings(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if !h.requirePermission(ctx, m, discordgo.PermissionManageMessages) {
		return
	}
	member, ok := h.resolveMentionedMember(ctx, m, args)
	if !ok {
		return
	}

	if err := h.moderationUseCase.ResetWarnings(ctx, member.UserID(), member.GuildID()); err != nil {
		log.Printf("❌ Failed to reset warnings: %v", err)
		h.reply(ctx, m, "❌ Could not reset the warnings, please try again later.")
		return
	}

	h.reply(ctx, m, fmt.Sprintf("✅ Warnings for %s have been reset.", member.Mention()))
}

func (h *DiscordEventsHandler) commandKick(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if !h.requirePermission(ctx, m, discordgo.PermissionKickMembers) {
		return
	}
	member, ok := h.resolveMentionedMember(ctx, m, args)
	if !ok {
		return
	}

	reason := "No reason provided"
	if len(args) > 1 {
		reason = strings.Join(args[1:], " ")
	}

	if err := h.moderationUseCase.ManualKick(ctx, member, reason); err != nil {
		h.replyActionError(ctx, m, err)
		return
	}

	h.reply(ctx, m, fmt.Sprintf("👢 %s has been kicked. Reason: %s", member.Mention(), reason))
}

func (h *DiscordEventsHandler) commandBan(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if !h.requirePermission(ctx, m, discordgo.PermissionBanMembers) {
		return
	}
	member, ok := h.resolveMentionedMember(ctx, m, args)
	if !ok {
		return
	}

	reason := "No reason provided"
	if len(args) > 1 {
		reason = strings.Join(args[1:], " ")
	}

	if err := h.moderationUseCase.ManualBan(ctx, member, reason); err != nil {
		h.replyActionError(ctx, m, err)
		return
	}

	h.reply(ctx, m, fmt.Sprintf("🔨 %s has been banned. Reason: %s", member.Mention(), reason))
}

func (h *DiscordEventsHandler) commandUnban(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if !h.requirePermission(ctx, m, discordgo.PermissionBanMembers) {
		return
	}
	if len(args) == 0 {
		h.reply(ctx, m, "❌ Usage: unban <user id>")
		return
	}

	userIDStr := args[0]
	if mentioned, ok := ParseUserMention(userIDStr); ok {
		userIDStr = mentioned
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		h.reply(ctx, m, fmt.Sprintf("❌ %q is not a valid user id.", args[0]))
		return
	}
	guildID, err := strconv.ParseInt(m.GuildID, 10, 64)
	if err != nil {
		log.Printf("⚠️ Invalid guild id %q: %v", m.GuildID, err)
		return
	}

	if err := h.moderationUseCase.Unban(ctx, guildID, userID, m.GuildID, userIDStr); err != nil {
		h.replyActionError(ctx, m, err)
		return
	}

	h.reply(ctx, m, fmt.Sprintf("✅ Successfully unbanned <@%s> and cleared their warnings.", userIDStr))
}

// commandLock toggles the send permission for the channel's default role
func (h *DiscordEventsHandler) commandLock(ctx context.Context, m *discordgo.MessageCreate, lock bool) {
	if !h.requirePermission(ctx, m, discordgo.PermissionManageChannels) {
		return
	}

	var err error
	if lock {
		err = h.discordClient.LockChannel(ctx, m.ChannelID, m.GuildID)
	} else {
		err = h.discordClient.UnlockChannel(ctx, m.ChannelID, m.GuildID)
	}
	if err != nil {
		h.replyActionError(ctx, m, err)
		return
	}

	if lock {
		h.reply(ctx, m, "🔒 This channel has been locked.")
	} else {
		h.reply(ctx, m, "🔓 This channel has been unlocked.")
	}
}

func (h *DiscordEventsHandler) commandModLog(ctx context.Context, m *discordgo.MessageCreate, args []string) {
	if !h.requirePermission(ctx, m, discordgo.PermissionViewAuditLogs) {
		return
	}

	limit := 10
	if len(args) > 0 {
		if parsed, err := strconv.Atoi(args[0]); err == nil && parsed > 0 && parsed <= 25 {
			limit = parsed
		}
	}

	guildID, err := strconv.ParseInt(m.GuildID, 10, 64)
	if err != nil {
		log.Printf("⚠️ Invalid guild id %q: %v", m.GuildID, err)
		return
	}

	actions, err := h.moderationUseCase.GetRecentModerationActions(ctx, guildID, limit)
	if err != nil {
		log.Printf("❌ Failed to read moderation log: %v", err)
		h.reply(ctx, m, "❌ Could not read the moderation log, please try again later.")
		return
	}

	if len(actions) == 0 {
		h.reply(ctx, m, "📋 No moderation actions recorded for this server yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Recent moderation actions:\n")
	for _, action := range actions {
		sb.WriteString(fmt.Sprintf("`%s` %s <@%d> (%d warnings) - %s\n",
			action.CreatedAt.Format("2006-01-02 15:04"),
			action.Action, action.UserID, action.WarningCount, action.Reason))
	}
	h.reply(ctx, m, sb.String())
}

func (h *DiscordEventsHandler) resolveMentionedMember(
	ctx context.Context,
	m *discordgo.MessageCreate,
	args []string,
) (clients.Member, bool) {
	if len(args) == 0 {
		h.reply(ctx, m, "❌ Please mention a user.")
		return nil, false
	}

	userID, ok := ParseUserMention(args[0])
	if !ok {
		h.reply(ctx, m, fmt.Sprintf("❌ %q is not a user mention.", args[0]))
		return nil, false
	}

	member, err := h.discordClient.ResolveMember(ctx, m.GuildID, userID)
	if err != nil {
		log.Printf("⚠️ Could not resolve member %s: %v", userID, err)
		h.reply(ctx, m, "❌ Could not find that member in this server.")
		return nil, false
	}

	return member, true
}

func (h *DiscordEventsHandler) requirePermission(
	ctx context.Context,
	m *discordgo.MessageCreate,
	permission int64,
) bool {
	allowed, err := h.discordClient.MemberHasPermission(ctx, m.Author.ID, m.ChannelID, permission)
	if err != nil {
		log.Printf("⚠️ Permission check failed for user %s: %v", m.Author.ID, err)
		return false
	}
	if !allowed {
		h.reply(ctx, m, "❌ You don't have permission to use this command.")
		return false
	}
	return true
}

func (h *DiscordEventsHandler) replyActionError(ctx context.Context, m *discordgo.MessageCreate, err error) {
	if errors.Is(err, clients.ErrForbidden) {
		h.reply(ctx, m, "❌ I lack permissions to do that.")
		return
	}
	log.Printf("❌ Moderator command failed: %v", err)
	h.reply(ctx, m, "❌ The action failed, please try again later.")
}

func (h *DiscordEventsHandler) reply(ctx context.Context, m *discordgo.MessageCreate, content string) {
	if err := h.discordClient.PostChannelMessage(ctx, m.ChannelID, content); err != nil {
		log.Printf("⚠️ Failed to send command reply: %v", err)
	}
}
