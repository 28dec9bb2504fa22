package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"kurumibot/clients"
)

// DiscordgoClient implements the clients.DiscordClient interface on top of a
// shared discordgo session
type DiscordgoClient struct {
	session *discordgo.Session
}

func NewDiscordgoClient(session *discordgo.Session) *DiscordgoClient {
	return &DiscordgoClient{session: session}
}

func (c *DiscordgoClient) PostChannelMessage(ctx context.Context, channelID, content string) error {
	_, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return wrapRESTError(fmt.Errorf("failed to send channel message: %w", err))
	}
	return nil
}

func (c *DiscordgoClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return wrapRESTError(fmt.Errorf("failed to delete message: %w", err))
	}
	return nil
}

// ResolveMember fetches the member from the guild and adapts it to the
// capability interface the moderation core acts on
func (c *DiscordgoClient) ResolveMember(ctx context.Context, guildID, userID string) (clients.Member, error) {
	member, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapRESTError(fmt.Errorf("failed to fetch guild member: %w", err))
	}

	guildIDInt, err := strconv.ParseInt(guildID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid guild id %q: %w", guildID, err)
	}
	userIDInt, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	return &guildMember{
		session:       c.session,
		guildID:       guildID,
		userID:        userID,
		guildIDInt:    guildIDInt,
		userIDInt:     userIDInt,
		timedOutUntil: member.CommunicationDisabledUntil,
	}, nil
}

func (c *DiscordgoClient) MemberHasPermission(
	ctx context.Context,
	userID, channelID string,
	permission int64,
) (bool, error) {
	perms, err := c.session.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false, wrapRESTError(fmt.Errorf("failed to fetch member permissions: %w", err))
	}
	return perms&permission == permission, nil
}

func (c *DiscordgoClient) UnbanUser(ctx context.Context, guildID, userID string) error {
	if err := c.session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx)); err != nil {
		return wrapRESTError(fmt.Errorf("failed to unban user: %w", err))
	}
	return nil
}

// LockChannel denies the send-messages permission for the guild's default
// role, which shares the guild's snowflake
func (c *DiscordgoClient) LockChannel(ctx context.Context, channelID, guildID string) error {
	err := c.session.ChannelPermissionSet(
		channelID, guildID, discordgo.PermissionOverwriteTypeRole,
		0, discordgo.PermissionSendMessages, discordgo.WithContext(ctx))
	if err != nil {
		return wrapRESTError(fmt.Errorf("failed to lock channel: %w", err))
	}
	return nil
}

// UnlockChannel drops the default-role overwrite again so the channel falls
// back to its normal permissions
func (c *DiscordgoClient) UnlockChannel(ctx context.Context, channelID, guildID string) error {
	if err := c.session.ChannelPermissionDelete(channelID, guildID, discordgo.WithContext(ctx)); err != nil {
		return wrapRESTError(fmt.Errorf("failed to unlock channel: %w", err))
	}
	return nil
}

// guildMember adapts a discordgo guild member to the clients.Member
// capability interface
type guildMember struct {
	session       *discordgo.Session
	guildID       string
	userID        string
	guildIDInt    int64
	userIDInt     int64
	timedOutUntil *time.Time
}

func (m *guildMember) UserID() int64 {
	return m.userIDInt
}

func (m *guildMember) GuildID() int64 {
	return m.guildIDInt
}

func (m *guildMember) Mention() string {
	return "<@" + m.userID + ">"
}

func (m *guildMember) Ban(ctx context.Context, reason string) error {
	err := m.session.GuildBanCreateWithReason(m.guildID, m.userID, reason, 0, discordgo.WithContext(ctx))
	if err != nil {
		return wrapRESTError(fmt.Errorf("failed to ban member: %w", err))
	}
	return nil
}

func (m *guildMember) Kick(ctx context.Context, reason string) error {
	err := m.session.GuildMemberDeleteWithReason(m.guildID, m.userID, reason, discordgo.WithContext(ctx))
	if err != nil {
		return wrapRESTError(fmt.Errorf("failed to kick member: %w", err))
	}
	return nil
}

func (m *guildMember) Timeout(ctx context.Context, until time.Time, reason string) error {
	// discordgo's timeout endpoint does not carry a reason; the audit trail we
	// keep in Postgres records it instead
	err := m.session.GuildMemberTimeout(m.guildID, m.userID, &until, discordgo.WithContext(ctx))
	if err != nil {
		return wrapRESTError(fmt.Errorf("failed to timeout member: %w", err))
	}
	return nil
}

func (m *guildMember) IsTimedOut(now time.Time) bool {
	return m.timedOutUntil != nil && m.timedOutUntil.After(now)
}

// wrapRESTError tags HTTP 403 responses with clients.ErrForbidden so callers
// can recover from permission refusals without string matching
func wrapRESTError(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil &&
		restErr.Response.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %v", clients.ErrForbidden, err)
	}
	return err
}
