package handlers

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"kurumibot/automod/profanity"
	"kurumibot/clients"
	"kurumibot/middleware"
	"kurumibot/models"
	"kurumibot/usecases/antiscam"
	"kurumibot/usecases/moderation"
)

var userMentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)

type DiscordEventsHandler struct {
	discordSDKClient  *discordgo.Session
	discordClient     clients.DiscordClient
	moderationUseCase *moderation.ModerationUseCase
	antiScamUseCase   *antiscam.AntiScamUseCase // nil when scanning is not configured
	profanityMatcher  *profanity.Matcher
	alertMiddleware   *middleware.ErrorAlertMiddleware
	commandPrefix     string
}

func NewDiscordEventsHandler(
	session *discordgo.Session,
	discordClient clients.DiscordClient,
	moderationUseCase *moderation.ModerationUseCase,
	antiScamUseCase *antiscam.AntiScamUseCase,
	profanityMatcher *profanity.Matcher,
	alertMiddleware *middleware.ErrorAlertMiddleware,
	commandPrefix string,
) *DiscordEventsHandler {
	handler := &DiscordEventsHandler{
		discordSDKClient:  session,
		discordClient:     discordClient,
		moderationUseCase: moderationUseCase,
		antiScamUseCase:   antiScamUseCase,
		profanityMatcher:  profanityMatcher,
		alertMiddleware:   alertMiddleware,
		commandPrefix:     commandPrefix,
	}

	session.AddHandler(handler.handleMessageCreatedEvent)

	// Message content is required for spam fingerprints, command parsing and
	// the profanity/link filters
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return handler
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Printf("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot gracefully closes the Discord connection
func (h *DiscordEventsHandler) StopBot() {
	h.discordSDKClient.Close()
}

func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer h.alertMiddleware.RecoverAndAlert("Discord message handler")

	if m.Author == nil {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	// Direct messages are not a moderatable context
	if m.GuildID == "" {
		return
	}

	ctx := context.Background()

	if strings.HasPrefix(m.Content, h.commandPrefix) {
		// Other bots cannot drive moderator commands
		if m.Author.Bot {
			return
		}
		h.handleCommand(ctx, m)
		return
	}

	event, err := h.buildMessageEvent(m)
	if err != nil {
		log.Printf("⚠️ Skipping unparseable message event: %v", err)
		return
	}

	if !m.Author.Bot && h.profanityMatcher.ContainsProfanity(m.Content) {
		h.removeOffendingMessage(ctx, m, "🤐 Watch your language! That message was removed.")
		return
	}

	if h.antiScamUseCase != nil {
		removed, err := h.antiScamUseCase.OnMessage(ctx, event)
		if err != nil {
			log.Printf("❌ Link scan failed, message left in place: %v", err)
			h.alertMiddleware.ReportError(err, "Discord message handler: link scan")
		} else if removed {
			return
		}
	}

	member, err := h.discordClient.ResolveMember(ctx, m.GuildID, m.Author.ID)
	if err != nil {
		if !m.Author.Bot {
			log.Printf("⚠️ Could not resolve member %s in guild %s: %v", m.Author.ID, m.GuildID, err)
		}
		return
	}

	// A store failure lands here: log, alert, and take no moderation action
	// for this message
	if err := h.moderationUseCase.OnMessage(ctx, event, member); err != nil {
		log.Printf("❌ Automod failed for user %s in guild %s, no action taken: %v",
			m.Author.ID, m.GuildID, err)
		h.alertMiddleware.ReportError(err, "Discord message handler: automod")
	}
}

func (h *DiscordEventsHandler) buildMessageEvent(m *discordgo.MessageCreate) (*models.MessageEvent, error) {
	authorID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q: %w", m.Author.ID, err)
	}
	guildID, err := strconv.ParseInt(m.GuildID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid guild id %q: %w", m.GuildID, err)
	}

	return &models.MessageEvent{
		AuthorID:    authorID,
		GuildID:     guildID,
		ChannelID:   m.ChannelID,
		MessageID:   m.ID,
		Content:     m.Content,
		Timestamp:   m.Timestamp,
		AuthorIsBot: m.Author.Bot,
	}, nil
}

func (h *DiscordEventsHandler) removeOffendingMessage(ctx context.Context, m *discordgo.MessageCreate, notice string) {
	if err := h.discordClient.DeleteMessage(ctx, m.ChannelID, m.ID); err != nil {
		log.Printf("⚠️ Failed to delete offending message: %v", err)
	}
	if err := h.discordClient.PostChannelMessage(ctx, m.ChannelID, fmt.Sprintf("%s %s", m.Author.Mention(), notice)); err != nil {
		log.Printf("⚠️ Failed to send removal notice: %v", err)
	}
}

// ParseUserMention extracts the user ID from a <@123> or <@!123> mention
func ParseUserMention(arg string) (string, bool) {
	match := userMentionPattern.FindStringSubmatch(arg)
	if match == nil {
		return "", false
	}
	return match[1], true
}
