package antiscam

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"kurumibot/clients"
	"kurumibot/models"
)

var urlPattern = regexp.MustCompile(`https?://(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}(?::\d+)?(?:/[^\s]*)?`)

// AntiScamUseCase detects and removes messages carrying malicious links.
// Scan verdicts are cached in a TTL LRU to keep API quota and latency down.
// A failing threat API fails open: the message stays, the error is logged.
type AntiScamUseCase struct {
	scanner       ThreatScanner
	discordClient clients.DiscordClient
	// cache maps url -> safe (true means the URL came back clean)
	cache *expirable.LRU[string, bool]
}

func NewAntiScamUseCase(
	scanner ThreatScanner,
	discordClient clients.DiscordClient,
	cacheSize int,
	cacheTTL time.Duration,
) *AntiScamUseCase {
	return &AntiScamUseCase{
		scanner:       scanner,
		discordClient: discordClient,
		cache:         expirable.NewLRU[string, bool](cacheSize, nil, cacheTTL),
	}
}

// OnMessage scans any URLs in the message and removes it when a threat is
// confirmed. Returns whether the message was removed.
func (u *AntiScamUseCase) OnMessage(ctx context.Context, event *models.MessageEvent) (bool, error) {
	if event.AuthorIsBot || event.GuildID == 0 {
		return false, nil
	}

	foundURLs := urlPattern.FindAllString(event.Content, -1)
	if len(foundURLs) == 0 {
		return false, nil
	}

	var urlsToScan []string
	confirmedThreats := make(map[string]bool)

	for _, url := range foundURLs {
		safe, ok := u.cache.Get(url)
		switch {
		case ok && !safe:
			confirmedThreats[url] = true
		case !ok:
			urlsToScan = append(urlsToScan, url)
		}
	}

	if len(urlsToScan) > 0 {
		verdicts, err := u.scanner.CheckURLs(ctx, urlsToScan)
		if err != nil {
			return false, fmt.Errorf("failed to scan urls: %w", err)
		}
		for url, malicious := range verdicts {
			u.cache.Add(url, !malicious)
			if malicious {
				confirmedThreats[url] = true
			}
		}
	}

	if len(confirmedThreats) == 0 {
		return false, nil
	}

	log.Printf("🚨 Scam detected: user %d in guild %d posted %d malicious link(s)",
		event.AuthorID, event.GuildID, len(confirmedThreats))

	if err := u.discordClient.DeleteMessage(ctx, event.ChannelID, event.MessageID); err != nil {
		log.Printf("⚠️ Failed to delete scam message: %v", err)
	}

	notice := "🛡️ Your message contained malicious links and was removed."
	if err := u.discordClient.PostChannelMessage(ctx, event.ChannelID, notice); err != nil {
		log.Printf("⚠️ Failed to send scam notice: %v", err)
	}

	return true, nil
}

// CachedVerdicts returns the number of URL verdicts currently cached
func (u *AntiScamUseCase) CachedVerdicts() int {
	return u.cache.Len()
}
