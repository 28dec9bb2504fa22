package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DiscordConfig struct {
	BotToken      string
	CommandPrefix string // Optional with default "k!"
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != ""
}

// AutomodConfig holds the punishment thresholds and spam-tracking knobs.
// Loaded once at process start; read-only thereafter.
type AutomodConfig struct {
	MaxWarnings           int
	TimeoutAtWarnings     int
	KickAtWarnings        int
	BanAtWarnings         int
	TimeoutOnThreshold    time.Duration
	SpamTrackMessageCount int
	SpamWindow            time.Duration
	MaxTrackedUsers       int
	MessageMaxAge         time.Duration
	DebounceTTL           time.Duration
	CleanupInterval       time.Duration
}

type AntiScamConfig struct {
	APIKey    string
	APIURL    string
	CacheSize int
	CacheTTL  time.Duration
}

// IsConfigured returns true if all required anti-scam configuration is present
func (c AntiScamConfig) IsConfigured() bool {
	return c.APIKey != ""
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	AlertWebhookURL    string
	ServerLogsURL      string

	DiscordConfig  DiscordConfig
	AutomodConfig  AutomodConfig
	AntiScamConfig AntiScamConfig

	// ProfanityWords extends the built-in word list (comma separated)
	ProfanityWords []string
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Core required configuration
	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	botToken, err := getEnvRequired("DISCORD_BOT_TOKEN")
	if err != nil {
		return nil, err
	}

	spamWindowSeconds := getEnvIntWithDefault("SPAM_WINDOW_SECONDS", 3)

	config := &AppConfig{
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		AlertWebhookURL:    os.Getenv("ALERT_WEBHOOK_URL"),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),

		DiscordConfig: DiscordConfig{
			BotToken:      botToken,
			CommandPrefix: getEnvWithDefault("BOT_PREFIX", "k!"),
		},

		AutomodConfig: AutomodConfig{
			MaxWarnings:           getEnvIntWithDefault("MAX_WARNINGS", 10),
			TimeoutAtWarnings:     getEnvIntWithDefault("TIMEOUT_AT_WARNINGS", 3),
			KickAtWarnings:        getEnvIntWithDefault("KICK_AT_WARNINGS", 5),
			BanAtWarnings:         getEnvIntWithDefault("BAN_AT_WARNINGS", 10),
			TimeoutOnThreshold:    time.Duration(getEnvIntWithDefault("TIMEOUT_SECONDS_ON_THRESHOLD", 60)) * time.Second,
			SpamTrackMessageCount: getEnvIntWithDefault("SPAM_TRACK_MESSAGE_COUNT", 5),
			SpamWindow:            time.Duration(spamWindowSeconds) * time.Second,
			MaxTrackedUsers:       getEnvIntWithDefault("MAX_TRACKED_USERS", 5000),
			MessageMaxAge:         time.Duration(getEnvIntWithDefault("AUTOMOD_MESSAGE_AGE_SECONDS", spamWindowSeconds*4)) * time.Second,
			DebounceTTL:           time.Duration(getEnvIntWithDefault("WARN_DEBOUNCE_SECONDS", 5)) * time.Second,
			CleanupInterval:       time.Duration(getEnvIntWithDefault("AUTOMOD_CLEANUP_INTERVAL_SECONDS", 300)) * time.Second,
		},

		// Anti-scam configuration (optional)
		AntiScamConfig: AntiScamConfig{
			APIKey:    os.Getenv("SAFE_BROWSING_API_KEY"),
			APIURL:    getEnvWithDefault("SAFE_BROWSING_URL", "https://safebrowsing.googleapis.com/v4/threatMatches:find"),
			CacheSize: getEnvIntWithDefault("SCAM_CACHE_MAX_SIZE", 1000),
			CacheTTL:  time.Duration(getEnvIntWithDefault("SCAM_CACHE_TTL_SECONDS", 3600)) * time.Second,
		},

		ProfanityWords: splitCommaList(os.Getenv("PROFANITY_WORDS")),
	}

	if config.AntiScamConfig.IsConfigured() {
		log.Printf("✅ Anti-scam link scanning configured")
	} else {
		log.Printf("⚠️ SAFE_BROWSING_API_KEY not set - link scanning will be disabled")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️ Invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func splitCommaList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
