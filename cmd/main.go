package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"kurumibot/automod/debounce"
	"kurumibot/automod/profanity"
	"kurumibot/automod/spamdetector"
	discordclient "kurumibot/clients/discord"
	"kurumibot/config"
	"kurumibot/db"
	"kurumibot/handlers"
	"kurumibot/middleware"
	"kurumibot/services/modactions"
	"kurumibot/services/warnings"
	"kurumibot/usecases/antiscam"
	"kurumibot/usecases/moderation"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.AlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "kurumibot",
		LogsURL:     cfg.ServerLogsURL,
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.InitSchema(context.Background(), dbConn, cfg.DatabaseSchema); err != nil {
		return err
	}

	// Initialize repositories with shared connection
	warningsRepo := db.NewPostgresWarningsRepository(dbConn, cfg.DatabaseSchema)
	modActionsRepo := db.NewPostgresModerationActionsRepository(dbConn, cfg.DatabaseSchema)

	warningsService := warnings.NewWarningsService(warningsRepo, cfg.AutomodConfig.MaxWarnings)
	modActionsService := modactions.NewModerationActionsService(modActionsRepo)

	// In-memory automod state
	detector, err := spamdetector.NewDetector(
		cfg.AutomodConfig.SpamTrackMessageCount,
		cfg.AutomodConfig.SpamWindow,
		cfg.AutomodConfig.MaxTrackedUsers,
		cfg.AutomodConfig.MessageMaxAge,
	)
	if err != nil {
		return err
	}
	debounceRegistry := debounce.NewRegistry(cfg.AutomodConfig.DebounceTTL)

	// Create the Discord session shared by the outbound client and the
	// events handler
	session, err := discordgo.New("Bot " + cfg.DiscordConfig.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	discordClient := discordclient.NewDiscordgoClient(session)

	moderationUseCase := moderation.NewModerationUseCase(
		detector,
		debounceRegistry,
		warningsService,
		modActionsService,
		discordClient,
		cfg.AutomodConfig,
	)

	var antiScamUseCase *antiscam.AntiScamUseCase
	if cfg.AntiScamConfig.IsConfigured() {
		scanner := antiscam.NewSafeBrowsingScanner(cfg.AntiScamConfig.APIURL, cfg.AntiScamConfig.APIKey)
		antiScamUseCase = antiscam.NewAntiScamUseCase(
			scanner,
			discordClient,
			cfg.AntiScamConfig.CacheSize,
			cfg.AntiScamConfig.CacheTTL,
		)
	}

	profanityMatcher := profanity.NewMatcher(cfg.ProfanityWords)

	eventsHandler := handlers.NewDiscordEventsHandler(
		session,
		discordClient,
		moderationUseCase,
		antiScamUseCase,
		profanityMatcher,
		alertMiddleware,
		cfg.DiscordConfig.CommandPrefix,
	)

	if err := eventsHandler.StartBot(); err != nil {
		return err
	}
	defer eventsHandler.StopBot()

	// Status HTTP surface
	statusHandler := handlers.NewStatusHandler(moderationUseCase)
	router := mux.NewRouter()
	statusHandler.SetupEndpoints(router)

	// Start the periodic janitor that trims spam history and debounce state
	cleanupTicker := time.NewTicker(cfg.AutomodConfig.CleanupInterval)
	cleanupDone := make(chan struct{})
	go func() {
		for {
			select {
			case <-cleanupTicker.C:
				_ = alertMiddleware.WrapBackgroundTask("CleanupStaleEntries", func() error {
					return moderationUseCase.CleanupStaleEntries(context.Background())
				})()
			case <-cleanupDone:
				return
			}
		}
	}()
	defer func() {
		cleanupTicker.Stop()
		close(cleanupDone)
		moderationUseCase.Shutdown()
	}()

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
