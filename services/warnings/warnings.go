package warnings

import (
	"context"
	"fmt"
	"log"

	"kurumibot/db"
)

type WarningsService struct {
	warningsRepo *db.PostgresWarningsRepository
	maxWarnings  int
}

func NewWarningsService(repo *db.PostgresWarningsRepository, maxWarnings int) *WarningsService {
	return &WarningsService{warningsRepo: repo, maxWarnings: maxWarnings}
}

func (s *WarningsService) IncreaseWarning(ctx context.Context, userID, guildID int64) (int, error) {
	log.Printf("📋 Starting to increase warning count for user: %d, guild: %d", userID, guildID)

	if userID <= 0 {
		return 0, fmt.Errorf("user_id must be positive")
	}
	if guildID <= 0 {
		return 0, fmt.Errorf("guild_id must be positive")
	}

	count, err := s.warningsRepo.IncreaseWarning(ctx, userID, guildID, s.maxWarnings)
	if err != nil {
		return 0, fmt.Errorf("failed to increase warning: %w", err)
	}

	log.Printf("📋 Completed successfully - user %d in guild %d now has %d/%d warnings",
		userID, guildID, count, s.maxWarnings)
	return count, nil
}

func (s *WarningsService) GetWarnings(ctx context.Context, userID, guildID int64) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("user_id must be positive")
	}
	if guildID <= 0 {
		return 0, fmt.Errorf("guild_id must be positive")
	}

	count, err := s.warningsRepo.GetWarnings(ctx, userID, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to get warnings: %w", err)
	}

	return count, nil
}

func (s *WarningsService) ResetWarnings(ctx context.Context, userID, guildID int64) error {
	log.Printf("📋 Starting to reset warnings for user: %d, guild: %d", userID, guildID)

	if userID <= 0 {
		return fmt.Errorf("user_id must be positive")
	}
	if guildID <= 0 {
		return fmt.Errorf("guild_id must be positive")
	}

	if err := s.warningsRepo.ResetWarnings(ctx, userID, guildID); err != nil {
		return fmt.Errorf("failed to reset warnings: %w", err)
	}

	log.Printf("📋 Completed successfully - reset warnings for user %d in guild %d", userID, guildID)
	return nil
}

func (s *WarningsService) MaxWarnings() int {
	return s.maxWarnings
}
