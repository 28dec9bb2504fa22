package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// InitSchema creates the tables the bot owns if they do not exist yet.
// The warnings primary key doubles as the upsert conflict target.
func InitSchema(ctx context.Context, db *sqlx.DB, schema string) error {
	statements := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, schema),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.warnings (
				user_id BIGINT NOT NULL,
				guild_id BIGINT NOT NULL,
				count INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (user_id, guild_id)
			)`, schema),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.moderation_actions (
				id TEXT PRIMARY KEY,
				guild_id BIGINT NOT NULL,
				user_id BIGINT NOT NULL,
				action TEXT NOT NULL,
				reason TEXT NOT NULL DEFAULT '',
				warning_count INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, schema),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS moderation_actions_guild_created_idx
			ON %s.moderation_actions (guild_id, created_at DESC)`, schema),
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return nil
}
