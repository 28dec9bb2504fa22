package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"kurumibot/core"
)

// PostgresWarningsRepository owns the warnings counter table. The increment is
// a single atomic upsert so concurrent warns for the same (user, guild) key
// never lose updates; that contract lives in the storage engine, not here.
type PostgresWarningsRepository struct {
	db     *sqlx.DB
	schema string
}

func NewPostgresWarningsRepository(db *sqlx.DB, schema string) *PostgresWarningsRepository {
	return &PostgresWarningsRepository{db: db, schema: schema}
}

// IncreaseWarning atomically increments the warning count for the key,
// creating it at 1 if absent. The returned value is capped at maxWarnings;
// the stored count is not, so the ban threshold can still use >=.
func (r *PostgresWarningsRepository) IncreaseWarning(
	ctx context.Context,
	userID, guildID int64,
	maxWarnings int,
) (int, error) {
	if r.db == nil {
		return 0, core.ErrStoreNotInitialized
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.warnings AS w (user_id, guild_id, count, created_at, updated_at)
		VALUES ($1, $2, 1, NOW(), NOW())
		ON CONFLICT (user_id, guild_id)
		DO UPDATE SET count = w.count + 1, updated_at = NOW()
		RETURNING LEAST(w.count, $3)`,
		r.schema)

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, guildID, maxWarnings); err != nil {
		return 0, fmt.Errorf("failed to increase warning count: %w", err)
	}

	return count, nil
}

// GetWarnings returns the current warning count for the key, 0 if absent
func (r *PostgresWarningsRepository) GetWarnings(ctx context.Context, userID, guildID int64) (int, error) {
	if r.db == nil {
		return 0, core.ErrStoreNotInitialized
	}

	query := fmt.Sprintf(`
		SELECT count FROM %s.warnings
		WHERE user_id = $1 AND guild_id = $2`,
		r.schema)

	var count int
	err := r.db.GetContext(ctx, &count, query, userID, guildID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get warning count: %w", err)
	}

	return count, nil
}

// ResetWarnings sets the warning count for the key back to 0
func (r *PostgresWarningsRepository) ResetWarnings(ctx context.Context, userID, guildID int64) error {
	if r.db == nil {
		return core.ErrStoreNotInitialized
	}

	query := fmt.Sprintf(`
		UPDATE %s.warnings
		SET count = 0, updated_at = NOW()
		WHERE user_id = $1 AND guild_id = $2`,
		r.schema)

	if _, err := r.db.ExecContext(ctx, query, userID, guildID); err != nil {
		return fmt.Errorf("failed to reset warning count: %w", err)
	}

	return nil
}
