package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"kurumibot/models"
)

type PostgresModerationActionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for moderation_actions table
var moderationActionsColumns = []string{
	"id",
	"guild_id",
	"user_id",
	"action",
	"reason",
	"warning_count",
	"created_at",
}

func NewPostgresModerationActionsRepository(db *sqlx.DB, schema string) *PostgresModerationActionsRepository {
	return &PostgresModerationActionsRepository{db: db, schema: schema}
}

func (r *PostgresModerationActionsRepository) CreateModerationAction(
	ctx context.Context,
	action *models.ModerationAction,
) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.moderation_actions (id, guild_id, user_id, action, reason, warning_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		r.schema)

	_, err := r.db.ExecContext(
		ctx,
		query,
		action.ID,
		action.GuildID,
		action.UserID,
		string(action.Action),
		action.Reason,
		action.WarningCount,
	)
	if err != nil {
		return fmt.Errorf("failed to create moderation action: %w", err)
	}

	return nil
}

func (r *PostgresModerationActionsRepository) GetModerationActionByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.ModerationAction], error) {
	columnsStr := strings.Join(moderationActionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.moderation_actions
		WHERE id = $1`,
		columnsStr, r.schema)

	var action models.ModerationAction
	err := r.db.GetContext(ctx, &action, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.ModerationAction](), nil
		}
		return mo.None[*models.ModerationAction](), fmt.Errorf("failed to get moderation action: %w", err)
	}

	return mo.Some(&action), nil
}

func (r *PostgresModerationActionsRepository) GetRecentModerationActions(
	ctx context.Context,
	guildID int64,
	limit int,
) ([]*models.ModerationAction, error) {
	columnsStr := strings.Join(moderationActionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.moderation_actions
		WHERE guild_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		columnsStr, r.schema)

	var actions []models.ModerationAction
	err := r.db.SelectContext(ctx, &actions, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get moderation actions: %w", err)
	}

	// Convert to slice of pointers
	result := make([]*models.ModerationAction, len(actions))
	for i := range actions {
		result[i] = &actions[i]
	}

	return result, nil
}
