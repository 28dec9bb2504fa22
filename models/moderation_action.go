package models

import "time"

// ModerationActionType is the escalation selected by the enforcer for a warning count
type ModerationActionType string

const (
	ModerationActionNone    ModerationActionType = "none"
	ModerationActionTimeout ModerationActionType = "timeout"
	ModerationActionKick    ModerationActionType = "kick"
	ModerationActionBan     ModerationActionType = "ban"
)

// ModerationAction is one audit-trail entry for a punishment that actually fired
type ModerationAction struct {
	ID           string               `json:"id"            db:"id"`
	GuildID      int64                `json:"guild_id"      db:"guild_id"`
	UserID       int64                `json:"user_id"       db:"user_id"`
	Action       ModerationActionType `json:"action"        db:"action"`
	Reason       string               `json:"reason"        db:"reason"`
	WarningCount int                  `json:"warning_count" db:"warning_count"`
	CreatedAt    time.Time            `json:"created_at"    db:"created_at"`
}
