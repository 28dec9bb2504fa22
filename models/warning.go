package models

import "time"

// Warning is the persistent strike counter for a (user, guild) pair.
// Only the warnings repository mutates it.
type Warning struct {
	UserID    int64     `json:"user_id"    db:"user_id"`
	GuildID   int64     `json:"guild_id"   db:"guild_id"`
	Count     int       `json:"count"      db:"count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
