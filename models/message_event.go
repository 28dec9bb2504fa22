package models

import "time"

// MessageEvent is the platform-agnostic view of an inbound guild message.
// Author and guild IDs are parsed snowflakes; channel and message IDs stay in
// their wire format because they are only ever echoed back to the platform.
type MessageEvent struct {
	AuthorID    int64     `json:"author_id"`
	GuildID     int64     `json:"guild_id"`
	ChannelID   string    `json:"channel_id"`
	MessageID   string    `json:"message_id"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	AuthorIsBot bool      `json:"author_is_bot"`
}

// AutomodStats is the snapshot served by the status endpoint
type AutomodStats struct {
	TrackedUsers        int `json:"tracked_users"`
	LiveDebounceEntries int `json:"live_debounce_entries"`
}
