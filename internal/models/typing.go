package models

import "time"

// TypingHorizon is how long a typing signal stays live after its last
// refresh. Enforced server-side at write time; the sending client
// self-limits to roughly 3 seconds of inactivity before clearing.
const TypingHorizon = 5 * time.Second

// TypingSignal is the ephemeral at-most-one row per (channel, user).
// Expiry is a logical deadline: a row whose expires_at has passed must be
// treated as absent by every consumer even if not yet physically deleted.
type TypingSignal struct {
	ChannelID uint      `gorm:"primaryKey" json:"channel_id"`
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

// Active reports whether the signal is still live at now.
func (t *TypingSignal) Active(now time.Time) bool {
	return t.ExpiresAt.After(now)
}

type TypingResponse struct {
	ChannelID uint      `json:"channel_id"`
	UserID    uint      `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t *TypingSignal) ToResponse() TypingResponse {
	return TypingResponse{ChannelID: t.ChannelID, UserID: t.UserID, ExpiresAt: t.ExpiresAt}
}
