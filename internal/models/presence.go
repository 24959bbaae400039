package models

import "time"

type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceAway    PresenceStatus = "away"
	PresenceOffline PresenceStatus = "offline"
)

// ValidPresenceStatus reports whether s is one of the three known states.
func ValidPresenceStatus(s PresenceStatus) bool {
	switch s {
	case PresenceOnline, PresenceAway, PresenceOffline:
		return true
	}
	return false
}

// Presence is the single last-known-state row per user. Created on first
// heartbeat, updated by heartbeats, visibility transitions and session
// teardown; never deleted.
type Presence struct {
	UserID    uint           `gorm:"primaryKey" json:"user_id"`
	Status    PresenceStatus `gorm:"type:varchar(16);not null" json:"status"`
	LastSeen  time.Time      `gorm:"not null" json:"last_seen"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// EffectiveStatus applies read-time staleness inference: a row claiming
// online or away whose last_seen is older than staleAfter is reported as
// offline. The store itself never demotes silent clients; consumers do.
func (p *Presence) EffectiveStatus(now time.Time, staleAfter time.Duration) PresenceStatus {
	if p.Status == PresenceOffline {
		return PresenceOffline
	}
	if now.Sub(p.LastSeen) > staleAfter {
		return PresenceOffline
	}
	return p.Status
}

type PresenceResponse struct {
	UserID   uint           `json:"user_id"`
	Status   PresenceStatus `json:"status"`
	LastSeen time.Time      `json:"last_seen"`
}

// ToResponse builds the wire shape with staleness inference applied.
func (p *Presence) ToResponse(now time.Time, staleAfter time.Duration) PresenceResponse {
	return PresenceResponse{
		UserID:   p.UserID,
		Status:   p.EffectiveStatus(now, staleAfter),
		LastSeen: p.LastSeen,
	}
}
