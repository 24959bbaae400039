package models

import (
	"time"

	"gorm.io/gorm"
)

// Channel is the isolated message thread for one (contact, persona) pair.
// Exactly one row may exist per pair; first access creates it with
// defaults and concurrent creators converge on the winner's row.
type Channel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ContactID uint    `gorm:"not null;uniqueIndex:idx_channel_contact_persona" json:"contact_id"`
	Contact   Contact `gorm:"foreignKey:ContactID" json:"-"`
	PersonaID uint    `gorm:"not null;uniqueIndex:idx_channel_contact_persona" json:"persona_id"`
	Persona   Persona `gorm:"foreignKey:PersonaID" json:"-"`

	IsLocked             bool `gorm:"default:false" json:"is_locked"`
	NotificationsEnabled bool `gorm:"default:true" json:"notifications_enabled"`

	// UnreadCount tracks unread inbound messages for the contact's owner
	// side. Incremented only inside the message append transaction, reset
	// to zero when the owner views the channel.
	UnreadCount   int        `gorm:"not null;default:0" json:"unread_count"`
	LastMessageAt *time.Time `json:"last_message_at"`
}

type ChannelResponse struct {
	ID                   uint       `json:"id"`
	ContactID            uint       `json:"contact_id"`
	PersonaID            uint       `json:"persona_id"`
	IsLocked             bool       `json:"is_locked"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	UnreadCount          int        `json:"unread_count"`
	LastMessageAt        *time.Time `json:"last_message_at"`
	CreatedAt            time.Time  `json:"created_at"`
}

func (ch *Channel) ToResponse() ChannelResponse {
	return ChannelResponse{
		ID:                   ch.ID,
		ContactID:            ch.ContactID,
		PersonaID:            ch.PersonaID,
		IsLocked:             ch.IsLocked,
		NotificationsEnabled: ch.NotificationsEnabled,
		UnreadCount:          ch.UnreadCount,
		LastMessageAt:        ch.LastMessageAt,
		CreatedAt:            ch.CreatedAt,
	}
}
