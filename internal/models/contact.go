package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact is one direction of a contact relationship: the owner's view of
// a peer. Channel unread counters track the owner side of the row, which
// makes "inbound" well-defined at write time without knowing who will read.
// Contact CRUD itself is handled by the directory service.
type Contact struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID uint `gorm:"not null;uniqueIndex:idx_contact_owner_peer" json:"owner_id"`
	PeerID  uint `gorm:"not null;uniqueIndex:idx_contact_owner_peer;index" json:"peer_id"`
	Peer    User `gorm:"foreignKey:PeerID" json:"peer"`

	Alias string `json:"alias"`
}

// Participant reports whether userID is one of the two sides of the relationship.
func (c *Contact) Participant(userID uint) bool {
	return c.OwnerID == userID || c.PeerID == userID
}

// OtherSide returns the participant that is not userID.
func (c *Contact) OtherSide(userID uint) uint {
	if c.OwnerID == userID {
		return c.PeerID
	}
	return c.OwnerID
}

type ContactResponse struct {
	ID      uint         `json:"id"`
	OwnerID uint         `json:"owner_id"`
	PeerID  uint         `json:"peer_id"`
	Peer    UserResponse `json:"peer"`
	Alias   string       `json:"alias"`
}

func (c *Contact) ToResponse() ContactResponse {
	return ContactResponse{
		ID:      c.ID,
		OwnerID: c.OwnerID,
		PeerID:  c.PeerID,
		Peer:    c.Peer.ToResponse(),
		Alias:   c.Alias,
	}
}
