package models

import (
	"time"

	"gorm.io/gorm"
)

type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// rank orders statuses for monotonicity checks. Status only ever advances
// sent -> delivered -> read; transitions backwards are no-ops.
func (s MessageStatus) rank() int {
	switch s {
	case StatusSent:
		return 1
	case StatusDelivered:
		return 2
	case StatusRead:
		return 3
	default:
		return 0
	}
}

// CanAdvanceTo reports whether moving from s to next is a forward transition.
func (s MessageStatus) CanAdvanceTo(next MessageStatus) bool {
	return next.rank() > s.rank()
}

// Message belongs to exactly one channel. Content may be empty only when
// an attachment is present (the reference client writes GIF posts with an
// empty body); see validation.ValidateMessageBody.
type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// ClientID is a client-generated UUID used to deduplicate retried sends.
	ClientID string `gorm:"type:varchar(36);uniqueIndex:idx_client_sender;not null" json:"client_id"`

	ChannelID uint    `gorm:"not null;index" json:"channel_id"`
	Channel   Channel `gorm:"foreignKey:ChannelID" json:"-"`
	SenderID  uint    `gorm:"not null;uniqueIndex:idx_client_sender" json:"sender_id"`
	Sender    User    `gorm:"foreignKey:SenderID" json:"sender"`

	Content string `gorm:"type:text" json:"content"`

	Status      MessageStatus `gorm:"type:varchar(20);default:'sent';index" json:"status"`
	DeliveredAt *time.Time    `json:"delivered_at"`
	ReadAt      *time.Time    `json:"read_at"`

	// Attachment descriptor, consumed opaquely from the storage collaborator.
	AttachmentURL  string `json:"attachment_url,omitempty"`
	AttachmentType string `gorm:"type:varchar(64)" json:"attachment_type,omitempty"`
	AttachmentName string `json:"attachment_name,omitempty"`
	AttachmentSize int64  `json:"attachment_size,omitempty"`
}

// HasAttachment reports whether the message carries an attachment descriptor.
func (m *Message) HasAttachment() bool {
	return m.AttachmentURL != ""
}

type MessageResponse struct {
	ID             uint          `json:"id"`
	ClientID       string        `json:"client_id"`
	ChannelID      uint          `json:"channel_id"`
	SenderID       uint          `json:"sender_id"`
	Sender         UserResponse  `json:"sender"`
	Content        string        `json:"content"`
	Status         MessageStatus `json:"status"`
	DeliveredAt    *time.Time    `json:"delivered_at"`
	ReadAt         *time.Time    `json:"read_at"`
	AttachmentURL  string        `json:"attachment_url,omitempty"`
	AttachmentType string        `json:"attachment_type,omitempty"`
	AttachmentName string        `json:"attachment_name,omitempty"`
	AttachmentSize int64         `json:"attachment_size,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ClientID:       m.ClientID,
		ChannelID:      m.ChannelID,
		SenderID:       m.SenderID,
		Sender:         m.Sender.ToResponse(),
		Content:        m.Content,
		Status:         m.Status,
		DeliveredAt:    m.DeliveredAt,
		ReadAt:         m.ReadAt,
		AttachmentURL:  m.AttachmentURL,
		AttachmentType: m.AttachmentType,
		AttachmentName: m.AttachmentName,
		AttachmentSize: m.AttachmentSize,
		CreatedAt:      m.CreatedAt,
	}
}
