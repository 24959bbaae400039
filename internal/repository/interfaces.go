package repository

import (
	"time"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
)

// ChannelRepositoryInterface defines the contract for channel repository operations
type ChannelRepositoryInterface interface {
	ResolveOrCreate(contactID, personaID uint) (*models.Channel, error)
	FindByID(id uint) (*models.Channel, error)
	ListByContact(contactID uint) ([]models.Channel, error)
	SetLocked(id uint, locked bool) error
	SetNotificationsEnabled(id uint, enabled bool) error
	ResetUnread(id uint) error
	SumUnreadByContact(contactID uint) (int64, error)
	DeleteWithMessages(id uint) error
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	CreateWithChannelUpdate(message *models.Message, inbound bool) error
	FindByID(id uint) (*models.Message, error)
	FindByClientID(clientID string, senderID uint) (*models.Message, error)
	FindManyByID(ids []uint) ([]models.Message, error)
	ListByChannel(channelID uint, cursor uint, limit int) ([]models.Message, error)
	MarkDelivered(messageID uint) (bool, error)
	MarkAllRead(channelID, readerID uint) ([]uint, error)
}

// PresenceRepositoryInterface defines the contract for presence repository operations
type PresenceRepositoryInterface interface {
	Upsert(userID uint, status models.PresenceStatus, seenAt time.Time) error
	Get(userID uint) (*models.Presence, error)
	GetMany(userIDs []uint) ([]models.Presence, error)
}

// TypingRepositoryInterface defines the contract for typing signal operations
type TypingRepositoryInterface interface {
	Upsert(channelID, userID uint, expiresAt time.Time) error
	Get(channelID, userID uint) (*models.TypingSignal, error)
	Delete(channelID, userID uint) (bool, error)
	DeleteAllForUser(userID uint) (int64, error)
	DeleteExpired(now time.Time) (int64, error)
}

// ContactRepositoryInterface defines the contract for contact directory lookups
type ContactRepositoryInterface interface {
	FindByID(id uint) (*models.Contact, error)
	ListByOwner(ownerID uint) ([]models.Contact, error)
}

// PersonaRepositoryInterface defines the contract for persona catalog lookups
type PersonaRepositoryInterface interface {
	FindByID(id uint) (*models.Persona, error)
	List() ([]models.Persona, error)
}

// UserRepositoryInterface defines the contract for directory user lookups
type UserRepositoryInterface interface {
	FindByID(id uint) (*models.User, error)
	FindManyByID(ids []uint) ([]models.User, error)
}
