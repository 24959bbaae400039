package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"gorm.io/gorm"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id uint, username string) *models.User {
	if id == 0 {
		id = 1
	}
	if username == "" {
		username = "testuser"
	}

	return &models.User{
		ID:          id,
		Username:    username,
		DisplayName: "Test User",
		AvatarURL:   "https://example.com/avatar.jpg",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// CreateTestContact creates a contact row owned by ownerID pointing at peerID
func (h *TestHelper) CreateTestContact(id, ownerID, peerID uint) *models.Contact {
	if id == 0 {
		id = 1
	}
	if ownerID == 0 {
		ownerID = 1
	}
	if peerID == 0 {
		peerID = 2
	}

	return &models.Contact{
		ID:      id,
		OwnerID: ownerID,
		PeerID:  peerID,
		Peer:    *h.CreateTestUser(peerID, fmt.Sprintf("peer%d", peerID)),
	}
}

// CreateTestChannel creates a channel with unlocked, notifications-on defaults
func (h *TestHelper) CreateTestChannel(id, contactID, personaID uint) *models.Channel {
	if id == 0 {
		id = 1
	}
	if contactID == 0 {
		contactID = 1
	}
	if personaID == 0 {
		personaID = 1
	}

	return &models.Channel{
		ID:                   id,
		ContactID:            contactID,
		PersonaID:            personaID,
		NotificationsEnabled: true,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
}

// CreateTestMessage creates a sent message with default values
func (h *TestHelper) CreateTestMessage(id, channelID, senderID uint, content string) *models.Message {
	if id == 0 {
		id = 1
	}
	if channelID == 0 {
		channelID = 1
	}
	if senderID == 0 {
		senderID = 1
	}
	if content == "" {
		content = "Test message"
	}

	return &models.Message{
		ID:        id,
		ClientID:  fmt.Sprintf("client-%d", id),
		ChannelID: channelID,
		SenderID:  senderID,
		Content:   content,
		Status:    models.StatusSent,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Sender: models.User{
			ID:       senderID,
			Username: "sender",
		},
	}
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}

// AssertNotNil checks if a value is not nil
func (h *TestHelper) AssertNotNil(value interface{}, testName string) {
	if value == nil {
		h.t.Errorf("%s: expected non-nil value", testName)
	}
}

// GetRecordNotFoundError returns an error that mimics gorm.ErrRecordNotFound
func GetRecordNotFoundError() error {
	return gorm.ErrRecordNotFound
}
