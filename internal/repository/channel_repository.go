package repository

import (
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"gorm.io/gorm"
)

type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// ResolveOrCreate returns the unique channel for (contactID, personaID),
// creating it with defaults on first access. The insert is idempotent: a
// concurrent creator loses the ON CONFLICT race silently and both callers
// re-fetch the winner's row.
func (r *ChannelRepository) ResolveOrCreate(contactID, personaID uint) (*models.Channel, error) {
	err := r.db.Exec(`
		INSERT INTO channels (contact_id, persona_id, is_locked, notifications_enabled, unread_count, created_at, updated_at)
		VALUES (?, ?, false, true, 0, NOW(), NOW())
		ON CONFLICT (contact_id, persona_id) DO NOTHING
	`, contactID, personaID).Error
	if err != nil {
		return nil, err
	}

	var channel models.Channel
	err = r.db.Where("contact_id = ? AND persona_id = ?", contactID, personaID).First(&channel).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelRepository) FindByID(id uint) (*models.Channel, error) {
	var channel models.Channel
	err := r.db.First(&channel, id).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelRepository) ListByContact(contactID uint) ([]models.Channel, error) {
	var channels []models.Channel
	err := r.db.Where("contact_id = ?", contactID).
		Order("persona_id ASC").
		Find(&channels).Error
	return channels, err
}

func (r *ChannelRepository) SetLocked(id uint, locked bool) error {
	return r.db.Model(&models.Channel{}).Where("id = ?", id).
		Update("is_locked", locked).Error
}

func (r *ChannelRepository) SetNotificationsEnabled(id uint, enabled bool) error {
	return r.db.Model(&models.Channel{}).Where("id = ?", id).
		Update("notifications_enabled", enabled).Error
}

// ResetUnread zeroes the counter unconditionally, which keeps it idempotent
// under duplicate acknowledgments.
func (r *ChannelRepository) ResetUnread(id uint) error {
	return r.db.Model(&models.Channel{}).Where("id = ?", id).
		Update("unread_count", 0).Error
}

// SumUnreadByContact computes the derived per-contact aggregate on read;
// it is never stored independently.
func (r *ChannelRepository) SumUnreadByContact(contactID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.Channel{}).
		Where("contact_id = ?", contactID).
		Select("COALESCE(SUM(unread_count), 0)").
		Scan(&total).Error
	return total, err
}

// DeleteWithMessages is the explicit owner-only deletion path, cascading to
// the channel's messages and typing rows. Channels are never deleted implicitly.
func (r *ChannelRepository) DeleteWithMessages(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", id).Delete(&models.TypingSignal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("channel_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Channel{}, id).Error
	})
}
