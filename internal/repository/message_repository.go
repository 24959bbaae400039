package repository

import (
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// CreateWithChannelUpdate appends a message and applies its channel side
// effects in one transaction: last_message_at advances monotonically (a
// late out-of-order write never moves it backward) and unread_count is
// incremented iff the message is inbound to the channel's owner side. The
// increment is unreachable outside a real message insert.
func (r *MessageRepository) CreateWithChannelUpdate(message *models.Message, inbound bool) error {
	increment := 0
	if inbound {
		increment = 1
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Exec(`
			UPDATE channels
			SET last_message_at = GREATEST(COALESCE(last_message_at, to_timestamp(0)), ?),
				unread_count = unread_count + ?,
				updated_at = NOW()
			WHERE id = ?
		`, message.CreatedAt, increment, message.ChannelID).Error
	})
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").
		Where("client_id = ? AND sender_id = ?", clientID, senderID).
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) FindManyByID(ids []uint) ([]models.Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// ListByChannel returns one ascending page of channel history. A non-zero
// cursor fetches messages older than that id; ties on created_at break on
// the insertion sequence so read order always matches insert order.
func (r *MessageRepository) ListByChannel(channelID uint, cursor uint, limit int) ([]models.Message, error) {
	q := r.db.Preload("Sender").Where("channel_id = ?", channelID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}

	var messages []models.Message
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse to get chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// MarkDelivered transitions sent -> delivered and stamps delivered_at once.
// The guard makes a call against an already-delivered or read message a
// no-op rather than a regression; the bool reports whether a row moved.
func (r *MessageRepository) MarkDelivered(messageID uint) (bool, error) {
	res := r.db.Model(&models.Message{}).
		Where("id = ? AND status = ?", messageID, models.StatusSent).
		Updates(map[string]interface{}{
			"status":       models.StatusDelivered,
			"delivered_at": gorm.Expr("NOW()"),
		})
	return res.RowsAffected > 0, res.Error
}

// MarkAllRead transitions every not-yet-read message in the channel whose
// sender is not the reader into read, stamping read_at once. Returns the
// affected message ids so the feed can emit update events. Idempotent.
func (r *MessageRepository) MarkAllRead(channelID, readerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Message{}).
			Where("channel_id = ? AND sender_id <> ? AND status <> ?", channelID, readerID, models.StatusRead).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&models.Message{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":       models.StatusRead,
				"delivered_at": gorm.Expr("COALESCE(delivered_at, NOW())"),
				"read_at":      gorm.Expr("NOW()"),
			}).Error
	})
	return ids, err
}
