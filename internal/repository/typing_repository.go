package repository

import (
	"time"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"gorm.io/gorm"
)

type TypingRepository struct {
	db *gorm.DB
}

func NewTypingRepository(db *gorm.DB) *TypingRepository {
	return &TypingRepository{db: db}
}

// Upsert keeps at most one live row per (channel, user); a fresh signal
// replaces the expiry in place rather than conflicting.
func (r *TypingRepository) Upsert(channelID, userID uint, expiresAt time.Time) error {
	return r.db.Exec(`
		INSERT INTO typing_signals (channel_id, user_id, created_at, expires_at)
		VALUES (?, ?, NOW(), ?)
		ON CONFLICT (channel_id, user_id) DO UPDATE
		SET expires_at = EXCLUDED.expires_at
	`, channelID, userID, expiresAt).Error
}

func (r *TypingRepository) Get(channelID, userID uint) (*models.TypingSignal, error) {
	var signal models.TypingSignal
	err := r.db.Where("channel_id = ? AND user_id = ?", channelID, userID).First(&signal).Error
	if err != nil {
		return nil, err
	}
	return &signal, nil
}

func (r *TypingRepository) Delete(channelID, userID uint) (bool, error) {
	res := r.db.Where("channel_id = ? AND user_id = ?", channelID, userID).
		Delete(&models.TypingSignal{})
	return res.RowsAffected > 0, res.Error
}

// DeleteAllForUser clears every typing row a user left behind; used on
// session teardown and abnormal disconnect.
func (r *TypingRepository) DeleteAllForUser(userID uint) (int64, error) {
	res := r.db.Where("user_id = ?", userID).Delete(&models.TypingSignal{})
	return res.RowsAffected, res.Error
}

// DeleteExpired is storage hygiene only: consumers already treat expired
// rows as absent, the sweep just keeps the table small.
func (r *TypingRepository) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&models.TypingSignal{})
	return res.RowsAffected, res.Error
}
