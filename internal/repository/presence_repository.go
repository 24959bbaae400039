package repository

import (
	"time"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"gorm.io/gorm"
)

type PresenceRepository struct {
	db *gorm.DB
}

func NewPresenceRepository(db *gorm.DB) *PresenceRepository {
	return &PresenceRepository{db: db}
}

// Upsert writes the single presence row per user. last_seen is guarded
// with GREATEST so it never regresses, whatever order concurrent
// heartbeat/visibility/teardown writes commit in.
func (r *PresenceRepository) Upsert(userID uint, status models.PresenceStatus, seenAt time.Time) error {
	return r.db.Exec(`
		INSERT INTO presences (user_id, status, last_seen, updated_at)
		VALUES (?, ?, ?, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET status = EXCLUDED.status,
			last_seen = GREATEST(presences.last_seen, EXCLUDED.last_seen),
			updated_at = NOW()
	`, userID, status, seenAt).Error
}

func (r *PresenceRepository) Get(userID uint) (*models.Presence, error) {
	var presence models.Presence
	err := r.db.Where("user_id = ?", userID).First(&presence).Error
	if err != nil {
		return nil, err
	}
	return &presence, nil
}

func (r *PresenceRepository) GetMany(userIDs []uint) ([]models.Presence, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var presences []models.Presence
	err := r.db.Where("user_id IN ?", userIDs).Find(&presences).Error
	return presences, err
}
