package repository

import (
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) FindByID(id uint) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.Preload("Peer").First(&contact, id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) ListByOwner(ownerID uint) ([]models.Contact, error) {
	var contacts []models.Contact
	err := r.db.Preload("Peer").
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&contacts).Error
	return contacts, err
}
