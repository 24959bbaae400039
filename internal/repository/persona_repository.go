package repository

import (
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"gorm.io/gorm"
)

type PersonaRepository struct {
	db *gorm.DB
}

func NewPersonaRepository(db *gorm.DB) *PersonaRepository {
	return &PersonaRepository{db: db}
}

func (r *PersonaRepository) FindByID(id uint) (*models.Persona, error) {
	var persona models.Persona
	err := r.db.First(&persona, id).Error
	if err != nil {
		return nil, err
	}
	return &persona, nil
}

func (r *PersonaRepository) List() ([]models.Persona, error) {
	var personas []models.Persona
	err := r.db.Order("id ASC").Find(&personas).Error
	return personas, err
}
