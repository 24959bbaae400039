package service

import (
	"errors"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/apperr"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/repository"
	"gorm.io/gorm"
)

// DirectoryService is the thin read-side over the external directory data:
// users, contacts and the persona catalog. All writes happen elsewhere.
type DirectoryService struct {
	userRepo    repository.UserRepositoryInterface
	contactRepo repository.ContactRepositoryInterface
	personaRepo repository.PersonaRepositoryInterface
}

func NewDirectoryService(
	userRepo repository.UserRepositoryInterface,
	contactRepo repository.ContactRepositoryInterface,
	personaRepo repository.PersonaRepositoryInterface,
) *DirectoryService {
	return &DirectoryService{
		userRepo:    userRepo,
		contactRepo: contactRepo,
		personaRepo: personaRepo,
	}
}

func (s *DirectoryService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "user_not_found", "User not found", err)
		}
		return nil, apperr.Wrap(apperr.Transient, "user_lookup_failed", "User lookup failed", err)
	}
	return user, nil
}

func (s *DirectoryService) GetContact(id uint) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "contact_not_found", "Contact not found", err)
		}
		return nil, apperr.Wrap(apperr.Transient, "contact_lookup_failed", "Contact lookup failed", err)
	}
	return contact, nil
}

func (s *DirectoryService) ListContacts(ownerID uint) ([]models.Contact, error) {
	contacts, err := s.contactRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transient, "contact_list_failed", "Contact list failed", err)
	}
	return contacts, nil
}

func (s *DirectoryService) GetPersona(id uint) (*models.Persona, error) {
	persona, err := s.personaRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "persona_not_found", "Persona not found", err)
		}
		return nil, apperr.Wrap(apperr.Transient, "persona_lookup_failed", "Persona lookup failed", err)
	}
	return persona, nil
}

func (s *DirectoryService) ListPersonas() ([]models.Persona, error) {
	personas, err := s.personaRepo.List()
	if err != nil {
		return nil, apperr.Wrap(apperr.Transient, "persona_list_failed", "Persona list failed", err)
	}
	return personas, nil
}
