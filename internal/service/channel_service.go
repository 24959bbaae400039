package service

import (
	"errors"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/apperr"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/cache"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/repository"
	"gorm.io/gorm"
)

type ChannelService struct {
	channelRepo  repository.ChannelRepositoryInterface
	contactRepo  repository.ContactRepositoryInterface
	personaRepo  repository.PersonaRepositoryInterface
	channelCache *cache.ChannelCache
}

func NewChannelService(
	channelRepo repository.ChannelRepositoryInterface,
	contactRepo repository.ContactRepositoryInterface,
	personaRepo repository.PersonaRepositoryInterface,
	channelCache *cache.ChannelCache,
) *ChannelService {
	return &ChannelService{
		channelRepo:  channelRepo,
		contactRepo:  contactRepo,
		personaRepo:  personaRepo,
		channelCache: channelCache,
	}
}

// authorizeContact loads the contact and verifies userID is a participant.
func (s *ChannelService) authorizeContact(userID, contactID uint) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "contact_not_found", "Contact not found", err)
		}
		return nil, apperr.Wrap(apperr.Transient, "contact_lookup_failed", "Contact lookup failed", err)
	}
	if !contact.Participant(userID) {
		return nil, apperr.New(apperr.Forbidden, "not_a_participant", "Caller is not part of this contact relationship")
	}
	return contact, nil
}

// AuthorizeChannel loads a channel and verifies userID may touch it.
func (s *ChannelService) AuthorizeChannel(userID, channelID uint) (*models.Channel, *models.Contact, error) {
	channel, err := s.channelRepo.FindByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.Wrap(apperr.NotFound, "channel_not_found", "Channel not found", err)
		}
		return nil, nil, apperr.Wrap(apperr.Transient, "channel_lookup_failed", "Channel lookup failed", err)
	}
	contact, err := s.authorizeContact(userID, channel.ContactID)
	if err != nil {
		return nil, nil, err
	}
	return channel, contact, nil
}

// Resolve maps (contact, persona) to its unique channel, creating it on
// first access. A concurrent creation race is absorbed inside the
// repository; both callers observe the same row.
func (s *ChannelService) Resolve(userID, contactID, personaID uint) (*models.Channel, error) {
	if _, err := s.authorizeContact(userID, contactID); err != nil {
		return nil, err
	}
	if _, err := s.personaRepo.FindByID(personaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "persona_not_found", "Persona not found", err)
		}
		return nil, apperr.Wrap(apperr.Transient, "persona_lookup_failed", "Persona lookup failed", err)
	}

	channel, err := s.channelRepo.ResolveOrCreate(contactID, personaID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transient, "channel_resolve_failed", "Channel resolution failed", err)
	}
	_ = s.channelCache.InvalidateContact(contactID)
	return channel, nil
}

// ListByContact returns all channels of the contact pair, cache-first.
func (s *ChannelService) ListByContact(userID, contactID uint) ([]models.Channel, error) {
	if _, err := s.authorizeContact(userID, contactID); err != nil {
		return nil, err
	}
	if cached, ok := s.channelCache.GetChannels(contactID); ok {
		return cached, nil
	}
	channels, err := s.channelRepo.ListByContact(contactID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transient, "channel_list_failed", "Channel list failed", err)
	}
	if len(channels) > 0 {
		_ = s.channelCache.SetChannels(contactID, channels)
	}
	return channels, nil
}

// SetLocked flips the privacy lock. Last write wins; the flag is a
// user-preference toggle, not guarded state.
func (s *ChannelService) SetLocked(userID, channelID uint, locked bool) (*models.Channel, error) {
	channel, _, err := s.AuthorizeChannel(userID, channelID)
	if err != nil {
		return nil, err
	}
	if err := s.channelRepo.SetLocked(channelID, locked); err != nil {
		return nil, apperr.Wrap(apperr.Transient, "channel_update_failed", "Channel update failed", err)
	}
	channel.IsLocked = locked
	_ = s.channelCache.InvalidateContact(channel.ContactID)
	return channel, nil
}

// SetNotificationsEnabled flips the per-channel notification setting.
func (s *ChannelService) SetNotificationsEnabled(userID, channelID uint, enabled bool) (*models.Channel, error) {
	channel, _, err := s.AuthorizeChannel(userID, channelID)
	if err != nil {
		return nil, err
	}
	if err := s.channelRepo.SetNotificationsEnabled(channelID, enabled); err != nil {
		return nil, apperr.Wrap(apperr.Transient, "channel_update_failed", "Channel update failed", err)
	}
	channel.NotificationsEnabled = enabled
	_ = s.channelCache.InvalidateContact(channel.ContactID)
	return channel, nil
}

// ContactUnread computes the derived total across all of the contact's
// channels on read; it is never stored.
func (s *ChannelService) ContactUnread(userID, contactID uint) (int64, error) {
	if _, err := s.authorizeContact(userID, contactID); err != nil {
		return 0, err
	}
	total, err := s.channelRepo.SumUnreadByContact(contactID)
	if err != nil {
		return 0, apperr.Wrap(apperr.Transient, "unread_sum_failed", "Unread aggregation failed", err)
	}
	return total, nil
}

// Delete is the explicit owner-only channel deletion, cascading to messages.
func (s *ChannelService) Delete(userID, channelID uint) error {
	channel, contact, err := s.AuthorizeChannel(userID, channelID)
	if err != nil {
		return err
	}
	if contact.OwnerID != userID {
		return apperr.New(apperr.Forbidden, "owner_only", "Only the owner side may delete a channel")
	}
	if err := s.channelRepo.DeleteWithMessages(channelID); err != nil {
		return apperr.Wrap(apperr.Transient, "channel_delete_failed", "Channel deletion failed", err)
	}
	_ = s.channelCache.InvalidateContact(channel.ContactID)
	_ = s.channelCache.InvalidateHistory(channelID)
	return nil
}
