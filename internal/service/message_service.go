package service

import (
	"errors"
	"time"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/apperr"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/cache"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/repository"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageService struct {
	messageRepo  repository.MessageRepositoryInterface
	channelRepo  repository.ChannelRepositoryInterface
	channels     *ChannelService
	channelCache *cache.ChannelCache
}

func NewMessageService(
	messageRepo repository.MessageRepositoryInterface,
	channelRepo repository.ChannelRepositoryInterface,
	channels *ChannelService,
	channelCache *cache.ChannelCache,
) *MessageService {
	return &MessageService{
		messageRepo:  messageRepo,
		channelRepo:  channelRepo,
		channels:     channels,
		channelCache: channelCache,
	}
}

type SendMessageInput struct {
	ClientID       string `json:"client_id"`
	Content        string `json:"content"`
	AttachmentURL  string `json:"attachment_url"`
	AttachmentType string `json:"attachment_type"`
	AttachmentName string `json:"attachment_name"`
	AttachmentSize int64  `json:"attachment_size"`
}

// SendOutcome carries everything the feed fan-out needs after an append.
type SendOutcome struct {
	Message *models.Message
	Channel *models.Channel
	Contact *models.Contact
	Inbound bool
	// Created is false when the client_id deduplicated against an
	// earlier append; nothing changed and nothing should be broadcast.
	Created bool
}

// Send appends a message to a channel. Validation runs before any store
// mutation; the insert, the monotonic last_message_at advance and the
// conditional unread increment commit in one transaction. Re-sending the
// same client_id returns the already-stored row instead of a duplicate.
func (s *MessageService) Send(senderID, channelID uint, input SendMessageInput) (*SendOutcome, error) {
	channel, contact, err := s.channels.AuthorizeChannel(senderID, channelID)
	if err != nil {
		return nil, err
	}

	input.Content = validation.TrimAndLimit(input.Content, validation.MaxMessageLength())
	hasAttachment := input.AttachmentURL != ""
	if err := validation.ValidateMessageBody(input.Content, hasAttachment); err != nil {
		return nil, err
	}
	if hasAttachment {
		if err := validation.ValidateAttachment(input.AttachmentType, input.AttachmentSize); err != nil {
			return nil, err
		}
	}

	if input.ClientID == "" {
		input.ClientID = uuid.NewString()
	} else if existing, err := s.messageRepo.FindByClientID(input.ClientID, senderID); err == nil {
		// Dedup only applies to a retry of the same append. The same
		// client_id aimed at a different channel is a client bug, and the
		// (client_id, sender_id) unique index would reject the insert.
		if existing.ChannelID != channelID {
			return nil, apperr.New(apperr.Conflict, "client_id_reused", "client_id was already used in another channel")
		}
		return &SendOutcome{Message: existing, Channel: channel, Contact: contact}, nil
	}

	message := &models.Message{
		ClientID:       input.ClientID,
		ChannelID:      channelID,
		SenderID:       senderID,
		Content:        input.Content,
		Status:         models.StatusSent,
		AttachmentURL:  input.AttachmentURL,
		AttachmentType: input.AttachmentType,
		AttachmentName: input.AttachmentName,
		AttachmentSize: input.AttachmentSize,
		CreatedAt:      time.Now().UTC(),
	}

	// Inbound means the sender is not the channel's owning side, so the
	// owner's unread counter must move.
	inbound := senderID != contact.OwnerID

	if err := s.messageRepo.CreateWithChannelUpdate(message, inbound); err != nil {
		return nil, apperr.Wrap(apperr.Transient, "send_message_failed", "Message append failed", err)
	}

	// Mirror the transactional channel update on the in-memory row.
	if inbound {
		channel.UnreadCount++
	}
	if channel.LastMessageAt == nil || message.CreatedAt.After(*channel.LastMessageAt) {
		t := message.CreatedAt
		channel.LastMessageAt = &t
	}

	_ = s.channelCache.InvalidateHistory(channelID)
	_ = s.channelCache.InvalidateContact(channel.ContactID)

	if stored, err := s.messageRepo.FindByID(message.ID); err == nil {
		message = stored
	}
	return &SendOutcome{
		Message: message,
		Channel: channel,
		Contact: contact,
		Inbound: inbound,
		Created: true,
	}, nil
}

// History returns one ascending page of channel messages. The first page
// is served cache-first.
func (s *MessageService) History(userID, channelID uint, cursor uint, limit int) ([]models.Message, error) {
	if _, _, err := s.channels.AuthorizeChannel(userID, channelID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	if cursor == 0 {
		if cached, ok := s.channelCache.GetHistory(channelID); ok {
			if len(cached) > limit {
				cached = cached[len(cached)-limit:]
			}
			return cached, nil
		}
	}

	messages, err := s.messageRepo.ListByChannel(channelID, cursor, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transient, "fetch_messages_failed", "History fetch failed", err)
	}
	if cursor == 0 && len(messages) > 0 {
		_ = s.channelCache.SetHistory(channelID, messages)
	}
	return messages, nil
}

// MarkDelivered advances sent -> delivered. Calling it on a message already
// delivered or read is a no-op, never a regression.
func (s *MessageService) MarkDelivered(userID, messageID uint) (*models.Message, bool, error) {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperr.Wrap(apperr.NotFound, "message_not_found", "Message not found", err)
		}
		return nil, false, apperr.Wrap(apperr.Transient, "message_lookup_failed", "Message lookup failed", err)
	}
	if _, _, err := s.channels.AuthorizeChannel(userID, message.ChannelID); err != nil {
		return nil, false, err
	}
	// Only the recipient acknowledges delivery.
	if message.SenderID == userID {
		return nil, false, apperr.New(apperr.Forbidden, "not_recipient", "Only the recipient may acknowledge delivery")
	}

	moved, err := s.messageRepo.MarkDelivered(messageID)
	if err != nil {
		return nil, false, apperr.Wrap(apperr.Transient, "mark_delivered_failed", "Delivery acknowledgment failed", err)
	}
	if moved {
		_ = s.channelCache.InvalidateHistory(message.ChannelID)
		message, err = s.messageRepo.FindByID(messageID)
		if err != nil {
			return nil, true, apperr.Wrap(apperr.Transient, "message_lookup_failed", "Message lookup failed", err)
		}
	}
	return message, moved, nil
}

// MarkChannelRead is the recipient-side view acknowledgment: every inbound
// not-yet-read message flips to read in one batch, and when the reader is
// the contact owner the channel's unread counter resets to zero. Both
// halves are idempotent, so duplicate calls are safe. Returns the
// transitioned rows for feed fan-out.
func (s *MessageService) MarkChannelRead(readerID, channelID uint) ([]models.Message, *models.Channel, error) {
	channel, contact, err := s.channels.AuthorizeChannel(readerID, channelID)
	if err != nil {
		return nil, nil, err
	}

	ids, err := s.messageRepo.MarkAllRead(channelID, readerID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Transient, "mark_read_failed", "Read acknowledgment failed", err)
	}
	// The counter tracks the owner's inbound backlog, so only the owner's
	// view resets it. The peer reading replies still flips statuses above.
	if readerID == contact.OwnerID {
		if err := s.channelRepo.ResetUnread(channelID); err != nil {
			return nil, nil, apperr.Wrap(apperr.Transient, "unread_reset_failed", "Unread reset failed", err)
		}
		channel.UnreadCount = 0
	}

	_ = s.channelCache.InvalidateHistory(channelID)
	_ = s.channelCache.InvalidateContact(channel.ContactID)

	messages, err := s.messageRepo.FindManyByID(ids)
	if err != nil {
		return nil, channel, apperr.Wrap(apperr.Transient, "message_lookup_failed", "Message lookup failed", err)
	}
	return messages, channel, nil
}

// Get loads a single message with access control for feed fan-out helpers.
func (s *MessageService) Get(userID, messageID uint) (*models.Message, error) {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "message_not_found", "Message not found", err)
		}
		return nil, apperr.Wrap(apperr.Transient, "message_lookup_failed", "Message lookup failed", err)
	}
	if _, _, err := s.channels.AuthorizeChannel(userID, message.ChannelID); err != nil {
		return nil, err
	}
	return message, nil
}
