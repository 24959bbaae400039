package ws

import (
	"log"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/notify"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/service"
)

// Broadcaster turns store mutations into feed events. Both the REST
// handlers and the websocket message processors share one instance so the
// fan-out rules live in a single place.
type Broadcaster struct {
	hub       *Hub
	directory *service.DirectoryService
}

func NewBroadcaster(hub *Hub, directory *service.DirectoryService) *Broadcaster {
	return &Broadcaster{hub: hub, directory: directory}
}

func (b *Broadcaster) Hub() *Hub {
	return b.hub
}

// MessageAppended emits the insert event on the channel stream, the channel
// row update to both participants, and — for inbound messages — the local
// notification decision for the recipient.
func (b *Broadcaster) MessageAppended(out *service.SendOutcome) {
	if out == nil || !out.Created {
		return
	}
	msg := out.Message
	channel := out.Channel
	contact := out.Contact

	resp := msg.ToResponse()
	b.hub.PublishToChannel(channel.ID, 0, NewMessageEvent(channel.ID, Inserted(&resp)))

	chResp := channel.ToResponse()
	chEvent := NewChannelEvent(Updated(&chResp))
	_ = b.hub.SendToUser(contact.OwnerID, chEvent)
	_ = b.hub.SendToUser(contact.PeerID, chEvent)

	recipient := contact.OtherSide(msg.SenderID)
	b.maybeNotify(msg, channel, contact, recipient)
}

func (b *Broadcaster) maybeNotify(msg *models.Message, channel *models.Channel, contact *models.Contact, recipient uint) {
	senderName := msg.Sender.DisplayName
	if senderName == "" {
		senderName = msg.Sender.Username
	}
	personaName := ""
	if persona, err := b.directory.GetPersona(channel.PersonaID); err == nil {
		personaName = persona.Name
	}

	n := notify.Decide(notify.Input{
		SenderName:                  senderName,
		PersonaName:                 personaName,
		Content:                     msg.Content,
		Attachment:                  msg.HasAttachment(),
		ChannelNotificationsEnabled: channel.NotificationsEnabled,
		ChannelLocked:               channel.IsLocked,
		RecipientViewingChannel:     b.hub.IsViewing(recipient, channel.ID),
		ChannelID:                   channel.ID,
		ContactID:                   contact.ID,
		PersonaID:                   channel.PersonaID,
		MessageID:                   msg.ID,
	})
	if n == nil {
		return
	}
	if err := b.hub.SendToUser(recipient, NewNotificationEvent(*n)); err != nil {
		log.Printf("Notification delivery to user %d failed: %v", recipient, err)
	}
}

// MessageDelivered emits the status update on the channel stream.
func (b *Broadcaster) MessageDelivered(msg *models.Message) {
	resp := msg.ToResponse()
	b.hub.PublishToChannel(msg.ChannelID, 0, NewMessageEvent(msg.ChannelID, Updated(&resp)))
}

// MessagesRead emits one update per transitioned message on the channel
// stream, plus the zeroed channel row to the reader.
func (b *Broadcaster) MessagesRead(readerID uint, messages []models.Message, channel *models.Channel) {
	for i := range messages {
		resp := messages[i].ToResponse()
		b.hub.PublishToChannel(channel.ID, 0, NewMessageEvent(channel.ID, Updated(&resp)))
	}
	chResp := channel.ToResponse()
	_ = b.hub.SendToUser(readerID, NewChannelEvent(Updated(&chResp)))
}

// ChannelChanged emits a channel row update (lock/notification toggles) to
// both participants.
func (b *Broadcaster) ChannelChanged(channel *models.Channel, contact *models.Contact) {
	chResp := channel.ToResponse()
	event := NewChannelEvent(Updated(&chResp))
	_ = b.hub.SendToUser(contact.OwnerID, event)
	_ = b.hub.SendToUser(contact.PeerID, event)
}

// TypingStarted emits the upsert on the typing stream. The originator is
// excluded: a user must never see their own signal as "contact is typing".
func (b *Broadcaster) TypingStarted(signal *models.TypingSignal) {
	resp := signal.ToResponse()
	b.hub.PublishToChannel(signal.ChannelID, signal.UserID,
		NewTypingEvent(signal.ChannelID, signal.UserID, Updated(&resp)))
}

// TypingCleared emits the delete, which clears indicators unambiguously.
func (b *Broadcaster) TypingCleared(channelID, userID uint) {
	b.hub.PublishToChannel(channelID, userID,
		NewTypingEvent(channelID, userID, Deleted[models.TypingResponse](channelID)))
}

// PresenceChanged emits the latest presence row to every watcher.
func (b *Broadcaster) PresenceChanged(p models.PresenceResponse) {
	b.hub.PublishPresence(p.UserID, NewPresenceEvent(p.UserID, Updated(&p)))
}
