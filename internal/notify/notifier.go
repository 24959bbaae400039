package notify

import (
	"fmt"
	"unicode/utf8"
)

// BodyPreviewLimit bounds the content excerpt shown in a local notification.
const BodyPreviewLimit = 120

// Input is everything the dispatcher needs to decide whether the recipient
// should be alerted about a new inbound message.
type Input struct {
	SenderName  string
	PersonaName string
	Content     string
	Attachment  bool

	ChannelNotificationsEnabled bool
	ChannelLocked               bool

	// RecipientViewingChannel: the recipient has this channel in the
	// foreground right now, so the message is visible without an alert.
	RecipientViewingChannel bool

	ChannelID uint
	ContactID uint
	PersonaID uint
	MessageID uint
}

// Notification is the payload handed to the client-side dispatcher.
type Notification struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	ChannelID uint   `json:"channel_id"`
	ContactID uint   `json:"contact_id"`
	PersonaID uint   `json:"persona_id"`
	MessageID uint   `json:"message_id"`
}

// Decide returns the notification to emit, or nil when the alert should be
// suppressed: notifications toggled off, channel locked (privacy), or the
// recipient is already looking at the channel.
func Decide(in Input) *Notification {
	if !in.ChannelNotificationsEnabled || in.ChannelLocked || in.RecipientViewingChannel {
		return nil
	}

	body := Truncate(in.Content, BodyPreviewLimit)
	if body == "" && in.Attachment {
		body = "Sent an attachment"
	}

	return &Notification{
		Title:     fmt.Sprintf("%s · %s", in.SenderName, in.PersonaName),
		Body:      body,
		ChannelID: in.ChannelID,
		ContactID: in.ContactID,
		PersonaID: in.PersonaID,
		MessageID: in.MessageID,
	}
}

// Truncate cuts s to at most limit runes, appending an ellipsis when cut.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}
