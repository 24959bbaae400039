package ws

import (
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/notify"
)

// Op is the change-feed operation kind.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change is the tagged variant carried by every feed event: Row is present
// for inserts and updates, ID identifies the deleted row otherwise. Each
// entity instantiates it with its own response type, so subscribers consume
// a strongly typed stream instead of a loose payload.
type Change[Row any] struct {
	Op  Op   `json:"op"`
	Row *Row `json:"row,omitempty"`
	ID  uint `json:"id,omitempty"`
}

func Inserted[Row any](row *Row) Change[Row] {
	return Change[Row]{Op: OpInsert, Row: row}
}

func Updated[Row any](row *Row) Change[Row] {
	return Change[Row]{Op: OpUpdate, Row: row}
}

func Deleted[Row any](id uint) Change[Row] {
	return Change[Row]{Op: OpDelete, ID: id}
}

// MessageEvent flows on the channel-scoped message stream.
type MessageEvent struct {
	Type      string `json:"type"`
	ChannelID uint   `json:"channel_id"`
	Change[models.MessageResponse]
}

func NewMessageEvent(channelID uint, change Change[models.MessageResponse]) MessageEvent {
	return MessageEvent{Type: "message_event", ChannelID: channelID, Change: change}
}

// ChannelEvent carries channel-row updates: unread bumps and resets,
// last_message_at advances, lock and notification toggles.
type ChannelEvent struct {
	Type string `json:"type"`
	Change[models.ChannelResponse]
}

func NewChannelEvent(change Change[models.ChannelResponse]) ChannelEvent {
	return ChannelEvent{Type: "channel_event", Change: change}
}

// TypingEvent flows on the channel-scoped typing stream. ChannelID and
// UserID are always set so DELETE events can clear without a row. An
// INSERT/UPDATE is only a hint: consumers must still check expires_at
// against their own clock before showing an indicator.
type TypingEvent struct {
	Type      string `json:"type"`
	ChannelID uint   `json:"channel_id"`
	UserID    uint   `json:"user_id"`
	Change[models.TypingResponse]
}

func NewTypingEvent(channelID, userID uint, change Change[models.TypingResponse]) TypingEvent {
	return TypingEvent{Type: "typing_event", ChannelID: channelID, UserID: userID, Change: change}
}

// PresenceEvent flows on the user-set-scoped presence stream. Presence
// rows are never deleted, so only insert/update appear.
type PresenceEvent struct {
	Type   string `json:"type"`
	UserID uint   `json:"user_id"`
	Change[models.PresenceResponse]
}

func NewPresenceEvent(userID uint, change Change[models.PresenceResponse]) PresenceEvent {
	return PresenceEvent{Type: "presence_event", UserID: userID, Change: change}
}

// NotificationEvent asks the client-side dispatcher to raise a local alert.
type NotificationEvent struct {
	Type string `json:"type"`
	notify.Notification
}

func NewNotificationEvent(n notify.Notification) NotificationEvent {
	return NotificationEvent{Type: "notification", Notification: n}
}
