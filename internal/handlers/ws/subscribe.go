package ws

// MessageSubscribe attaches the session to a channel's message and typing
// streams and marks the channel as the one being viewed.
type MessageSubscribe struct {
	ChannelID uint `json:"channel_id"`
}

func (msg *MessageSubscribe) GetType() string {
	return "subscribe"
}

func (msg *MessageSubscribe) Process(ctx *MessageContext) error {
	if _, _, err := ctx.Channels.AuthorizeChannel(ctx.UserID, msg.ChannelID); err != nil {
		return err
	}
	ctx.Client.SubscribeChannel(msg.ChannelID)
	return ctx.Client.WriteJSON(map[string]interface{}{
		"type":       "subscribed",
		"channel_id": msg.ChannelID,
	})
}

// MessageUnsubscribe detaches the session from a channel. Closing a view
// releases its resources: the subscription ends and the session's own
// typing signal in that channel is cleared.
type MessageUnsubscribe struct {
	ChannelID uint `json:"channel_id"`
}

func (msg *MessageUnsubscribe) GetType() string {
	return "unsubscribe"
}

func (msg *MessageUnsubscribe) Process(ctx *MessageContext) error {
	ctx.Client.UnsubscribeChannel(msg.ChannelID)
	if existed, err := ctx.Typing.Clear(ctx.UserID, msg.ChannelID); err == nil && existed {
		ctx.Broadcast.TypingCleared(msg.ChannelID, ctx.UserID)
	}
	return nil
}

// MessagePresenceSubscribe replaces the set of users whose presence events
// the session receives, answering with a hydration snapshot.
type MessagePresenceSubscribe struct {
	UserIDs []uint `json:"user_ids"`
}

func (msg *MessagePresenceSubscribe) GetType() string {
	return "presence_subscribe"
}

func (msg *MessagePresenceSubscribe) Process(ctx *MessageContext) error {
	ctx.Client.SetPresenceFilter(msg.UserIDs)

	snapshot, err := ctx.Presence.GetMany(msg.UserIDs)
	if err != nil {
		return err
	}
	return ctx.Client.WriteJSON(map[string]interface{}{
		"type":     "presence_snapshot",
		"presence": snapshot,
	})
}
