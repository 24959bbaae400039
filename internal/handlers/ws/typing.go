package ws

// MessageTyping starts or stops the caller's typing signal in a channel.
// Active refreshes the row and its expiry; inactive deletes it, which is
// what the client sends when the input empties or a message goes out.
type MessageTyping struct {
	ChannelID uint `json:"channel_id"`
	Active    bool `json:"active"`
}

func (msg *MessageTyping) GetType() string {
	return "typing"
}

func (msg *MessageTyping) Process(ctx *MessageContext) error {
	if msg.Active {
		signal, err := ctx.Typing.Signal(ctx.UserID, msg.ChannelID)
		if err != nil {
			return err
		}
		ctx.Broadcast.TypingStarted(signal)
		return nil
	}

	existed, err := ctx.Typing.Clear(ctx.UserID, msg.ChannelID)
	if err != nil {
		return err
	}
	if existed {
		ctx.Broadcast.TypingCleared(msg.ChannelID, ctx.UserID)
	}
	return nil
}
