package ws

// MessageDelivered is the recipient-side delivery acknowledgment for one
// message. A no-op past delivered; status never regresses.
type MessageDelivered struct {
	MessageID uint `json:"message_id"`
}

func (msg *MessageDelivered) GetType() string {
	return "delivered"
}

func (msg *MessageDelivered) Process(ctx *MessageContext) error {
	message, moved, err := ctx.Messages.MarkDelivered(ctx.UserID, msg.MessageID)
	if err != nil {
		return err
	}
	if moved {
		ctx.Broadcast.MessageDelivered(message)
	}
	return nil
}

// MessageMarkRead is the batch view acknowledgment: flips every inbound
// unread message in the channel to read and zeroes the unread counter.
type MessageMarkRead struct {
	ChannelID uint `json:"channel_id"`
}

func (msg *MessageMarkRead) GetType() string {
	return "mark_read"
}

func (msg *MessageMarkRead) Process(ctx *MessageContext) error {
	messages, channel, err := ctx.Messages.MarkChannelRead(ctx.UserID, msg.ChannelID)
	if err != nil {
		return err
	}
	ctx.Broadcast.MessagesRead(ctx.UserID, messages, channel)
	return nil
}
