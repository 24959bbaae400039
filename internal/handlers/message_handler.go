package handlers

import (
	"strconv"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/handlers/ws"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/httpx"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/service"
	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	messageService *service.MessageService
	typingService  *service.TypingService
	broadcast      *ws.Broadcaster
}

func NewMessageHandler(messageService *service.MessageService, typingService *service.TypingService, broadcast *ws.Broadcaster) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		typingService:  typingService,
		broadcast:      broadcast,
	}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	channelID, err := c.ParamsInt("id")
	if err != nil || channelID <= 0 {
		return httpx.BadRequest(c, "invalid_channel_id", "Invalid channel ID")
	}

	var input service.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	out, err := h.messageService.Send(userID, uint(channelID), input)
	if err != nil {
		return httpx.FromError(c, err, "message_send_failed")
	}

	if out.Created {
		// Sending supersedes any live typing signal from the sender.
		if existed, err := h.typingService.Clear(userID, uint(channelID)); err == nil && existed {
			h.broadcast.TypingCleared(uint(channelID), userID)
		}
		h.broadcast.MessageAppended(out)
	}

	status := fiber.StatusCreated
	if !out.Created {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(fiber.Map{"data": out.Message.ToResponse()})
}

// History pages backwards from a cursor message ID; cursor 0 means the
// newest page. Rows come back oldest first.
func (h *MessageHandler) History(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	channelID, err := c.ParamsInt("id")
	if err != nil || channelID <= 0 {
		return httpx.BadRequest(c, "invalid_channel_id", "Invalid channel ID")
	}

	var cursor uint
	if raw := c.Query("before"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return httpx.BadRequest(c, "invalid_cursor", "Invalid before cursor")
		}
		cursor = uint(parsed)
	}
	limit := c.QueryInt("limit", 50)

	messages, err := h.messageService.History(userID, uint(channelID), cursor, limit)
	if err != nil {
		return httpx.FromError(c, err, "message_history_failed")
	}

	responses := make([]models.MessageResponse, len(messages))
	for i := range messages {
		responses[i] = messages[i].ToResponse()
	}
	return c.JSON(fiber.Map{"messages": responses})
}

func (h *MessageHandler) MarkDelivered(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	messageID, err := c.ParamsInt("id")
	if err != nil || messageID <= 0 {
		return httpx.BadRequest(c, "invalid_message_id", "Invalid message ID")
	}

	msg, moved, err := h.messageService.MarkDelivered(userID, uint(messageID))
	if err != nil {
		return httpx.FromError(c, err, "message_deliver_failed")
	}

	if moved {
		h.broadcast.MessageDelivered(msg)
	}
	return c.JSON(fiber.Map{"data": msg.ToResponse()})
}

// MarkRead moves every inbound message in the channel to read and resets
// the unread counter in the same transaction.
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	channelID, err := c.ParamsInt("id")
	if err != nil || channelID <= 0 {
		return httpx.BadRequest(c, "invalid_channel_id", "Invalid channel ID")
	}

	messages, channel, err := h.messageService.MarkChannelRead(userID, uint(channelID))
	if err != nil {
		return httpx.FromError(c, err, "mark_read_failed")
	}

	if len(messages) > 0 {
		h.broadcast.MessagesRead(userID, messages, channel)
	}
	return c.JSON(fiber.Map{"read_count": len(messages), "channel": channel.ToResponse()})
}
