package handlers

import (
	"github.com/Ajaykannagit/multi-persona-messenger/internal/handlers/ws"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/httpx"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/service"
	"github.com/gofiber/fiber/v2"
)

type TypingHandler struct {
	typingService *service.TypingService
	broadcast     *ws.Broadcaster
}

func NewTypingHandler(typingService *service.TypingService, broadcast *ws.Broadcaster) *TypingHandler {
	return &TypingHandler{typingService: typingService, broadcast: broadcast}
}

func (h *TypingHandler) Signal(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	channelID, err := c.ParamsInt("id")
	if err != nil || channelID <= 0 {
		return httpx.BadRequest(c, "invalid_channel_id", "Invalid channel ID")
	}

	signal, err := h.typingService.Signal(userID, uint(channelID))
	if err != nil {
		return httpx.FromError(c, err, "typing_signal_failed")
	}

	h.broadcast.TypingStarted(signal)
	return c.JSON(fiber.Map{"typing": signal.ToResponse()})
}

func (h *TypingHandler) Clear(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	channelID, err := c.ParamsInt("id")
	if err != nil || channelID <= 0 {
		return httpx.BadRequest(c, "invalid_channel_id", "Invalid channel ID")
	}

	existed, err := h.typingService.Clear(userID, uint(channelID))
	if err != nil {
		return httpx.FromError(c, err, "typing_clear_failed")
	}

	if existed {
		h.broadcast.TypingCleared(uint(channelID), userID)
	}
	return c.JSON(fiber.Map{"cleared": existed})
}
