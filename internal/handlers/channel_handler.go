package handlers

import (
	"github.com/Ajaykannagit/multi-persona-messenger/internal/handlers/ws"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/httpx"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/service"
	"github.com/gofiber/fiber/v2"
)

type ChannelHandler struct {
	channelService *service.ChannelService
	broadcast      *ws.Broadcaster
}

func NewChannelHandler(channelService *service.ChannelService, broadcast *ws.Broadcaster) *ChannelHandler {
	return &ChannelHandler{channelService: channelService, broadcast: broadcast}
}

// Resolve returns the channel for a (contact, persona) pair, creating it on
// first use. Calling it again with the same pair returns the same row.
func (h *ChannelHandler) Resolve(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	var req struct {
		ContactID uint `json:"contact_id"`
		PersonaID uint `json:"persona_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.ContactID == 0 || req.PersonaID == 0 {
		return httpx.BadRequest(c, "missing_fields", "contact_id and persona_id are required")
	}

	channel, err := h.channelService.Resolve(userID, req.ContactID, req.PersonaID)
	if err != nil {
		return httpx.FromError(c, err, "channel_resolve_failed")
	}

	return c.JSON(fiber.Map{"channel": channel.ToResponse()})
}

func (h *ChannelHandler) ListByContact(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	contactID, err := c.ParamsInt("contactId")
	if err != nil || contactID <= 0 {
		return httpx.BadRequest(c, "invalid_contact_id", "Invalid contact ID")
	}

	channels, err := h.channelService.ListByContact(userID, uint(contactID))
	if err != nil {
		return httpx.FromError(c, err, "channel_list_failed")
	}

	responses := make([]models.ChannelResponse, len(channels))
	for i := range channels {
		responses[i] = channels[i].ToResponse()
	}
	return c.JSON(fiber.Map{"channels": responses})
}

func (h *ChannelHandler) SetLocked(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	channelID, err := c.ParamsInt("id")
	if err != nil || channelID <= 0 {
		return httpx.BadRequest(c, "invalid_channel_id", "Invalid channel ID")
	}

	var req struct {
		Locked bool `json:"locked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	channel, err := h.channelService.SetLocked(userID, uint(channelID), req.Locked)
	if err != nil {
		return httpx.FromError(c, err, "channel_lock_failed")
	}

	h.broadcastChannel(userID, channel)
	return c.JSON(fiber.Map{"channel": channel.ToResponse()})
}

func (h *ChannelHandler) SetNotifications(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	channelID, err := c.ParamsInt("id")
	if err != nil || channelID <= 0 {
		return httpx.BadRequest(c, "invalid_channel_id", "Invalid channel ID")
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	channel, err := h.channelService.SetNotificationsEnabled(userID, uint(channelID), req.Enabled)
	if err != nil {
		return httpx.FromError(c, err, "channel_notifications_failed")
	}

	h.broadcastChannel(userID, channel)
	return c.JSON(fiber.Map{"channel": channel.ToResponse()})
}

// ContactUnread aggregates unread counts across every channel under a
// contact, for the contact list badge.
func (h *ChannelHandler) ContactUnread(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	contactID, err := c.ParamsInt("contactId")
	if err != nil || contactID <= 0 {
		return httpx.BadRequest(c, "invalid_contact_id", "Invalid contact ID")
	}

	total, err := h.channelService.ContactUnread(userID, uint(contactID))
	if err != nil {
		return httpx.FromError(c, err, "contact_unread_failed")
	}

	return c.JSON(fiber.Map{"contact_id": uint(contactID), "unread_count": total})
}

func (h *ChannelHandler) Delete(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	channelID, err := c.ParamsInt("id")
	if err != nil || channelID <= 0 {
		return httpx.BadRequest(c, "invalid_channel_id", "Invalid channel ID")
	}

	if err := h.channelService.Delete(userID, uint(channelID)); err != nil {
		return httpx.FromError(c, err, "channel_delete_failed")
	}

	return c.JSON(fiber.Map{"message": "Channel deleted"})
}

func (h *ChannelHandler) broadcastChannel(userID uint, channel *models.Channel) {
	_, contact, err := h.channelService.AuthorizeChannel(userID, channel.ID)
	if err != nil {
		return
	}
	h.broadcast.ChannelChanged(channel, contact)
}
