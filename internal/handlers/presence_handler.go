package handlers

import (
	"github.com/Ajaykannagit/multi-persona-messenger/internal/handlers/ws"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/httpx"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/service"
	"github.com/gofiber/fiber/v2"
)

type PresenceHandler struct {
	presenceService *service.PresenceService
	broadcast       *ws.Broadcaster
}

func NewPresenceHandler(presenceService *service.PresenceService, broadcast *ws.Broadcaster) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService, broadcast: broadcast}
}

// Heartbeat is the REST fallback for clients without a live socket. It
// forces the online status and refreshes last_seen, same as the socket
// heartbeat.
func (h *PresenceHandler) Heartbeat(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	presence, err := h.presenceService.Heartbeat(userID)
	if err != nil {
		return httpx.FromError(c, err, "heartbeat_failed")
	}

	resp := h.presenceService.Response(presence)
	h.broadcast.PresenceChanged(resp)
	return c.JSON(fiber.Map{"presence": resp})
}

func (h *PresenceHandler) Visibility(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	var req struct {
		Visible bool `json:"visible"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	var presence *models.Presence
	if req.Visible {
		presence, err = h.presenceService.VisibilityGained(userID)
	} else {
		presence, err = h.presenceService.VisibilityLost(userID)
	}
	if err != nil {
		return httpx.FromError(c, err, "visibility_failed")
	}

	resp := h.presenceService.Response(presence)
	h.broadcast.PresenceChanged(resp)
	return c.JSON(fiber.Map{"presence": resp})
}

func (h *PresenceHandler) Teardown(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	presence, err := h.presenceService.Teardown(userID)
	if err != nil {
		return httpx.FromError(c, err, "teardown_failed")
	}

	resp := h.presenceService.Response(presence)
	h.broadcast.PresenceChanged(resp)
	return c.JSON(fiber.Map{"presence": resp})
}

// GetMany returns effective presence for a batch of users. Users with no
// row ever written come back as offline rather than missing.
func (h *PresenceHandler) GetMany(c *fiber.Ctx) error {
	if _, err := httpx.LocalUint(c, "userID"); err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	var req struct {
		UserIDs []uint `json:"user_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if len(req.UserIDs) == 0 {
		return httpx.BadRequest(c, "missing_user_ids", "user_ids is required")
	}

	presences, err := h.presenceService.GetMany(req.UserIDs)
	if err != nil {
		return httpx.FromError(c, err, "presence_lookup_failed")
	}

	return c.JSON(fiber.Map{"presences": presences})
}
