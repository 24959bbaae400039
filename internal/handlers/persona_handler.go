package handlers

import (
	"github.com/Ajaykannagit/multi-persona-messenger/internal/httpx"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/service"
	"github.com/gofiber/fiber/v2"
)

type PersonaHandler struct {
	directory *service.DirectoryService
}

func NewPersonaHandler(directory *service.DirectoryService) *PersonaHandler {
	return &PersonaHandler{directory: directory}
}

func (h *PersonaHandler) List(c *fiber.Ctx) error {
	if _, err := httpx.LocalUint(c, "userID"); err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	personas, err := h.directory.ListPersonas()
	if err != nil {
		return httpx.FromError(c, err, "persona_list_failed")
	}

	responses := make([]models.PersonaResponse, len(personas))
	for i := range personas {
		responses[i] = personas[i].ToResponse()
	}
	return c.JSON(fiber.Map{"personas": responses})
}

func (h *PersonaHandler) Get(c *fiber.Ctx) error {
	if _, err := httpx.LocalUint(c, "userID"); err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	personaID, err := c.ParamsInt("id")
	if err != nil || personaID <= 0 {
		return httpx.BadRequest(c, "invalid_persona_id", "Invalid persona ID")
	}

	persona, err := h.directory.GetPersona(uint(personaID))
	if err != nil {
		return httpx.FromError(c, err, "persona_lookup_failed")
	}
	return c.JSON(fiber.Map{"persona": persona.ToResponse()})
}

// ListContacts returns the caller's contact directory rows.
func (h *PersonaHandler) ListContacts(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}

	contacts, err := h.directory.ListContacts(userID)
	if err != nil {
		return httpx.FromError(c, err, "contact_list_failed")
	}

	responses := make([]models.ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = contacts[i].ToResponse()
	}
	return c.JSON(fiber.Map{"contacts": responses})
}
