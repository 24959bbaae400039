package models

import (
	"time"

	"gorm.io/gorm"
)

// PersonaIcon is a closed enumeration of icon identifiers a persona may
// carry. Unknown values stored by older clients resolve to IconChat so the
// data model stays decoupled from whatever icon set the UI ships.
type PersonaIcon string

const (
	IconChat         PersonaIcon = "chat"
	IconBriefcase    PersonaIcon = "briefcase"
	IconHeart        PersonaIcon = "heart"
	IconCoffee       PersonaIcon = "coffee"
	IconGamepad      PersonaIcon = "gamepad"
	IconGraduation   PersonaIcon = "graduation"
	IconMoon         PersonaIcon = "moon"
	IconMusicalNote  PersonaIcon = "musical_note"
	IconPaperPlane   PersonaIcon = "paper_plane"
	IconSparkles     PersonaIcon = "sparkles"
)

var personaIcons = map[PersonaIcon]struct{}{
	IconChat:        {},
	IconBriefcase:   {},
	IconHeart:       {},
	IconCoffee:      {},
	IconGamepad:     {},
	IconGraduation:  {},
	IconMoon:        {},
	IconMusicalNote: {},
	IconPaperPlane:  {},
	IconSparkles:    {},
}

// ParsePersonaIcon resolves a stored icon name, falling back to IconChat.
func ParsePersonaIcon(s string) PersonaIcon {
	if _, ok := personaIcons[PersonaIcon(s)]; ok {
		return PersonaIcon(s)
	}
	return IconChat
}

// Persona is a named conversational context (casual, professional, ...)
// independent of any single contact. Template management and theming are
// external; this backend only reads the catalog.
type Persona struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name  string `gorm:"not null" json:"name"`
	Icon  string `gorm:"type:varchar(32);default:'chat'" json:"icon"`
	Color string `gorm:"type:varchar(16)" json:"color"`
}

type PersonaResponse struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Icon  PersonaIcon `json:"icon"`
	Color string      `json:"color"`
}

func (p *Persona) ToResponse() PersonaResponse {
	return PersonaResponse{
		ID:    p.ID,
		Name:  p.Name,
		Icon:  ParsePersonaIcon(p.Icon),
		Color: p.Color,
	}
}
