package ws

import "github.com/Ajaykannagit/multi-persona-messenger/internal/models"

// MessageHeartbeat is the fixed-interval client ping while the view is
// foreground. Forces online and refreshes last_seen.
type MessageHeartbeat struct {
}

func (msg *MessageHeartbeat) GetType() string {
	return "heartbeat"
}

func (msg *MessageHeartbeat) Process(ctx *MessageContext) error {
	presence, err := ctx.Presence.Heartbeat(ctx.UserID)
	if err != nil {
		return err
	}
	ctx.Broadcast.PresenceChanged(ctx.Presence.Response(presence))
	return nil
}

// MessageVisibility reports foreground/background transitions of the view.
// Losing visibility forces away; regaining it forces online.
type MessageVisibility struct {
	Visible bool `json:"visible"`
}

func (msg *MessageVisibility) GetType() string {
	return "visibility"
}

func (msg *MessageVisibility) Process(ctx *MessageContext) error {
	ctx.Client.SetVisibility(msg.Visible)

	var presence *models.Presence
	var err error
	if msg.Visible {
		presence, err = ctx.Presence.VisibilityGained(ctx.UserID)
	} else {
		presence, err = ctx.Presence.VisibilityLost(ctx.UserID)
	}
	if err != nil {
		return err
	}
	ctx.Broadcast.PresenceChanged(ctx.Presence.Response(presence))
	return nil
}
