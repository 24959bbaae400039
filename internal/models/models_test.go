package models

import (
	"testing"
	"time"
)

func TestMessageStatusAdvance(t *testing.T) {
	tests := []struct {
		name string
		from MessageStatus
		to   MessageStatus
		want bool
	}{
		{"Sent to delivered", StatusSent, StatusDelivered, true},
		{"Sent to read", StatusSent, StatusRead, true},
		{"Delivered to read", StatusDelivered, StatusRead, true},
		{"Delivered to sent", StatusDelivered, StatusSent, false},
		{"Read to delivered", StatusRead, StatusDelivered, false},
		{"Read to read", StatusRead, StatusRead, false},
		{"Unknown to sent", MessageStatus("bogus"), StatusSent, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanAdvanceTo(tt.to); got != tt.want {
				t.Errorf("CanAdvanceTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestContactSides(t *testing.T) {
	c := Contact{ID: 1, OwnerID: 10, PeerID: 20}

	if !c.Participant(10) || !c.Participant(20) {
		t.Error("both sides should be participants")
	}
	if c.Participant(30) {
		t.Error("outsider should not be a participant")
	}
	if got := c.OtherSide(10); got != 20 {
		t.Errorf("OtherSide(10) = %d, want 20", got)
	}
	if got := c.OtherSide(20); got != 10 {
		t.Errorf("OtherSide(20) = %d, want 10", got)
	}
}

func TestPresenceEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	staleAfter := time.Minute

	tests := []struct {
		name     string
		status   PresenceStatus
		lastSeen time.Time
		want     PresenceStatus
	}{
		{"Fresh online", PresenceOnline, now.Add(-30 * time.Second), PresenceOnline},
		{"Fresh away", PresenceAway, now.Add(-30 * time.Second), PresenceAway},
		{"Online at the horizon", PresenceOnline, now.Add(-time.Minute), PresenceOnline},
		{"Stale online", PresenceOnline, now.Add(-61 * time.Second), PresenceOffline},
		{"Stale away", PresenceAway, now.Add(-2 * time.Minute), PresenceOffline},
		{"Offline stays offline", PresenceOffline, now, PresenceOffline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Presence{UserID: 1, Status: tt.status, LastSeen: tt.lastSeen}
			if got := p.EffectiveStatus(now, staleAfter); got != tt.want {
				t.Errorf("EffectiveStatus = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTypingSignalActive(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	sig := TypingSignal{ChannelID: 1, UserID: 1, ExpiresAt: now.Add(TypingHorizon)}

	if !sig.Active(now) {
		t.Error("fresh signal should be active")
	}
	if sig.Active(now.Add(TypingHorizon)) {
		t.Error("signal at its deadline should be inactive")
	}
}

func TestParsePersonaIcon(t *testing.T) {
	tests := []struct {
		in   string
		want PersonaIcon
	}{
		{"briefcase", IconBriefcase},
		{"moon", IconMoon},
		{"", IconChat},
		{"rocket", IconChat},
	}
	for _, tt := range tests {
		if got := ParsePersonaIcon(tt.in); got != tt.want {
			t.Errorf("ParsePersonaIcon(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMessageHasAttachment(t *testing.T) {
	m := Message{Content: "hi"}
	if m.HasAttachment() {
		t.Error("bare text message should not report an attachment")
	}
	m.AttachmentURL = "attachments/1/photo.jpg"
	if !m.HasAttachment() {
		t.Error("message with descriptor should report an attachment")
	}
}
