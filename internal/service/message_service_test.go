package service

import (
	"strings"
	"testing"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/apperr"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/validation"
)

// newMessageFixture builds a message service over mocks with one resolved
// channel (contact owner 1, peer 2, persona 1).
func newMessageFixture(t *testing.T) (*MessageService, *MockMessageRepository, *MockChannelRepository, *models.Channel) {
	t.Helper()
	channels, channelRepo, _, _ := newChannelFixture()
	messageRepo := NewMockMessageRepository(channelRepo)
	svc := NewMessageService(messageRepo, channelRepo, channels, nil)

	ch, err := channels.Resolve(1, 1, 1)
	if err != nil {
		t.Fatalf("resolve fixture channel: %v", err)
	}
	return svc, messageRepo, channelRepo, ch
}

func TestSendMessage(t *testing.T) {
	tests := []struct {
		name      string
		senderID  uint
		input     SendMessageInput
		shouldErr bool
		wantKind  apperr.Kind
		checkFn   func(*models.Message) bool
	}{
		{
			name:     "Send text message",
			senderID: 1,
			input:    SendMessageInput{Content: "Hello, world!"},
			checkFn: func(m *models.Message) bool {
				return m.Content == "Hello, world!" && m.Status == models.StatusSent
			},
		},
		{
			name:     "Attachment with empty content",
			senderID: 1,
			input: SendMessageInput{
				AttachmentURL:  "attachments/1/cat.gif",
				AttachmentType: "image/gif",
				AttachmentName: "cat.gif",
				AttachmentSize: 1024,
			},
			checkFn: func(m *models.Message) bool {
				return m.Content == "" && m.HasAttachment()
			},
		},
		{
			name:      "Empty content without attachment",
			senderID:  1,
			input:     SendMessageInput{Content: "   "},
			shouldErr: true,
			wantKind:  apperr.Validation,
		},
		{
			name:     "Oversized content is trimmed",
			senderID: 1,
			input:    SendMessageInput{Content: strings.Repeat("x", validation.MaxMessageLength()+500)},
			checkFn: func(m *models.Message) bool {
				return len(m.Content) == validation.MaxMessageLength()
			},
		},
		{
			name:      "Disallowed attachment type",
			senderID:  1,
			input:     SendMessageInput{AttachmentURL: "attachments/1/x.exe", AttachmentType: "application/x-msdownload", AttachmentSize: 10},
			shouldErr: true,
			wantKind:  apperr.Validation,
		},
		{
			name:      "Outsider sender",
			senderID:  3,
			input:     SendMessageInput{Content: "hi"},
			shouldErr: true,
			wantKind:  apperr.Forbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, ch := newMessageFixture(t)
			out, err := svc.Send(tt.senderID, ch.ID, tt.input)
			if tt.shouldErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				if kind := apperr.KindOf(err); kind != tt.wantKind {
					t.Errorf("got kind %v, want %v", kind, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !out.Created {
				t.Error("fresh send should report Created")
			}
			if tt.checkFn != nil && !tt.checkFn(out.Message) {
				t.Errorf("message check failed: %+v", out.Message)
			}
		})
	}
}

func TestSendMessageUnreadDirection(t *testing.T) {
	svc, _, channelRepo, ch := newMessageFixture(t)

	// Outbound: the owner side writes, the counter must not move.
	if _, err := svc.Send(1, ch.ID, SendMessageInput{Content: "from owner"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := channelRepo.channels[ch.ID].UnreadCount; got != 0 {
		t.Errorf("outbound send moved unread to %d, want 0", got)
	}

	// Inbound: the peer writes, the counter increments.
	out, err := svc.Send(2, ch.ID, SendMessageInput{Content: "from peer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Inbound {
		t.Error("peer send should be inbound")
	}
	if got := channelRepo.channels[ch.ID].UnreadCount; got != 1 {
		t.Errorf("inbound send moved unread to %d, want 1", got)
	}
	if channelRepo.channels[ch.ID].LastMessageAt == nil {
		t.Error("send should set last_message_at")
	}
}

func TestSendMessageDedup(t *testing.T) {
	svc, _, channelRepo, ch := newMessageFixture(t)

	input := SendMessageInput{ClientID: "11111111-2222-3333-4444-555555555555", Content: "once"}
	first, err := svc.Send(2, ch.ID, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Send(2, ch.ID, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.Created {
		t.Error("retried client_id should not report Created")
	}
	if second.Message.ID != first.Message.ID {
		t.Errorf("retry returned message %d, want %d", second.Message.ID, first.Message.ID)
	}
	if got := channelRepo.channels[ch.ID].UnreadCount; got != 1 {
		t.Errorf("retry moved unread to %d, want 1", got)
	}
}

func TestSendMessageClientIDCrossChannel(t *testing.T) {
	svc, _, _, ch := newMessageFixture(t)
	other, err := svc.channels.Resolve(1, 1, 2)
	if err != nil {
		t.Fatalf("resolve second channel: %v", err)
	}

	input := SendMessageInput{ClientID: "66666666-7777-8888-9999-000000000000", Content: "once"}
	if _, err := svc.Send(1, ch.ID, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The same client_id aimed at a different channel is not a retry and
	// must not hand back the other channel's message.
	if _, err := svc.Send(1, other.ID, input); apperr.KindOf(err) != apperr.Conflict {
		t.Errorf("cross-channel client_id reuse: got kind %v, want Conflict", apperr.KindOf(err))
	}
}

func TestUnreadResetOwnerOnly(t *testing.T) {
	svc, _, channelRepo, ch := newMessageFixture(t)

	for i := 0; i < 3; i++ {
		if _, err := svc.Send(2, ch.ID, SendMessageInput{Content: "inbound"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := svc.Send(1, ch.ID, SendMessageInput{Content: "reply"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The peer viewing the channel reads the owner's reply but must not
	// touch the counter, which tracks the owner's inbound backlog.
	messages, channel, err := svc.MarkChannelRead(2, ch.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 1 {
		t.Errorf("peer read transitioned %d messages, want 1", len(messages))
	}
	if len(messages) == 1 && messages[0].Status != models.StatusRead {
		t.Errorf("owner's reply status = %s, want read", messages[0].Status)
	}
	if channel.UnreadCount != 3 {
		t.Errorf("unread reported after peer view = %d, want 3", channel.UnreadCount)
	}
	if got := channelRepo.channels[ch.ID].UnreadCount; got != 3 {
		t.Errorf("unread stored after peer view = %d, want 3", got)
	}

	// Only the owner's view resets it.
	if _, channel, err = svc.MarkChannelRead(1, ch.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if channel.UnreadCount != 0 {
		t.Errorf("unread after owner view = %d, want 0", channel.UnreadCount)
	}
	if got := channelRepo.channels[ch.ID].UnreadCount; got != 0 {
		t.Errorf("unread stored after owner view = %d, want 0", got)
	}
}

func TestUnreadAccumulateAndReset(t *testing.T) {
	svc, _, channelRepo, ch := newMessageFixture(t)

	for i := 0; i < 5; i++ {
		if _, err := svc.Send(2, ch.ID, SendMessageInput{Content: "ping"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := channelRepo.channels[ch.ID].UnreadCount; got != 5 {
		t.Errorf("unread after 5 inbound sends = %d, want 5", got)
	}

	messages, channel, err := svc.MarkChannelRead(1, ch.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 5 {
		t.Errorf("read batch transitioned %d messages, want 5", len(messages))
	}
	if channel.UnreadCount != 0 {
		t.Errorf("unread after read = %d, want 0", channel.UnreadCount)
	}
	for _, m := range messages {
		if m.Status != models.StatusRead {
			t.Errorf("message %d status = %s, want read", m.ID, m.Status)
		}
		if m.DeliveredAt == nil || m.ReadAt == nil {
			t.Errorf("message %d missing delivered_at/read_at after read", m.ID)
		}
	}

	// Re-reading an already-viewed channel is a no-op.
	again, channel, err := svc.MarkChannelRead(1, ch.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("duplicate read transitioned %d messages, want 0", len(again))
	}
	if channel.UnreadCount != 0 {
		t.Errorf("unread after duplicate read = %d, want 0", channel.UnreadCount)
	}
}

func TestMarkDelivered(t *testing.T) {
	svc, _, _, ch := newMessageFixture(t)

	out, err := svc.Send(1, ch.ID, SendMessageInput{Content: "delivered?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msgID := out.Message.ID

	// Sender cannot acknowledge its own message.
	if _, _, err := svc.MarkDelivered(1, msgID); apperr.KindOf(err) != apperr.Forbidden {
		t.Errorf("sender ack: got kind %v, want Forbidden", apperr.KindOf(err))
	}

	msg, moved, err := svc.MarkDelivered(2, msgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !moved {
		t.Error("first acknowledgment should move the status")
	}
	if msg.Status != models.StatusDelivered || msg.DeliveredAt == nil {
		t.Errorf("message after ack: status=%s delivered_at=%v", msg.Status, msg.DeliveredAt)
	}

	// Duplicate acknowledgment is a no-op, not an error.
	msg, moved, err = svc.MarkDelivered(2, msgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved {
		t.Error("duplicate acknowledgment should not move the status")
	}

	// A read message never regresses to delivered.
	if _, _, err := svc.MarkChannelRead(2, ch.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg, moved, err = svc.MarkDelivered(2, msgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved {
		t.Error("acknowledging a read message should be a no-op")
	}

	if _, _, err := svc.MarkDelivered(2, 999); apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("unknown message: got kind %v, want NotFound", apperr.KindOf(err))
	}
}

func TestHistoryPagination(t *testing.T) {
	svc, _, _, ch := newMessageFixture(t)

	for _, content := range []string{"one", "two", "three", "four", "five"} {
		if _, err := svc.Send(1, ch.ID, SendMessageInput{Content: content}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page, err := svc.History(2, ch.ID, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("first page has %d messages, want 2", len(page))
	}
	if page[0].Content != "four" || page[1].Content != "five" {
		t.Errorf("first page = [%s, %s], want [four, five]", page[0].Content, page[1].Content)
	}

	older, err := svc.History(2, ch.ID, page[0].ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(older) != 2 {
		t.Fatalf("second page has %d messages, want 2", len(older))
	}
	if older[0].Content != "two" || older[1].Content != "three" {
		t.Errorf("second page = [%s, %s], want [two, three]", older[0].Content, older[1].Content)
	}

	if _, err := svc.History(3, ch.ID, 0, 10); apperr.KindOf(err) != apperr.Forbidden {
		t.Errorf("outsider history: got kind %v, want Forbidden", apperr.KindOf(err))
	}
}
