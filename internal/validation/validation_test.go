package validation

import (
	"os"
	"strings"
	"testing"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/apperr"
)

func TestTrimAndLimit(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		max      int
		expected string
	}{
		{"Plain text", "hello", 10, "hello"},
		{"Surrounding whitespace", "  hello  ", 10, "hello"},
		{"Over the limit", "hello world", 5, "hello"},
		{"Exactly at the limit", "hello", 5, "hello"},
		{"Zero max disables the cap", strings.Repeat("x", 100), 0, strings.Repeat("x", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TrimAndLimit(tt.in, tt.max)
			if result != tt.expected {
				t.Errorf("TrimAndLimit(%q, %d) = %q, want %q", tt.in, tt.max, result, tt.expected)
			}
		})
	}
}

func TestMaxMessageLength(t *testing.T) {
	os.Unsetenv("MAX_MESSAGE_LENGTH")
	if got := MaxMessageLength(); got != 4000 {
		t.Errorf("default = %d, want 4000", got)
	}

	os.Setenv("MAX_MESSAGE_LENGTH", "500")
	defer os.Unsetenv("MAX_MESSAGE_LENGTH")
	if got := MaxMessageLength(); got != 500 {
		t.Errorf("configured = %d, want 500", got)
	}

	os.Setenv("MAX_MESSAGE_LENGTH", "not-a-number")
	if got := MaxMessageLength(); got != 4000 {
		t.Errorf("invalid config = %d, want 4000", got)
	}
}

func TestValidateMessageBody(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		hasAttachment bool
		shouldErr     bool
	}{
		{"Text only", "hello", false, false},
		{"Text with attachment", "hello", true, false},
		{"Attachment only", "", true, false},
		{"Nothing at all", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessageBody(tt.content, tt.hasAttachment)
			if (err != nil) != tt.shouldErr {
				t.Errorf("ValidateMessageBody(%q, %v) err = %v, shouldErr %v", tt.content, tt.hasAttachment, err, tt.shouldErr)
			}
			if err != nil && apperr.KindOf(err) != apperr.Validation {
				t.Errorf("error kind = %v, want Validation", apperr.KindOf(err))
			}
		})
	}
}

func TestValidateAttachment(t *testing.T) {
	tests := []struct {
		name      string
		mime      string
		size      int64
		shouldErr bool
	}{
		{"JPEG", "image/jpeg", 1024, false},
		{"PNG", "image/png", 1024, false},
		{"WebP", "image/webp", 1024, false},
		{"GIF", "image/gif", 1024, false},
		{"PDF", "application/pdf", 1024, false},
		{"Executable", "application/x-msdownload", 1024, true},
		{"Empty type", "", 1024, true},
		{"Zero size", "image/png", 0, true},
		{"Over the cap", "image/png", MaxAttachmentBytes() + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttachment(tt.mime, tt.size)
			if (err != nil) != tt.shouldErr {
				t.Errorf("ValidateAttachment(%q, %d) err = %v, shouldErr %v", tt.mime, tt.size, err, tt.shouldErr)
			}
		})
	}
}
