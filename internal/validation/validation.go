package validation

import (
	"os"
	"strconv"
	"strings"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/apperr"
)

func MaxMessageLength() int {
	maxStr := os.Getenv("MAX_MESSAGE_LENGTH")
	if maxStr == "" {
		return 4000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 4000
	}
	return max
}

func MaxAttachmentBytes() int64 {
	maxStr := os.Getenv("MAX_ATTACHMENT_BYTES")
	if maxStr == "" {
		return 10 * 1024 * 1024
	}
	max, err := strconv.ParseInt(maxStr, 10, 64)
	if err != nil || max < 1 {
		return 10 * 1024 * 1024
	}
	return max
}

func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// allowedAttachmentTypes lists the mime types an attachment descriptor may
// carry. Anything else is rejected before upload or message insert.
var allowedAttachmentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"image/gif":       {},
	"application/pdf": {},
}

func AllowedAttachmentType(mime string) bool {
	_, ok := allowedAttachmentTypes[strings.ToLower(strings.TrimSpace(mime))]
	return ok
}

// ValidateMessageBody rejects a message before any store mutation. An
// empty body is representable only when an attachment is present (the
// reference client writes attachment-only posts with no text).
func ValidateMessageBody(content string, hasAttachment bool) error {
	if content == "" && !hasAttachment {
		return apperr.New(apperr.Validation, "missing_content", "Content is required without an attachment")
	}
	return nil
}

// ValidateAttachment checks the descriptor fields supplied with a message
// or an upload.
func ValidateAttachment(mime string, size int64) error {
	if !AllowedAttachmentType(mime) {
		return apperr.New(apperr.Validation, "unsupported_attachment_type", "Attachment type is not allowed")
	}
	if size <= 0 || size > MaxAttachmentBytes() {
		return apperr.New(apperr.Validation, "attachment_too_large", "Attachment exceeds the size limit")
	}
	return nil
}
