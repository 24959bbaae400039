package handlers

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/httpx"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/storage"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const attachmentPrefix = "attachments"

type AttachmentHandler struct {
	s3 *storage.S3Storage
}

func NewAttachmentHandler(s3 *storage.S3Storage) *AttachmentHandler {
	return &AttachmentHandler{s3: s3}
}

func normalizeETag(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "W/")
	v = strings.Trim(v, "\"")
	return v
}

// Upload stores an attachment blob and returns the descriptor fields the
// client echoes back on the send call. Images are sniffed and decoded
// before they are accepted; PDFs only get a size and type check.
func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}
	if h.s3 == nil {
		return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_not_configured", "Storage not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return httpx.BadRequest(c, "missing_file", "file is required")
	}
	if fileHeader.Size > validation.MaxAttachmentBytes() {
		return httpx.BadRequest(c, "attachment_too_large", "Attachment is too large")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return httpx.BadRequest(c, "invalid_file", "Invalid file upload")
	}
	defer f.Close()

	declared := fileHeader.Header.Get("Content-Type")

	var (
		body        io.Reader
		size        int64
		contentType string
	)
	if declared == "application/pdf" {
		if err := validation.ValidateAttachment(declared, fileHeader.Size); err != nil {
			return httpx.FromError(c, err, "attachment_rejected")
		}
		body = f
		size = fileHeader.Size
		contentType = declared
	} else {
		raw, info, err := storage.ValidateImage(f, validation.MaxAttachmentBytes())
		if err != nil {
			if errors.Is(err, storage.ErrTooLarge) {
				return httpx.BadRequest(c, "attachment_too_large", "Attachment is too large")
			}
			if errors.Is(err, storage.ErrUnsupported) {
				return httpx.BadRequest(c, "attachment_unsupported", "Unsupported attachment type")
			}
			return httpx.BadRequest(c, "attachment_invalid", "Invalid image")
		}
		if err := validation.ValidateAttachment(info.ContentType, int64(len(raw))); err != nil {
			return httpx.FromError(c, err, "attachment_rejected")
		}
		body = bytes.NewReader(raw)
		size = int64(len(raw))
		contentType = info.ContentType
	}

	key := fmt.Sprintf("%s/%d/%s%s", attachmentPrefix, userID, uuid.NewString(), path.Ext(fileHeader.Filename))
	st, err := h.s3.PutObject(c.Context(), key, body, size, contentType)
	if err != nil {
		log.Printf("[attachment] upload error user_id=%d key=%q err=%v", userID, key, err)
		return httpx.Internal(c, "attachment_upload_failed")
	}

	log.Printf("[attachment] upload ok user_id=%d key=%q size=%d etag=%q", userID, key, size, st.ETag)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attachment": fiber.Map{
			"url":  key,
			"type": contentType,
			"name": fileHeader.Filename,
			"size": size,
		},
	})
}

// Download streams an attachment back out, with ETag revalidation.
func (h *AttachmentHandler) Download(c *fiber.Ctx) error {
	if _, err := httpx.LocalUint(c, "userID"); err != nil {
		return httpx.Unauthorized(c, "unauthorized", "User not authenticated")
	}
	if h.s3 == nil {
		return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_not_configured", "Storage not configured")
	}

	keyParam := strings.TrimSpace(c.Params("*"))
	key, err := storage.SafeJoinObjectPath(attachmentPrefix, keyParam)
	if err != nil {
		return httpx.NotFound(c, "not_found", "Not found")
	}

	obj, st, err := h.s3.GetObject(c.Context(), key)
	if err != nil {
		log.Printf("[attachment] get error key=%q err=%v", key, err)
		// Hide details.
		var resp minio.ErrorResponse
		if errors.As(err, &resp) {
			if resp.StatusCode == 404 || resp.Code == "NoSuchKey" || resp.Code == "NoSuchObject" {
				return httpx.NotFound(c, "not_found", "Not found")
			}
		}
		return httpx.Internal(c, "attachment_fetch_failed")
	}

	etag := st.ETag
	if etag != "" {
		c.Set("ETag", "\""+etag+"\"")
		if inm := normalizeETag(c.Get("If-None-Match")); inm != "" && inm == normalizeETag(etag) {
			_ = obj.Close()
			return c.SendStatus(fiber.StatusNotModified)
		}
	}
	if !st.LastModified.IsZero() {
		c.Set("Last-Modified", st.LastModified.UTC().Format(time.RFC1123))
	}

	c.Set("Cache-Control", "private, max-age=31536000, immutable")
	if st.ContentType != "" {
		c.Type(st.ContentType)
	} else {
		c.Type("application/octet-stream")
	}
	if st.Size > 0 {
		c.Set("Content-Length", strconv.FormatInt(st.Size, 10))
	}

	// Stream object while capturing any mid-stream errors.
	// (Fiber versions vary; use underlying fasthttp stream writer.)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			_ = obj.Close()
		}()

		n, copyErr := io.Copy(w, obj)
		flushErr := w.Flush()

		if copyErr != nil {
			log.Printf("[attachment] stream error key=%q copied=%d err=%v", key, n, copyErr)
			return
		}
		if flushErr != nil {
			log.Printf("[attachment] stream flush error key=%q copied=%d err=%v", key, n, flushErr)
		}
	})
	return nil
}
