package storage

import (
	"bytes"
	"errors"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var (
	ErrTooLarge     = errors.New("file too large")
	ErrInvalidImage = errors.New("invalid image")
	ErrUnsupported  = errors.New("unsupported image type")
)

// DetectImageType identifies an image by magic number rather than trusting
// the client-supplied content type.
func DetectImageType(header []byte) (string, error) {
	if len(header) < 12 {
		return "", ErrInvalidImage
	}
	// JPEG: FF D8 FF
	if header[0] == 0xFF && header[1] == 0xD8 && header[2] == 0xFF {
		return "image/jpeg", nil
	}
	// PNG: 89 50 4E 47 0D 0A 1A 0A
	if header[0] == 0x89 && header[1] == 0x50 && header[2] == 0x4E && header[3] == 0x47 &&
		header[4] == 0x0D && header[5] == 0x0A && header[6] == 0x1A && header[7] == 0x0A {
		return "image/png", nil
	}
	// GIF: GIF87a / GIF89a
	if header[0] == 'G' && header[1] == 'I' && header[2] == 'F' && header[3] == '8' &&
		(header[4] == '7' || header[4] == '9') && header[5] == 'a' {
		return "image/gif", nil
	}
	// WebP: RIFF....WEBP
	if header[0] == 'R' && header[1] == 'I' && header[2] == 'F' && header[3] == 'F' &&
		header[8] == 'W' && header[9] == 'E' && header[10] == 'B' && header[11] == 'P' {
		return "image/webp", nil
	}
	return "", ErrUnsupported
}

// ImageInfo describes a validated image attachment.
type ImageInfo struct {
	ContentType string
	Width       int
	Height      int
	Size        int64
}

// ValidateImage reads an image payload (bounded by maxBytes), verifies the
// magic number and decodes the header to confirm the bytes really are the
// claimed format. Returns the payload alongside its descriptor so the
// caller can upload exactly what was validated.
func ValidateImage(r io.Reader, maxBytes int64) ([]byte, ImageInfo, error) {
	limited := io.LimitReader(r, maxBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, ImageInfo{}, err
	}
	if int64(len(data)) > maxBytes {
		return nil, ImageInfo{}, ErrTooLarge
	}

	contentType, err := DetectImageType(data)
	if err != nil {
		return nil, ImageInfo{}, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ImageInfo{}, ErrInvalidImage
	}

	return data, ImageInfo{
		ContentType: contentType,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Size:        int64(len(data)),
	}, nil
}
