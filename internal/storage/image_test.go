package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
)

func TestDetectImageType(t *testing.T) {
	tests := []struct {
		name      string
		header    []byte
		want      string
		shouldErr bool
	}{
		{"PNG", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}, "image/png", false},
		{"JPEG", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0, 0, 0}, "image/jpeg", false},
		{"GIF", append([]byte("GIF89a"), make([]byte, 6)...), "image/gif", false},
		{"WebP", append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 4)...), "image/webp", false},
		{"Garbage", bytes.Repeat([]byte{0x01}, 16), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectImageType(tt.header)
			if (err != nil) != tt.shouldErr {
				t.Fatalf("err = %v, shouldErr %v", err, tt.shouldErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateImage_PNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 80, 40))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}

	data, info, err := ValidateImage(bytes.NewReader(buf.Bytes()), 1<<20)
	if err != nil {
		t.Fatalf("ValidateImage: %v", err)
	}
	if info.ContentType != "image/png" {
		t.Errorf("content type = %q, want image/png", info.ContentType)
	}
	if info.Width != 80 || info.Height != 40 {
		t.Errorf("dims = %dx%d, want 80x40", info.Width, info.Height)
	}
	if int64(len(data)) != info.Size {
		t.Errorf("size = %d, payload = %d bytes", info.Size, len(data))
	}
}

func TestValidateImage_GIF(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 10, 10), []color.Color{color.Black, color.White})

	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("gif encode: %v", err)
	}

	_, info, err := ValidateImage(bytes.NewReader(buf.Bytes()), 1<<20)
	if err != nil {
		t.Fatalf("ValidateImage: %v", err)
	}
	if info.ContentType != "image/gif" {
		t.Errorf("content type = %q, want image/gif", info.ContentType)
	}
}

func TestValidateImage_TooLarge(t *testing.T) {
	payload := bytes.Repeat([]byte{0x00}, 11)
	_, _, err := ValidateImage(bytes.NewReader(payload), 10)
	if err != ErrTooLarge {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestValidateImage_GarbageBytes(t *testing.T) {
	payload := bytes.Repeat([]byte{0x01}, 128)
	_, _, err := ValidateImage(bytes.NewReader(payload), 1<<20)
	if err != ErrUnsupported {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestValidateImage_LyingHeader(t *testing.T) {
	// A PNG magic number glued onto garbage must fail the decode step.
	payload := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0x5A}, 64)...)
	_, _, err := ValidateImage(bytes.NewReader(payload), 1<<20)
	if err != ErrInvalidImage {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}

func TestSafeJoinObjectPath(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		key       string
		want      string
		shouldErr bool
	}{
		{"Plain key", "attachments", "1/photo.jpg", "attachments/1/photo.jpg", false},
		{"Leading slash", "attachments", "/1/photo.jpg", "attachments/1/photo.jpg", false},
		{"No prefix", "", "photo.jpg", "photo.jpg", false},
		{"Traversal", "attachments", "../secrets", "", true},
		{"Backslash", "attachments", "a\\b", "", true},
		{"Empty", "attachments", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoinObjectPath(tt.prefix, tt.key)
			if (err != nil) != tt.shouldErr {
				t.Fatalf("err = %v, shouldErr %v", err, tt.shouldErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
