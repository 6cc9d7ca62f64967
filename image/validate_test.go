package image

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"plant-identification-service/models"
)

// createTestImage creates a test JPEG image with specified dimensions
func createTestImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Fill with a simple pattern
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x + y) % 256),
				G: uint8((x * 2) % 256),
				B: uint8((y * 2) % 256),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}

	return buf.Bytes()
}

func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to create test PNG: %v", err)
	}

	return buf.Bytes()
}

func TestValidate(t *testing.T) {
	jpegData := createTestImage(t, 100, 80)
	pngData := createTestPNG(t, 60, 60)

	tests := []struct {
		name    string
		data    []byte
		maxSize int64
		wantErr bool
	}{
		{
			name:    "valid jpeg",
			data:    jpegData,
			maxSize: 0,
			wantErr: false,
		},
		{
			name:    "valid png",
			data:    pngData,
			maxSize: 0,
			wantErr: false,
		},
		{
			name:    "too large",
			data:    jpegData,
			maxSize: 10,
			wantErr: true,
		},
		{
			name:    "truncated jpeg",
			data:    jpegData[:len(jpegData)/2],
			maxSize: 0,
			wantErr: true,
		},
		{
			name:    "plain text bytes",
			data:    []byte("this is definitely not an image"),
			maxSize: 0,
			wantErr: true,
		},
		{
			name:    "empty buffer",
			data:    []byte{},
			maxSize: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.data, tt.maxSize)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !models.IsValidationError(err) {
				t.Errorf("Validate() returned %T, want ValidationError", err)
			}
		})
	}
}

func TestValidateOversizeBeatsContent(t *testing.T) {
	// An oversize buffer fails on size alone, even when it is not an image.
	err := Validate([]byte("not an image but also too big"), 5)
	if err == nil {
		t.Fatal("Validate() = nil, want too-large error")
	}
	if !models.IsValidationError(err) {
		t.Fatalf("Validate() returned %T, want ValidationError", err)
	}
}

func TestValidateLeavesBufferIntact(t *testing.T) {
	data := createTestImage(t, 120, 90)
	snapshot := append([]byte(nil), data...)

	if err := Validate(data, 0); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	// The original buffer must still be byte-identical and re-decodable
	// after validation, since the same bytes are sent to the provider.
	if !bytes.Equal(data, snapshot) {
		t.Fatal("Validate() mutated the image buffer")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("re-decode after Validate() failed: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("re-decode format = %q, want %q", format, "jpeg")
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 90 {
		t.Errorf("re-decode bounds = %v, want 120x90", img.Bounds())
	}

	// And a second validation pass over the same buffer still succeeds.
	if err := Validate(data, 0); err != nil {
		t.Fatalf("second Validate() error = %v", err)
	}
}
