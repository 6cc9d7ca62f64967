package image

import (
	"bytes"
	"image"

	// Register the decoders for every format the upload endpoints accept.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"plant-identification-service/models"
)

// DefaultMaxSize is the upload size cap applied when no limit is configured.
const DefaultMaxSize = 10 << 20 // 10 MiB

// Validate checks that data holds a complete, decodable image no larger
// than maxSize bytes (DefaultMaxSize when maxSize <= 0).
//
// The decode runs against a fresh reader view over the slice, so the
// caller's buffer is never consumed and stays reusable for transmission.
// Pixel data is fully decoded rather than just the header: a truncated
// file passes a header check but must fail here.
func Validate(data []byte, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if int64(len(data)) > maxSize {
		return models.NewValidationError("image is too large: %d bytes (max %d bytes)", len(data), maxSize)
	}
	if len(data) == 0 {
		return models.NewValidationError("image is empty")
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return models.NewValidationError("invalid image: %v", err)
	}
	return nil
}
