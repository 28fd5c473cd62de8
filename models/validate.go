package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const (
	ProfileAvatarMaxBytes  = 102400 // 100 KB
	ProfileAvatarMaxWidth  = 960
	ProfileAvatarMaxHeight = 960

	ImageMaxBytes  = 1048576 // 1 MB
	ImageMaxWidth  = 960
	ImageMaxHeight = 960
)

// ValidationError is user-correctable and surfaces as a field-level message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateUpload checks an uploaded image against a byte budget and pixel
// dimension box. Exactly at the limit passes, one byte or pixel over fails.
func ValidateUpload(data []byte, maxBytes int, maxWidth, maxHeight int) error {
	if len(data) > maxBytes {
		return &ValidationError{
			Message: fmt.Sprintf("Maximum file size that can be uploaded is %d KB.", maxBytes/1024),
		}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return &ValidationError{Message: "Upload a valid image. The file you uploaded was either not an image or a corrupted image."}
	}
	if cfg.Width > maxWidth || cfg.Height > maxHeight {
		return &ValidationError{
			Message: fmt.Sprintf("Dimensions are larger than what is allowed: %dx%d pixels.", maxWidth, maxHeight),
		}
	}
	return nil
}

func ValidateAvatarUpload(data []byte) error {
	return ValidateUpload(data, ProfileAvatarMaxBytes, ProfileAvatarMaxWidth, ProfileAvatarMaxHeight)
}

func ValidateImageUpload(data []byte) error {
	return ValidateUpload(data, ImageMaxBytes, ImageMaxWidth, ImageMaxHeight)
}
