package models

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// paddedPNG pads a tiny valid PNG with trailing zeroes up to an exact byte
// size; DecodeConfig only reads the header, so the padding is ignored.
func paddedPNG(t *testing.T, size int) []byte {
	t.Helper()
	data := encodePNG(t, 1, 1)
	require.LessOrEqual(t, len(data), size)
	return append(data, make([]byte, size-len(data))...)
}

func TestAvatarSizeBoundary(t *testing.T) {
	assert.NoError(t, ValidateAvatarUpload(paddedPNG(t, ProfileAvatarMaxBytes)))

	err := ValidateAvatarUpload(paddedPNG(t, ProfileAvatarMaxBytes+1))
	require.Error(t, err)
	assert.Equal(t, "Maximum file size that can be uploaded is 100 KB.", err.Error())
}

func TestImageSizeBoundary(t *testing.T) {
	assert.NoError(t, ValidateImageUpload(paddedPNG(t, ImageMaxBytes)))

	err := ValidateImageUpload(paddedPNG(t, ImageMaxBytes+1))
	require.Error(t, err)
	assert.Equal(t, "Maximum file size that can be uploaded is 1024 KB.", err.Error())
}

func TestAvatarDimensionBoundary(t *testing.T) {
	assert.NoError(t, ValidateAvatarUpload(encodePNG(t, 960, 960)))

	err := ValidateAvatarUpload(encodePNG(t, 961, 960))
	require.Error(t, err)
	assert.Equal(t, "Dimensions are larger than what is allowed: 960x960 pixels.", err.Error())

	err = ValidateAvatarUpload(encodePNG(t, 960, 961))
	require.Error(t, err)
}

func TestUploadRejectsNonImage(t *testing.T) {
	err := ValidateAvatarUpload([]byte("definitely not an image"))
	require.Error(t, err)

	var validationError *ValidationError
	require.ErrorAs(t, err, &validationError)
	assert.Contains(t, validationError.Message, "not an image or a corrupted image")
}
