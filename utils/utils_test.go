package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestCreateThumbShrinks(t *testing.T) {
	var out bytes.Buffer
	result, err := CreateThumb(320, encodePNG(t, 640, 480), &out)
	require.NoError(t, err)

	assert.Equal(t, uint16(640), result.OldX)
	assert.Equal(t, uint16(480), result.OldY)
	assert.Equal(t, uint16(320), result.NewX)
	assert.Equal(t, uint16(240), result.NewY)
	assert.Equal(t, int64(out.Len()), result.ThumbSize)

	thumb, err := jpeg.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(320, 240), thumb.Bounds().Size())
}

func TestCreateThumbKeepsSmallImages(t *testing.T) {
	var out bytes.Buffer
	result, err := CreateThumb(320, encodePNG(t, 100, 80), &out)
	require.NoError(t, err)
	assert.Equal(t, uint16(100), result.NewX)
	assert.Equal(t, uint16(80), result.NewY)
}

func TestCreateThumbRejectsGarbage(t *testing.T) {
	var out bytes.Buffer
	_, err := CreateThumb(320, strings.NewReader("not an image"), &out)
	assert.Error(t, err)
	assert.Zero(t, out.Len())
}
