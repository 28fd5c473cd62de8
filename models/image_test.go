package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageUploadKey(t *testing.T) {
	key := ImageUploadKey("holiday.jpg")
	assert.True(t, strings.HasPrefix(key, "images/"))
	assert.True(t, strings.HasSuffix(key, "-holiday.jpg"))

	// Path separators in the client-supplied filename must not create
	// nested keys.
	key = ImageUploadKey("../../etc/passwd")
	assert.Equal(t, 1, strings.Count(key, "/"))

	// Two uploads in the same instant still get distinct keys.
	assert.NotEqual(t, ImageUploadKey("a.png"), ImageUploadKey("a.png"))
}

func TestImageThumbKey(t *testing.T) {
	image := Image{Image: "images/20240101000000-abcd1234-holiday.jpg"}
	assert.Equal(t, "images/thumbs/20240101000000-abcd1234-holiday.jpg", image.ThumbKey())

	empty := Image{}
	assert.Equal(t, "", empty.ThumbKey())
}

func TestImageValidate(t *testing.T) {
	image := Image{Title: "Holiday"}
	assert.NoError(t, image.Validate())

	image.Title = ""
	assert.ErrorIs(t, image.Validate(), ErrImageTitleRequired)

	image.Title = strings.Repeat("x", ImageTitleMaxLength+1)
	assert.ErrorIs(t, image.Validate(), ErrImageTitleRequired)
}
