package models

import (
	"errors"
	"strings"
	"time"

	"mediafolio/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ImagesFolderName      = "images"
	ImageTitleMaxLength   = 64
	ImageThumbsFolderName = ImagesFolderName + "/thumbs"
)

var ErrImageTitleRequired = errors.New("Title of the image is required and must be 64 characters or fewer.")

// Image belongs to a user and optionally to an album; both references are
// cleared, not cascaded, when the owner goes away.
type Image struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Title     string  `gorm:"type:varchar(64);not null"`
	Image     string  `gorm:"type:varchar(300)"` // logical storage path, empty when unset
	AlbumID   *uint64 `gorm:"index"`
	Album     *Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	UserID    *uint64 `gorm:"index"`
	User      *User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (i *Image) Validate() error {
	if i.Title == "" || len(i.Title) > ImageTitleMaxLength {
		return ErrImageTitleRequired
	}
	return nil
}

// ImageUploadKey builds the storage path for a fresh upload:
// images/{timestamp}-{uuid8}-{original filename}. The short random part keeps
// two uploads of the same file within one second apart.
func ImageUploadKey(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	return ImagesFolderName + "/" + time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8] + "-" + filename
}

// ThumbKey mirrors the image path under images/thumbs/.
func (i *Image) ThumbKey() string {
	if i.Image == "" {
		return ""
	}
	return ImageThumbsFolderName + "/" + strings.TrimPrefix(i.Image, ImagesFolderName+"/")
}

func ImageByID(id uint64) (i Image, err error) {
	err = db.Instance.First(&i, id).Error
	return
}

// ImagesByAlbumName lists the images of the first album carrying the given
// name, ordered by title. An unknown album name is an empty result.
func ImagesByAlbumName(name string) ([]Image, error) {
	images := []Image{}
	if name == "" {
		return images, db.Instance.Order("title").Find(&images).Error
	}
	var album Album
	err := db.Instance.Where("name = ?", name).Order("id").First(&album).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return images, nil
	}
	if err != nil {
		return nil, err
	}
	return images, db.Instance.Where("album_id = ?", album.ID).Order("title").Find(&images).Error
}
