package models

import (
	"errors"

	"mediafolio/db"

	"gorm.io/gorm"
)

const AlbumNameMaxLength = 64

var ErrAlbumNameRequired = errors.New("Name of the album is required and must be 64 characters or fewer.")

// Album groups images. Deleting the owner clears the reference instead of
// cascading, so albums outlive their owner.
type Album struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Name      string  `gorm:"type:varchar(64);not null"`
	IsPublic  bool    `gorm:"not null;default:true"`
	UserID    *uint64 `gorm:"index"`
	User      *User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (a *Album) Validate() error {
	if a.Name == "" || len(a.Name) > AlbumNameMaxLength {
		return ErrAlbumNameRequired
	}
	return nil
}

func AlbumByID(id uint64) (a Album, err error) {
	err = db.Instance.First(&a, id).Error
	return
}

// AlbumsByUser lists a user's albums ordered by name. An unknown username is
// an empty result, not an error.
func AlbumsByUser(username string) ([]Album, error) {
	albums := []Album{}
	if username == "" {
		return albums, db.Instance.Order("name").Find(&albums).Error
	}
	user, err := UserByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return albums, nil
	}
	if err != nil {
		return nil, err
	}
	return albums, db.Instance.Where("user_id = ?", user.ID).Order("name").Find(&albums).Error
}
