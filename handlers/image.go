package handlers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"mediafolio/db"
	"mediafolio/models"
	"mediafolio/storage"
	"mediafolio/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const thumbSize = 320

type ImageInfo struct {
	ID    uint64  `json:"id"`
	Title string  `json:"title"`
	Image string  `json:"image"`
	Album *uint64 `json:"album"`
	User  *uint64 `json:"user"`
}

type ImageSaveRequest struct {
	Title   string  `form:"title" json:"title" binding:"required"`
	AlbumID *uint64 `form:"album_id" json:"album_id"`
}

type ImagePatchRequest struct {
	Title   *string `form:"title" json:"title"`
	AlbumID *uint64 `form:"album_id" json:"album_id"`
}

func imageInfoOf(image *models.Image) ImageInfo {
	return ImageInfo{
		ID:    image.ID,
		Title: image.Title,
		Image: image.Image,
		Album: image.AlbumID,
		User:  image.UserID,
	}
}

// SaveImageUpload validates an uploaded dashboard image, stores it under
// images/ and writes a thumbnail next to it. Returns the logical path.
func SaveImageUpload(backend storage.Backend, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, models.ImageMaxBytes+1))
	if err != nil {
		return "", err
	}
	if err = models.ValidateImageUpload(data); err != nil {
		return "", err
	}
	key := models.ImageUploadKey(header.Filename)
	if _, err = backend.Save(key, bytes.NewReader(data)); err != nil {
		return "", err
	}
	image := models.Image{Image: key}
	var thumbBuf bytes.Buffer
	if _, err = utils.CreateThumb(thumbSize, bytes.NewReader(data), &thumbBuf); err == nil {
		if _, err = backend.Save(image.ThumbKey(), &thumbBuf); err != nil {
			return "", err
		}
	} else {
		log.Printf("Thumbnail for %s failed: %v\n", key, err)
	}
	return key, nil
}

// DeleteImageFiles drops the stored file and its thumbnail, best effort.
func DeleteImageFiles(backend storage.Backend, image *models.Image) {
	if image.Image == "" {
		return
	}
	for _, key := range []string{image.Image, image.ThumbKey()} {
		exists, err := backend.Exists(key)
		if err != nil || !exists {
			continue
		}
		if err = backend.DeleteFile(key); err != nil {
			log.Printf("Deleting %s failed: %v\n", key, err)
		}
	}
}

// ImageList returns images ordered by title, optionally scoped to the first
// album matching the `name` query parameter; unknown names give an empty list.
func ImageList(c *gin.Context, user *models.User) {
	images, err := models.ImagesByAlbumName(c.Query("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	result := make([]ImageInfo, 0, len(images))
	for i := range images {
		result = append(result, imageInfoOf(&images[i]))
	}
	c.JSON(http.StatusOK, result)
}

func ImageRetrieve(c *gin.Context, user *models.User) {
	pk, ok := pkFromQuery(c)
	if !ok {
		return
	}
	image, err := models.ImageByID(pk)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, imageInfoOf(&image))
}

func ImageCreate(c *gin.Context, user *models.User) {
	r := ImageSaveRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	image := models.Image{
		Title:   r.Title,
		AlbumID: r.AlbumID,
		UserID:  &user.ID,
	}
	if err := image.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if header, err := c.FormFile("image"); err == nil {
		key, err := SaveImageUpload(storage.Get(), header)
		if err != nil {
			status := http.StatusBadRequest
			if _, isStorage := err.(*storage.Error); isStorage {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		image.Image = key
	}
	if err := db.Instance.Create(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, imageInfoOf(&image))
}

func ownImage(c *gin.Context, user *models.User) (models.Image, bool) {
	pk, ok := pkFromQuery(c)
	if !ok {
		return models.Image{}, false
	}
	image, err := models.ImageByID(pk)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return models.Image{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return models.Image{}, false
	}
	if image.UserID == nil || *image.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your image"})
		return models.Image{}, false
	}
	return image, true
}

func ImageUpdate(c *gin.Context, user *models.User) {
	image, ok := ownImage(c, user)
	if !ok {
		return
	}
	r := ImageSaveRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	image.Title = r.Title
	image.AlbumID = r.AlbumID
	if err := image.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if header, err := c.FormFile("image"); err == nil {
		key, err := SaveImageUpload(storage.Get(), header)
		if err != nil {
			status := http.StatusBadRequest
			if _, isStorage := err.(*storage.Error); isStorage {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		old := image
		DeleteImageFiles(storage.Get(), &old)
		image.Image = key
	}
	if err := db.Instance.Save(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, imageInfoOf(&image))
}

func ImagePartialUpdate(c *gin.Context, user *models.User) {
	image, ok := ownImage(c, user)
	if !ok {
		return
	}
	r := ImagePatchRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if r.Title != nil {
		image.Title = *r.Title
	}
	if r.AlbumID != nil {
		image.AlbumID = r.AlbumID
	}
	if err := image.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.Instance.Save(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, imageInfoOf(&image))
}

func ImageDelete(c *gin.Context, user *models.User) {
	image, ok := ownImage(c, user)
	if !ok {
		return
	}
	if err := db.Instance.Delete(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	DeleteImageFiles(storage.Get(), &image)
	c.JSON(http.StatusOK, gin.H{"error": ""})
}
