package handlers

import (
	"errors"
	"net/http"

	"mediafolio/db"
	"mediafolio/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AlbumInfo struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	IsPublic bool    `json:"is_public"`
	User     *uint64 `json:"user"`
}

type AlbumSaveRequest struct {
	Name     string `form:"name" json:"name" binding:"required"`
	IsPublic *bool  `form:"is_public" json:"is_public"`
}

type AlbumPatchRequest struct {
	Name     *string `form:"name" json:"name"`
	IsPublic *bool   `form:"is_public" json:"is_public"`
}

func albumInfoOf(album *models.Album) AlbumInfo {
	return AlbumInfo{
		ID:       album.ID,
		Name:     album.Name,
		IsPublic: album.IsPublic,
		User:     album.UserID,
	}
}

// AlbumList returns albums ordered by name, optionally filtered by the
// `username` query parameter. An unknown username yields an empty list.
func AlbumList(c *gin.Context, user *models.User) {
	albums, err := models.AlbumsByUser(c.Query("username"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	result := make([]AlbumInfo, 0, len(albums))
	for i := range albums {
		result = append(result, albumInfoOf(&albums[i]))
	}
	c.JSON(http.StatusOK, result)
}

func AlbumRetrieve(c *gin.Context, user *models.User) {
	pk, ok := pkFromQuery(c)
	if !ok {
		return
	}
	album, err := models.AlbumByID(pk)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, albumInfoOf(&album))
}

func AlbumCreate(c *gin.Context, user *models.User) {
	r := AlbumSaveRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	album := models.Album{
		Name:     r.Name,
		IsPublic: r.IsPublic == nil || *r.IsPublic,
		UserID:   &user.ID,
	}
	if err := album.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.Instance.Create(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, albumInfoOf(&album))
}

// ownAlbum loads an album and verifies the caller owns it.
func ownAlbum(c *gin.Context, user *models.User) (models.Album, bool) {
	pk, ok := pkFromQuery(c)
	if !ok {
		return models.Album{}, false
	}
	album, err := models.AlbumByID(pk)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return models.Album{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return models.Album{}, false
	}
	if album.UserID == nil || *album.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your album"})
		return models.Album{}, false
	}
	return album, true
}

func AlbumUpdate(c *gin.Context, user *models.User) {
	album, ok := ownAlbum(c, user)
	if !ok {
		return
	}
	r := AlbumSaveRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// An omitted is_public falls back to the model default, like on create
	album.Name = r.Name
	album.IsPublic = r.IsPublic == nil || *r.IsPublic
	if err := album.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.Instance.Save(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, albumInfoOf(&album))
}

func AlbumPartialUpdate(c *gin.Context, user *models.User) {
	album, ok := ownAlbum(c, user)
	if !ok {
		return
	}
	r := AlbumPatchRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if r.Name != nil {
		album.Name = *r.Name
	}
	if r.IsPublic != nil {
		album.IsPublic = *r.IsPublic
	}
	if err := album.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.Instance.Save(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, albumInfoOf(&album))
}

func AlbumDelete(c *gin.Context, user *models.User) {
	album, ok := ownAlbum(c, user)
	if !ok {
		return
	}
	if err := db.Instance.Delete(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": ""})
}
