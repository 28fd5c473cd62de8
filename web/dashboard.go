package web

import (
	"errors"
	"net/http"
	"strconv"

	"mediafolio/db"
	"mediafolio/handlers"
	"mediafolio/models"
	"mediafolio/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}

func ownAlbumPage(c *gin.Context, user *models.User) (models.Album, bool) {
	id, ok := idParam(c)
	if !ok {
		return models.Album{}, false
	}
	album, err := models.AlbumByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && (album.UserID == nil || *album.UserID != user.ID)) {
		c.String(http.StatusNotFound, "not found")
		return models.Album{}, false
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "DB error")
		return models.Album{}, false
	}
	return album, true
}

func ownImagePage(c *gin.Context, user *models.User) (models.Image, bool) {
	id, ok := idParam(c)
	if !ok {
		return models.Image{}, false
	}
	image, err := models.ImageByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && (image.UserID == nil || *image.UserID != user.ID)) {
		c.String(http.StatusNotFound, "not found")
		return models.Image{}, false
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "DB error")
		return models.Image{}, false
	}
	return image, true
}

func userAlbums(user *models.User) []models.Album {
	albums := []models.Album{}
	db.Instance.Where("user_id = ?", user.ID).Order("name").Find(&albums)
	return albums
}

func DashboardView(c *gin.Context, user *models.User) {
	c.Redirect(http.StatusFound, "/dashboard/album/list")
}

/*
 * Albums
 */

func AlbumListView(c *gin.Context, user *models.User) {
	c.HTML(http.StatusOK, "album_list.tmpl", gin.H{"user": user, "albums": userAlbums(user)})
}

func AlbumCreateView(c *gin.Context, user *models.User) {
	c.HTML(http.StatusOK, "album_form.tmpl", gin.H{"user": user, "action": "/dashboard/album/create"})
}

func AlbumCreateSubmit(c *gin.Context, user *models.User) {
	album := models.Album{
		Name:     c.PostForm("name"),
		IsPublic: c.PostForm("is_public") != "",
		UserID:   &user.ID,
	}
	if err := album.Validate(); err != nil {
		c.HTML(http.StatusOK, "album_form.tmpl", gin.H{"user": user, "action": "/dashboard/album/create", "album": album, "error": err.Error()})
		return
	}
	if err := db.Instance.Create(&album).Error; err != nil {
		c.HTML(http.StatusOK, "album_form.tmpl", gin.H{"user": user, "action": "/dashboard/album/create", "album": album, "error": "DB error"})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard/album/list")
}

func AlbumDetailView(c *gin.Context, user *models.User) {
	album, ok := ownAlbumPage(c, user)
	if !ok {
		return
	}
	images := []models.Image{}
	db.Instance.Where("album_id = ?", album.ID).Order("title").Find(&images)
	c.HTML(http.StatusOK, "album_detail.tmpl", gin.H{"user": user, "album": album, "images": images})
}

func AlbumUpdateView(c *gin.Context, user *models.User) {
	album, ok := ownAlbumPage(c, user)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "album_form.tmpl", gin.H{"user": user, "album": album, "action": albumURL(album.ID, "update")})
}

func AlbumUpdateSubmit(c *gin.Context, user *models.User) {
	album, ok := ownAlbumPage(c, user)
	if !ok {
		return
	}
	album.Name = c.PostForm("name")
	album.IsPublic = c.PostForm("is_public") != ""
	if err := album.Validate(); err != nil {
		c.HTML(http.StatusOK, "album_form.tmpl", gin.H{"user": user, "album": album, "action": albumURL(album.ID, "update"), "error": err.Error()})
		return
	}
	if err := db.Instance.Save(&album).Error; err != nil {
		c.HTML(http.StatusOK, "album_form.tmpl", gin.H{"user": user, "album": album, "action": albumURL(album.ID, "update"), "error": "DB error"})
		return
	}
	c.Redirect(http.StatusFound, albumURL(album.ID, "detail"))
}

func AlbumDeleteView(c *gin.Context, user *models.User) {
	album, ok := ownAlbumPage(c, user)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "album_delete.tmpl", gin.H{"user": user, "album": album})
}

func AlbumDeleteSubmit(c *gin.Context, user *models.User) {
	album, ok := ownAlbumPage(c, user)
	if !ok {
		return
	}
	if err := db.Instance.Delete(&album).Error; err != nil {
		c.String(http.StatusInternalServerError, "DB error")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard/album/list")
}

func albumURL(id uint64, action string) string {
	return "/dashboard/album/" + strconv.FormatUint(id, 10) + "/" + action
}

/*
 * Images
 */

func ImageListView(c *gin.Context, user *models.User) {
	images := []models.Image{}
	db.Instance.Where("user_id = ?", user.ID).Order("title").Find(&images)
	c.HTML(http.StatusOK, "image_list.tmpl", gin.H{"user": user, "images": images})
}

func ImageCreateView(c *gin.Context, user *models.User) {
	c.HTML(http.StatusOK, "image_form.tmpl", gin.H{"user": user, "albums": userAlbums(user), "action": "/dashboard/image/create"})
}

func imageFormAlbumID(c *gin.Context) *uint64 {
	id, err := strconv.ParseUint(c.PostForm("album_id"), 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func ImageCreateSubmit(c *gin.Context, user *models.User) {
	image := models.Image{
		Title:   c.PostForm("title"),
		AlbumID: imageFormAlbumID(c),
		UserID:  &user.ID,
	}
	fail := func(message string) {
		c.HTML(http.StatusOK, "image_form.tmpl", gin.H{"user": user, "albums": userAlbums(user), "action": "/dashboard/image/create", "image": image, "error": message})
	}
	if err := image.Validate(); err != nil {
		fail(err.Error())
		return
	}
	if header, err := c.FormFile("image"); err == nil {
		key, err := handlers.SaveImageUpload(storage.Get(), header)
		if err != nil {
			fail(err.Error())
			return
		}
		image.Image = key
	}
	if err := db.Instance.Create(&image).Error; err != nil {
		fail("DB error")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard/image/list")
}

func ImageDetailView(c *gin.Context, user *models.User) {
	image, ok := ownImagePage(c, user)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "image_detail.tmpl", gin.H{"user": user, "image": &image})
}

func ImageUpdateView(c *gin.Context, user *models.User) {
	image, ok := ownImagePage(c, user)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "image_form.tmpl", gin.H{"user": user, "albums": userAlbums(user), "image": image, "action": imageURL(image.ID, "update")})
}

func ImageUpdateSubmit(c *gin.Context, user *models.User) {
	image, ok := ownImagePage(c, user)
	if !ok {
		return
	}
	image.Title = c.PostForm("title")
	image.AlbumID = imageFormAlbumID(c)
	fail := func(message string) {
		c.HTML(http.StatusOK, "image_form.tmpl", gin.H{"user": user, "albums": userAlbums(user), "image": image, "action": imageURL(image.ID, "update"), "error": message})
	}
	if err := image.Validate(); err != nil {
		fail(err.Error())
		return
	}
	if header, err := c.FormFile("image"); err == nil {
		key, err := handlers.SaveImageUpload(storage.Get(), header)
		if err != nil {
			fail(err.Error())
			return
		}
		old := image
		handlers.DeleteImageFiles(storage.Get(), &old)
		image.Image = key
	}
	if err := db.Instance.Save(&image).Error; err != nil {
		fail("DB error")
		return
	}
	c.Redirect(http.StatusFound, imageURL(image.ID, "detail"))
}

func ImageDeleteView(c *gin.Context, user *models.User) {
	image, ok := ownImagePage(c, user)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "image_delete.tmpl", gin.H{"user": user, "image": image})
}

func ImageDeleteSubmit(c *gin.Context, user *models.User) {
	image, ok := ownImagePage(c, user)
	if !ok {
		return
	}
	if err := db.Instance.Delete(&image).Error; err != nil {
		c.String(http.StatusInternalServerError, "DB error")
		return
	}
	handlers.DeleteImageFiles(storage.Get(), &image)
	c.Redirect(http.StatusFound, "/dashboard/image/list")
}

func imageURL(id uint64, action string) string {
	return "/dashboard/image/" + strconv.FormatUint(id, 10) + "/" + action
}
