package web

import (
	"errors"
	"io"
	"net/http"

	"mediafolio/auth"
	"mediafolio/models"
	"mediafolio/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	LoginURL       = "/security/authenticate/login"
	profileInfoURL = "/security/profile/info"
)

func IndexView(c *gin.Context) {
	user := auth.LoadSession(c).User()
	c.HTML(http.StatusOK, "index.tmpl", gin.H{"user": user})
}

func RegisterView(c *gin.Context) {
	c.HTML(http.StatusOK, "register.tmpl", gin.H{})
}

func RegisterSubmit(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password1 := c.PostForm("password1")
	password2 := c.PostForm("password2")
	if password1 != password2 {
		c.HTML(http.StatusOK, "register.tmpl", gin.H{"error": models.ErrPasswordMismatch.Error(), "username": username, "email": email})
		return
	}
	if _, err := models.UserCreate(storage.Get(), username, email, password1); err != nil {
		c.HTML(http.StatusOK, "register.tmpl", gin.H{"error": err.Error(), "username": username, "email": email})
		return
	}
	c.Redirect(http.StatusFound, LoginURL)
}

func LoginView(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{})
}

func LoginSubmit(c *gin.Context) {
	user, err := models.UserLogin(c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		c.HTML(http.StatusOK, "login.tmpl", gin.H{"error": err.Error()})
		return
	}
	auth.LoadSession(c).LogInUser(&user)
	c.Redirect(http.StatusFound, profileInfoURL)
}

func ProfileInfoView(c *gin.Context, user *models.User) {
	c.HTML(http.StatusOK, "profile_info.tmpl", gin.H{"user": user})
}

func ProfileInfoSubmit(c *gin.Context, user *models.User) {
	err := user.UpdateInfo(storage.Get(),
		c.PostForm("first_name"), c.PostForm("last_name"),
		c.PostForm("username"), c.PostForm("email"))
	if err != nil {
		c.HTML(http.StatusOK, "profile_info.tmpl", gin.H{"user": user, "error": err.Error()})
		return
	}
	c.HTML(http.StatusOK, "profile_info.tmpl", gin.H{"user": user, "message": "User " + user.FullName() + " has been updated."})
}

func ProfilePasswordView(c *gin.Context, user *models.User) {
	c.HTML(http.StatusOK, "profile_password.tmpl", gin.H{"user": user})
}

func ProfilePasswordSubmit(c *gin.Context, user *models.User) {
	err := user.ChangePassword(storage.Get(),
		c.PostForm("current_password"), c.PostForm("new_password1"), c.PostForm("new_password2"))
	if err != nil {
		c.HTML(http.StatusOK, "profile_password.tmpl", gin.H{"user": user, "error": err.Error()})
		return
	}
	c.HTML(http.StatusOK, "profile_password.tmpl", gin.H{"user": user, "message": "Password has been changed."})
}

func profileFor(user *models.User) (models.Profile, error) {
	profile, err := models.ProfileOf(user)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Profile{UserID: user.ID, User: *user, UserFolderName: user.Username}, nil
	}
	return profile, err
}

func avatarContext(user *models.User, profile *models.Profile) gin.H {
	ctx := gin.H{"user": user}
	if profile.Avatar != "" {
		ctx["avatar_url"] = "/media/" + profile.Avatar
	}
	return ctx
}

func ProfileAvatarView(c *gin.Context, user *models.User) {
	profile, err := profileFor(user)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "profile_avatar.tmpl", gin.H{"user": user, "error": "DB error"})
		return
	}
	c.HTML(http.StatusOK, "profile_avatar.tmpl", avatarContext(user, &profile))
}

// ProfileAvatarSubmit uploads a new avatar or clears the current one. The
// profile save (and with it the relocation pass) runs before the new bytes
// are written at the canonical path.
func ProfileAvatarSubmit(c *gin.Context, user *models.User) {
	profile, err := profileFor(user)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "profile_avatar.tmpl", gin.H{"user": user, "error": "DB error"})
		return
	}
	fail := func(message string) {
		ctx := avatarContext(user, &profile)
		ctx["error"] = message
		c.HTML(http.StatusOK, "profile_avatar.tmpl", ctx)
	}

	if c.PostForm("clear") != "" {
		profile.Avatar = ""
		if err = profile.Save(storage.Get()); err != nil {
			fail(err.Error())
			return
		}
		ctx := avatarContext(user, &profile)
		ctx["message"] = "Avatar has been removed."
		c.HTML(http.StatusOK, "profile_avatar.tmpl", ctx)
		return
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		fail("Please choose a file to upload.")
		return
	}
	file, err := header.Open()
	if err != nil {
		fail(err.Error())
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, models.ProfileAvatarMaxBytes+1))
	file.Close()
	if err != nil {
		fail(err.Error())
		return
	}
	if err = models.ValidateAvatarUpload(data); err != nil {
		fail(err.Error())
		return
	}
	profile.Avatar = profile.AvatarFileKey()
	if err = profile.Save(storage.Get()); err != nil {
		fail(err.Error())
		return
	}
	if err = storage.SaveBytes(storage.Get(), profile.Avatar, data); err != nil {
		fail(err.Error())
		return
	}
	ctx := avatarContext(user, &profile)
	ctx["message"] = "Avatar has been updated."
	c.HTML(http.StatusOK, "profile_avatar.tmpl", ctx)
}

func LogoutView(c *gin.Context, user *models.User) {
	c.HTML(http.StatusOK, "logout.tmpl", gin.H{"user": user})
}

func LogoutSubmit(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogOutUser()
	c.Redirect(http.StatusFound, "/")
}
