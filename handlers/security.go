package handlers

import (
	"net/http"

	"mediafolio/models"
	"mediafolio/storage"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username  string `form:"username" json:"username" binding:"required"`
	Email     string `form:"email" json:"email" binding:"required"`
	Password1 string `form:"password1" json:"password1" binding:"required"`
	Password2 string `form:"password2" json:"password2" binding:"required"`
}

type InfoUpdateRequest struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Username  string `form:"username" json:"username" binding:"required"`
	Email     string `form:"email" json:"email" binding:"required"`
}

type PasswordUpdateRequest struct {
	CurrentPassword string `form:"current_password" json:"current_password" binding:"required"`
	NewPassword1    string `form:"new_password1" json:"new_password1" binding:"required"`
	NewPassword2    string `form:"new_password2" json:"new_password2" binding:"required"`
}

type UserInfo struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

func userInfoOf(user *models.User) UserInfo {
	info := UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if profile, err := models.ProfileOf(user); err == nil {
		info.Avatar = profile.Avatar
	}
	return info
}

// SecurityRegister creates an account. Open to anonymous callers.
func SecurityRegister(c *gin.Context) {
	r := RegisterRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if r.Password1 != r.Password2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrPasswordMismatch.Error()})
		return
	}
	user, err := models.UserCreate(storage.Get(), r.Username, r.Email, r.Password1)
	if err != nil {
		status := http.StatusBadRequest
		if _, isStorage := err.(*storage.Error); isStorage {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, userInfoOf(&user))
}

func SecurityInfo(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, userInfoOf(user))
}

func SecurityUpdate(c *gin.Context, user *models.User) {
	r := InfoUpdateRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := user.UpdateInfo(storage.Get(), r.FirstName, r.LastName, r.Username, r.Email); err != nil {
		status := http.StatusBadRequest
		if _, isStorage := err.(*storage.Error); isStorage {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, userInfoOf(user))
}

func SecurityPassword(c *gin.Context, user *models.User) {
	r := PasswordUpdateRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := user.ChangePassword(storage.Get(), r.CurrentPassword, r.NewPassword1, r.NewPassword2); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": ""})
}
