package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"mediafolio/db"
	"mediafolio/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(t.TempDir()+"/test.sqlite3"), &gorm.Config{})
	require.NoError(t, err)
	db.Instance = gormDB
	models.Init()
}

func putForm(t *testing.T, target string, form url.Values) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPut, target, strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c, recorder
}

func TestAlbumUpdateDefaultsPublic(t *testing.T) {
	setupTestDB(t)
	user := models.User{Username: "alice"}
	require.NoError(t, db.Instance.Create(&user).Error)
	album := models.Album{Name: "Trip", IsPublic: true, UserID: &user.ID}
	require.NoError(t, db.Instance.Create(&album).Error)
	target := "/api/dashboard/album/?pk=" + strconv.FormatUint(album.ID, 10)

	// is_public omitted: falls back to the model default, not to false
	c, recorder := putForm(t, target, url.Values{"name": {"Trip 2024"}})
	AlbumUpdate(c, &user)
	require.Equal(t, http.StatusOK, recorder.Code)

	updated, err := models.AlbumByID(album.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip 2024", updated.Name)
	assert.True(t, updated.IsPublic)

	// an explicit false still sticks
	c, recorder = putForm(t, target, url.Values{"name": {"Trip 2024"}, "is_public": {"false"}})
	AlbumUpdate(c, &user)
	require.Equal(t, http.StatusOK, recorder.Code)

	updated, err = models.AlbumByID(album.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsPublic)
}
