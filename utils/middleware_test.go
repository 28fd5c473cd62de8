package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRouterHeaders(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	(&CacheRouter{CacheTime: CacheNoCache}).Handler()(c)
	assert.Equal(t, "no-cache", recorder.Header().Get("cache-control"))

	recorder = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(recorder)
	(&CacheRouter{CacheTime: 3600}).Handler()(c)
	assert.Equal(t, "private, max-age=3600", recorder.Header().Get("cache-control"))
}

func TestErrorLogMiddlewarePassesBodyThrough(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	ErrorLogMiddleware(c)
	c.Writer.WriteHeader(http.StatusBadRequest)
	_, err := c.Writer.Write([]byte("bad request body"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "bad request body", recorder.Body.String())
}
