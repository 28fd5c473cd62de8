package web

import (
	"strings"

	"mediafolio/storage"

	"github.com/gin-gonic/gin"
)

// MediaFetch serves uploaded files through the active storage backend, so the
// same /media/ URLs work in local and S3 mode.
func MediaFetch(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	storage.Get().Serve(path, c.Request, c.Writer)
}

func DisallowRobots(c *gin.Context) {
	c.String(200, "User-agent: *\nDisallow: /\n")
}
