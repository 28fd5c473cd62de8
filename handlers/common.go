package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Objects are addressed by a `pk` query parameter rather than a path segment.
func pkFromQuery(c *gin.Context) (uint64, bool) {
	pk, err := strconv.ParseUint(c.Query("pk"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pk"})
		return 0, false
	}
	return pk, true
}
