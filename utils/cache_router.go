package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const CacheNoCache = 0

// CacheRouter stamps a cache-control header on every response it wraps.
// Pages and API answers run with CacheNoCache; media routes may opt into a
// positive max-age.
type CacheRouter struct {
	CacheTime int // seconds, CacheNoCache disables caching
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cr.CacheTime == CacheNoCache {
			c.Header("cache-control", "no-cache")
		} else {
			c.Header("cache-control", "private, max-age="+strconv.Itoa(cr.CacheTime))
		}
		c.Next()
	}
}
