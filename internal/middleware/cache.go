package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheControl marks GET responses as publicly cacheable for
// maxAge seconds and every other response as no-store
func CacheControl(maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || maxAge <= 0 {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
		c.Header("Vary", "Accept, Origin")
		c.Next()
	}
}

// NoStore disables caching for responses carrying guest data
func NoStore() gin.HandlerFunc {
	return CacheControl(0)
}
