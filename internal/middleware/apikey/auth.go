package apikey

import (
	"crypto/subtle"

	"Caffinate/internal/config"
	"Caffinate/pkg/back"
	"Caffinate/pkg/xerr"

	"github.com/gin-gonic/gin"
)

// Auth guards admin routes with a shared X-API-Key header. An empty
// configured key disables the check entirely, which is the local
// development mode.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := config.GetConfig().MainConfig.AdminAPIKey
		if expected == "" {
			c.Next()
			return
		}
		got := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			back.Error(c, xerr.Unauthorized, "Invalid or missing API key")
			c.Abort()
			return
		}
		c.Next()
	}
}
