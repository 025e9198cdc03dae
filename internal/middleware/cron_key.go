package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// CronKeyHeader carries the shared secret of the scheduler and of operators.
const CronKeyHeader = "X-Cron-Key"

// CronKeyAuth only lets through requests whose X-Cron-Key matches keyHash (bcrypt).
// With an empty keyHash every request is rejected.
func CronKeyAuth(keyHash string) gin.HandlerFunc {
	return keyGuard(keyHash, http.StatusUnauthorized, "Unauthorized")
}

// AdminKeyAuth guards tenant routes that write data shared by every tenant.
// The caller is already authenticated, so a missing or wrong key yields 403.
func AdminKeyAuth(keyHash string) gin.HandlerFunc {
	return keyGuard(keyHash, http.StatusForbidden, "Forbidden")
}

func keyGuard(keyHash string, deniedStatus int, deniedMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		key := c.GetHeader(CronKeyHeader)
		if keyHash == "" || key == "" {
			logger.Warn("Cron key missing or not configured", "path", c.FullPath())
			c.AbortWithStatusJSON(deniedStatus, gin.H{"error": deniedMsg})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)); err != nil {
			logger.Warn("Cron key mismatch", "path", c.FullPath())
			c.AbortWithStatusJSON(deniedStatus, gin.H{"error": deniedMsg})
			return
		}
		c.Next()
	}
}
