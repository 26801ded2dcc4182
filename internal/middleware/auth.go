package middleware

import (
	"net/http"
	"strings"

	"github.com/ukai02/iitk-transport/config"
	"github.com/ukai02/iitk-transport/internal/auth"

	"github.com/gin-gonic/gin"
)

// AdminRequired validates the bearer token and sets the admin identity in
// context. There is no implicit session state: every request carries its
// own credentials.
func AdminRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("admin_id", claims.AdminID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// GetAdminID returns the authenticated admin ID from context (must be
// used after AdminRequired).
func GetAdminID(c *gin.Context) uint {
	v, _ := c.Get("admin_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}
