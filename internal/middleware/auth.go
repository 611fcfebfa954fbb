package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"frame-lab-backend/internal/config"
	"frame-lab-backend/internal/session"
	"frame-lab-backend/internal/supabase"
)

const (
	UserIDKey       = "user_id"
	SessionTokenKey = "X-Session-Token"
)

// SessionAuth gates API routes on the live session. The session token must
// match the guard's current token; a mismatch is the signed-in-elsewhere
// signal and is reported without detail (the UI just returns to the login
// screen). When a Bearer access token is sent as well, its signature and
// subject are verified against the guard's account.
func SessionAuth(cfg *config.Config, guard *session.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionTokenKey)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			c.Abort()
			return
		}

		if !guard.Matches(token) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session invalid"})
			c.Abort()
			return
		}

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
				c.Abort()
				return
			}

			userID, _, err := supabase.ParseAccessToken(cfg.SupabaseJWTSecret, strings.TrimSpace(parts[1]))
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "message": err.Error()})
				c.Abort()
				return
			}
			if userID != guard.UserID() {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "token does not match session"})
				c.Abort()
				return
			}
		}

		c.Set(UserIDKey, guard.UserID().String())
		c.Next()
	}
}
