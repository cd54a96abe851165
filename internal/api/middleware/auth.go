package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/squirrelip/squirrel_server/internal/pkg/jwt"
	"github.com/squirrelip/squirrel_server/internal/pkg/response"
)

const (
	UserIDKey = "userID"

	DefaultCookieName = "token"
)

const (
	msgNoToken      = "Access denied. No token provided."
	msgInvalidToken = "Invalid or expired token."
)

// tokenFrom reads the session cookie first and falls back to a Bearer header.
func tokenFrom(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// Auth rejects the request with 401 unless it carries a valid token.
func Auth(jwtSecret, cookieName string) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return func(c *gin.Context) {
		tokenString := tokenFrom(c, cookieName)
		if tokenString == "" {
			response.AuthError(c, msgNoToken)
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, msgInvalidToken)
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}
