package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tablebook/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards the admin surface. Guests book without accounts, so
// the only authenticated role is the restaurant operator.
type AuthMiddleware struct {
	jwtService *jwt.Service
}

const ctxAdminSubjectKey = "admin_subject"

func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if claims.Role != jwt.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Set(ctxAdminSubjectKey, claims.Subject)
		c.Next()
	}
}

func GetAdminSubject(c *gin.Context) (string, bool) {
	subject, exists := c.Get(ctxAdminSubjectKey)
	if !exists {
		return "", false
	}
	s, ok := subject.(string)
	return s, ok
}
