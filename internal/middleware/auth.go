package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"checkup-server/internal/config"
	"checkup-server/internal/utils"
)

// Principal is the authenticated doctor derived from the access token.
type Principal struct {
	ID       string
	Username string
	Name     string
}

const principalKey = "principal"

// AuthMiddleware creates a middleware for JWT authentication. Requests
// without a valid session are rejected with the fixed body the frontend
// keys off: {"error": "unauthenticated"}.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "unauthenticated")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "unauthenticated")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "unauthenticated")
			c.Abort()
			return
		}

		c.Set(principalKey, Principal{
			ID:       claims.DoctorID,
			Username: claims.Username,
			Name:     claims.Name,
		})

		c.Next()
	}
}

// GetPrincipal returns the authenticated doctor from the request context.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
