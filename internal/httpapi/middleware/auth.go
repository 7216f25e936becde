package middleware

import (
	"net/http"
	"strings"

	"bloghub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// It resolves the bearer token to the provider identity {externalId, email}
// and injects it into the request context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// Set identity in context for handlers to use
		c.Set("claims", claims)
		c.Set("externalID", claims.ExternalID())
		c.Set("email", claims.Email)

		c.Next()
	}
}

// UserSync runs after AuthMiddleware and materializes the provider identity
// as a local user row (lazy upsert by email), exposing it as "currentUser".
func UserSync(userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		externalID := c.GetString("externalID")
		email := c.GetString("email")
		if externalID == "" || email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		user, err := userService.Sync(c.Request.Context(), externalID, email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
			c.Abort()
			return
		}

		c.Set("currentUser", user)
		c.Next()
	}
}
