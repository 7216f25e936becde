package handler

import (
	"net/http"

	"bloghub/internal/httpapi/models"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the synced local user installed by the UserSync
// middleware; aborts with 401 when the chain did not run.
func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("currentUser")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}

	user, ok := value.(*models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	return user, true
}
