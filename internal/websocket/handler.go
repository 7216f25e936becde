package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HTTP upgrade handler to WebSocket connections

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// allow all origins for development purpose; can restrict later
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler: handle upgrade request from HTTP connection to WebSocket.
// The user identity rides on the connection URI (?userId=...).
func WSHandler(registry *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId"})
			return
		}

		// upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade to WebSocket"})
			return
		}

		client := NewClient(userID, conn, registry)
		registry.Register(client)

		// start goroutines for read and write pumps
		go client.ReadPump()
		go client.WritePump()
	}
}
