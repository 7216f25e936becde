package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const ( // ping pong (2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time to write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // send pings before the pong deadline expires
	MaxMessageSize = 512                 // maximum message size allowed from peer
)

// Client is one user's live push channel. The registry keeps at most one
// Client per user; a replaced or disconnected client is closed and ignored.
type Client struct {
	UserID      string          // user identity carried in the connection URI
	Conn        *websocket.Conn // WebSocket connection
	SendChannel chan []byte     // channel for outbound messages
	Registry    *Registry       // reference to the owning registry

	closeOnce sync.Once
}

// constructor new client
func NewClient(userID string, conn *websocket.Conn, registry *Registry) *Client {
	return &Client{
		UserID:      userID,
		Conn:        conn,
		SendChannel: make(chan []byte, 16),
		Registry:    registry,
	}
}

// ReadPump drains inbound frames to keep pong handling alive and detects the
// peer going away; on exit it unregisters this client.
func (c *Client) ReadPump() {
	defer func() {
		c.Registry.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		// push channel is server-to-client; inbound payloads are discarded
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump writes queued frames and heartbeats until the send channel closes.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.SendChannel:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues a frame without blocking. Delivery is best-effort: a closed or
// backed-up client drops the frame.
func (c *Client) Send(message []byte) bool {
	defer func() {
		// SendChannel may close concurrently with a push
		recover()
	}()

	select {
	case c.SendChannel <- message:
		return true
	default:
		return false
	}
}

// Close shuts the outbound channel exactly once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.SendChannel)
	})
}
