package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tagmatrix/internal/delivery/dto"
	"tagmatrix/internal/logger"
)

// Connection represents one WebSocket connection, associated with a
// session once the client sends its first drop event.
type Connection struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn
	Send      chan dto.WebSocketMessage
	Hub       *Hub
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewConnection creates a new WebSocket connection.
func NewConnection(id string, conn *websocket.Conn, hub *Hub) *Connection {
	return &Connection{
		ID:     id,
		Conn:   conn,
		Send:   make(chan dto.WebSocketMessage, 256),
		Hub:    hub,
		logger: logger.Get(),
	}
}

// SetSession associates this connection with a session id.
func (c *Connection) SetSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SessionID = sessionID
}

// GetSession returns the session id this connection is bound to, if any.
func (c *Connection) GetSession() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SessionID
}

// ReadPump pumps messages from the websocket connection to the hub.
func (c *Connection) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("connection read pump stopping due to context cancellation", zap.String("connection_id", c.ID))
			return
		default:
			var message dto.WebSocketMessage
			err := c.Conn.ReadJSON(&message)
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					c.logger.Error("websocket read error", zap.Error(err), zap.String("connection_id", c.ID))
				} else {
					c.logger.Info("websocket connection closed", zap.String("connection_id", c.ID))
				}
				return
			}

			c.logger.Debug("received websocket message",
				zap.String("connection_id", c.ID),
				zap.String("message_type", string(message.Type)))

			select {
			case c.Hub.Broadcast <- HubMessage{Connection: c, Message: message}:
			default:
				c.logger.Warn("hub broadcast channel is full", zap.String("connection_id", c.ID))
				return
			}
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Connection) WritePump(ctx context.Context) {
	defer c.Conn.Close()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("connection write pump stopping due to context cancellation", zap.String("connection_id", c.ID))
			return
		case message, ok := <-c.Send:
			if !ok {
				c.logger.Info("send channel closed", zap.String("connection_id", c.ID))
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.logger.Debug("sending websocket message",
				zap.String("connection_id", c.ID),
				zap.String("message_type", string(message.Type)))

			if err := c.Conn.WriteJSON(message); err != nil {
				c.logger.Error("websocket write error", zap.Error(err), zap.String("connection_id", c.ID))
				return
			}
		}
	}
}

// SendMessage sends a message to this connection.
func (c *Connection) SendMessage(message dto.WebSocketMessage) {
	select {
	case c.Send <- message:
	default:
		c.logger.Warn("connection send channel is full, closing connection", zap.String("connection_id", c.ID))
		close(c.Send)
	}
}
