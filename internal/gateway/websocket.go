package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	// ErrSendBufferFull means the client is too slow to drain its outbound
	// buffer and is treated as dead.
	ErrSendBufferFull = errors.New("send buffer full")
	// ErrConnectionClosed means the connection has already shut down.
	ErrConnectionClosed = errors.New("connection closed")
)

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// Connection represents one WebSocket client. Its buffered send channel
// decouples the coordinator from slow clients; a full buffer fails the send
// and the manager drops the connection.
type Connection struct {
	ID   string
	Conn *websocket.Conn

	send   chan []byte
	done   chan struct{}
	closed sync.Once

	manager *ConnectionManager
	router  CommandRouter
	config  ConnectionConfig

	ConnectedAt time.Time
	LastPing    time.Time
}

// Send queues data for delivery. Never blocks.
func (c *Connection) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Connection) shutdown() {
	c.closed.Do(func() {
		close(c.done)
		c.manager.RemoveConnection(c.ID)
		c.Conn.Close()
	})
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.shutdown()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
			c.LastPing = time.Now()
		}
	}
}

// readPump parses client messages and routes them.
func (c *Connection) readPump() {
	defer c.shutdown()

	c.Conn.SetReadLimit(c.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	}
}

func (c *Connection) handleClientMessage(raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", c.ID).
			Msg("malformed client message")
		c.manager.SendToConnection(c.ID, NewErrorMessage("malformed message"))
		return
	}

	switch msg.Type {
	case MessageTypePing:
		c.manager.SendToConnection(c.ID, NewPongMessage())
	case MessageTypeSubscribe:
		c.manager.AddConnection(c.ID, msg.SessionID, c)
		c.router.Subscribe(c.ID, msg.SessionID)
	case MessageTypeMakePick:
		c.router.MakePick(c.ID, msg.SessionID, msg.PlayerID)
	case MessageTypeProposeTrade:
		c.router.ProposeTrade(c.ID, msg.SessionID, msg.FromTeamID, msg.ToTeamID, msg.PickIDs)
	default:
		log.Debug().
			Str("connection_id", c.ID).
			Str("type", string(msg.Type)).
			Msg("unknown client message type")
		c.manager.SendToConnection(c.ID, NewErrorMessage("unknown message type"))
	}
}

// CommandRouter receives parsed client commands. Implemented by the session
// hub; command results surface as server messages, not return values.
type CommandRouter interface {
	Subscribe(connID string, sessionID uuid.UUID)
	MakePick(connID string, sessionID, playerID uuid.UUID)
	ProposeTrade(connID string, sessionID, fromTeamID, toTeamID uuid.UUID, pickIDs []uuid.UUID)
}
