package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades HTTP requests into managed draft connections.
type WebSocketHandler struct {
	manager  *ConnectionManager
	router   CommandRouter
	upgrader websocket.Upgrader
	config   ConnectionConfig
}

// NewWebSocketHandler creates a handler wired to the fanout registry and the
// command router.
func NewWebSocketHandler(manager *ConnectionManager, router CommandRouter, config ConnectionConfig) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
		router:  router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
	}
}

// HandleDraftConnection upgrades the request and starts the connection
// pumps. The client subscribes to a session with a subscribe message after
// connecting.
func (h *WebSocketHandler) HandleDraftConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		send:        make(chan []byte, h.config.SendBufferSize),
		done:        make(chan struct{}),
		manager:     h.manager,
		router:      h.router,
		config:      h.config,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket connection established")
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"total_connections":%d,"total_sessions":%d}`,
		h.manager.TotalConnections(), h.manager.TotalSessions())
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/draft", h.HandleDraftConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
