package gateway

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sender is the outbound handle for one client connection. Send must not
// block; it reports an error when the connection is closed or its buffer is
// full, which the manager treats as a dead connection.
type Sender interface {
	Send(data []byte) error
}

// ConnectionManager is the session fanout registry: connection id to sender,
// and session id to the ordered list of its connection ids. Delivery is
// best-effort and self-healing; a dead connection is detected lazily on send
// and removed, never proactively polled.
type ConnectionManager struct {
	mu       sync.RWMutex
	senders  map[string]Sender
	sessions map[uuid.UUID][]string
}

// NewConnectionManager creates an empty registry.
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		senders:  make(map[string]Sender),
		sessions: make(map[uuid.UUID][]string),
	}
}

// AddConnection registers a connection under a session.
func (cm *ConnectionManager) AddConnection(connID string, sessionID uuid.UUID, sender Sender) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.senders[connID] = sender
	cm.sessions[sessionID] = append(cm.sessions[sessionID], connID)

	log.Debug().
		Str("connection_id", connID).
		Str("session_id", sessionID.String()).
		Int("session_connections", len(cm.sessions[sessionID])).
		Msg("connection registered")
}

// RemoveConnection deletes the sender, strips the id from every session's
// list and prunes any session entry left empty.
func (cm *ConnectionManager) RemoveConnection(connID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.removeLocked(connID)
}

func (cm *ConnectionManager) removeLocked(connID string) {
	if _, ok := cm.senders[connID]; !ok {
		return
	}
	delete(cm.senders, connID)

	for sessionID, connIDs := range cm.sessions {
		kept := connIDs[:0]
		for _, id := range connIDs {
			if id != connID {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(cm.sessions, sessionID)
		} else {
			cm.sessions[sessionID] = kept
		}
	}

	log.Debug().Str("connection_id", connID).Msg("connection unregistered")
}

// BroadcastToSession serializes the message once and delivers the same
// encoded payload to every connection registered for the session. Any send
// failure removes that connection.
func (cm *ConnectionManager) BroadcastToSession(sessionID uuid.UUID, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal broadcast message")
		return
	}

	cm.mu.RLock()
	connIDs := make([]string, len(cm.sessions[sessionID]))
	copy(connIDs, cm.sessions[sessionID])
	cm.mu.RUnlock()

	var dead []string
	for _, connID := range connIDs {
		cm.mu.RLock()
		sender, ok := cm.senders[connID]
		cm.mu.RUnlock()
		if !ok {
			continue
		}
		if err := sender.Send(data); err != nil {
			log.Warn().
				Err(err).
				Str("connection_id", connID).
				Str("session_id", sessionID.String()).
				Msg("send failed, dropping connection")
			dead = append(dead, connID)
		}
	}

	if len(dead) > 0 {
		cm.mu.Lock()
		for _, connID := range dead {
			cm.removeLocked(connID)
		}
		cm.mu.Unlock()
	}
}

// SendToConnection delivers a message to a single connection, removing it on
// failure.
func (cm *ConnectionManager) SendToConnection(connID string, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal message")
		return
	}

	cm.mu.RLock()
	sender, ok := cm.senders[connID]
	cm.mu.RUnlock()
	if !ok {
		return
	}

	if err := sender.Send(data); err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", connID).
			Msg("send failed, dropping connection")
		cm.RemoveConnection(connID)
	}
}

// SessionConnectionCount returns the number of connections subscribed to a
// session.
func (cm *ConnectionManager) SessionConnectionCount(sessionID uuid.UUID) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.sessions[sessionID])
}

// TotalConnections returns the number of registered connections.
func (cm *ConnectionManager) TotalConnections() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.senders)
}

// TotalSessions returns the number of sessions with at least one connection.
func (cm *ConnectionManager) TotalSessions() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.sessions)
}
