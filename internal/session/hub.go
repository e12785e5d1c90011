package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/draftroomhq/draftroom/internal/gateway"
)

// Hub owns one coordinator per active session. It is the process-wide entry
// point for client commands and management operations; sessions are fully
// independent and run in parallel.
type Hub struct {
	mu           sync.Mutex
	coordinators map[uuid.UUID]*Coordinator

	ctx  context.Context
	deps Deps
}

// NewHub creates an empty hub.
func NewHub(ctx context.Context, deps Deps) *Hub {
	return &Hub{
		coordinators: make(map[uuid.UUID]*Coordinator),
		ctx:          ctx,
		deps:         deps,
	}
}

// Coordinator returns the coordinator for a session, loading the session
// row and spawning the actor on first use.
func (h *Hub) Coordinator(ctx context.Context, sessionID uuid.UUID) (*Coordinator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.coordinators[sessionID]; ok {
		return c, nil
	}

	sess, err := h.deps.Store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c := NewCoordinator(h.ctx, sess, h.deps)
	h.coordinators[sessionID] = c
	return c, nil
}

// Remove stops and forgets a session's coordinator.
func (h *Hub) Remove(sessionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.coordinators[sessionID]; ok {
		c.Stop()
		delete(h.coordinators, sessionID)
	}
}

// Shutdown stops every coordinator.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.coordinators {
		c.Stop()
		delete(h.coordinators, id)
	}
}

// Subscribe implements gateway.CommandRouter.
func (h *Hub) Subscribe(connID string, sessionID uuid.UUID) {
	c, err := h.Coordinator(h.ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("subscribe to unknown session")
		h.deps.Fanout.SendToConnection(connID, gateway.NewErrorMessage("session not found"))
		return
	}
	c.Subscribe(connID)
}

// MakePick implements gateway.CommandRouter.
func (h *Hub) MakePick(connID string, sessionID, playerID uuid.UUID) {
	c, err := h.Coordinator(h.ctx, sessionID)
	if err != nil {
		h.deps.Fanout.SendToConnection(connID, gateway.NewErrorMessage("session not found"))
		return
	}
	c.MakePick(connID, playerID)
}

// ProposeTrade implements gateway.CommandRouter.
func (h *Hub) ProposeTrade(connID string, sessionID, fromTeamID, toTeamID uuid.UUID, pickIDs []uuid.UUID) {
	c, err := h.Coordinator(h.ctx, sessionID)
	if err != nil {
		h.deps.Fanout.SendToConnection(connID, gateway.NewErrorMessage("session not found"))
		return
	}
	c.ProposeTrade(connID, fromTeamID, toTeamID, pickIDs)
}
