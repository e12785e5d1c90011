package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of a draft session event.
type EventType string

const (
	EventTypeSessionCreated   EventType = "SessionCreated"
	EventTypeSessionStarted   EventType = "SessionStarted"
	EventTypeSessionPaused    EventType = "SessionPaused"
	EventTypeSessionResumed   EventType = "SessionResumed"
	EventTypeSessionCompleted EventType = "SessionCompleted"
	EventTypePickMade         EventType = "PickMade"
	EventTypeClockUpdate      EventType = "ClockUpdate"
	EventTypeTradeProposed    EventType = "TradeProposed"
	EventTypeTradeExecuted    EventType = "TradeExecuted"
	EventTypeTradeRejected    EventType = "TradeRejected"
)

// DraftEvent is one entry in the append-only session event log. Events are
// never updated or deleted; insertion order matches causal order for a
// session because only its coordinator writes to the log.
type DraftEvent struct {
	ID        uuid.UUID       `json:"id"`
	SessionID uuid.UUID       `json:"session_id"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
