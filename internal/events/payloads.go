package events

import (
	"time"
)

// Event payload types shared between the coordinator, the event log and the
// gateway.

// SessionCreatedPayload is the payload for a SessionCreated event
type SessionCreatedPayload struct {
	DraftID            string `json:"draft_id"`
	TimePerPickSeconds int    `json:"time_per_pick_seconds"`
	AutoPickEnabled    bool   `json:"auto_pick_enabled"`
	ChartType          string `json:"chart_type"`
}

// SessionStartedPayload is the payload for a SessionStarted event
type SessionStartedPayload struct {
	StartedAt         time.Time `json:"started_at"`
	CurrentPickNumber int       `json:"current_pick_number"`
}

// SessionPausedPayload is the payload for a SessionPaused event
type SessionPausedPayload struct {
	PausedAt      time.Time `json:"paused_at"`
	TimeRemaining int       `json:"time_remaining"`
}

// SessionResumedPayload is the payload for a SessionResumed event
type SessionResumedPayload struct {
	ResumedAt     time.Time `json:"resumed_at"`
	TimeRemaining int       `json:"time_remaining"`
}

// SessionCompletedPayload is the payload for a SessionCompleted event
type SessionCompletedPayload struct {
	CompletedAt time.Time `json:"completed_at"`
	TotalPicks  int       `json:"total_picks"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	PickID      string    `json:"pick_id"`
	TeamID      string    `json:"team_id"`
	PlayerID    string    `json:"player_id"`
	Round       int       `json:"round"`
	PickNumber  int       `json:"pick_number"`
	OverallPick int       `json:"overall_pick"`
	AutoPick    bool      `json:"auto_pick"`
	MadeAt      time.Time `json:"made_at"`
}

// ClockUpdatePayload is the payload for a ClockUpdate event. Clock updates
// are advisory broadcasts and are not durably logged on every tick.
type ClockUpdatePayload struct {
	TimeRemaining     int       `json:"time_remaining"`
	CurrentPickNumber int       `json:"current_pick_number"`
	TickedAt          time.Time `json:"ticked_at"`
}

// TradeProposedPayload is the payload for a TradeProposed event
type TradeProposedPayload struct {
	TradeID       string    `json:"trade_id"`
	FromTeamID    string    `json:"from_team_id"`
	ToTeamID      string    `json:"to_team_id"`
	FromTeamValue float64   `json:"from_team_value"`
	ToTeamValue   float64   `json:"to_team_value"`
	ProposedAt    time.Time `json:"proposed_at"`
}

// TradeExecutedPayload is the payload for a TradeExecuted event
type TradeExecutedPayload struct {
	TradeID    string    `json:"trade_id"`
	FromTeamID string    `json:"from_team_id"`
	ToTeamID   string    `json:"to_team_id"`
	ExecutedAt time.Time `json:"executed_at"`
}

// TradeRejectedPayload is the payload for a TradeRejected event
type TradeRejectedPayload struct {
	TradeID         string    `json:"trade_id"`
	RejectingTeamID string    `json:"rejecting_team_id"`
	RejectedAt      time.Time `json:"rejected_at"`
}
