package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/draftroomhq/draftroom/internal/models"
)

// newEvent wraps a payload into an append-ready DraftEvent.
func newEvent(sessionID uuid.UUID, eventType models.EventType, payload any, now time.Time) (*models.DraftEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &models.DraftEvent{
		ID:        uuid.New(),
		SessionID: sessionID,
		Type:      eventType,
		Payload:   data,
		CreatedAt: now,
	}, nil
}

// NewSessionCreated builds a SessionCreated event.
func NewSessionCreated(session *models.DraftSession, now time.Time) (*models.DraftEvent, error) {
	return newEvent(session.ID, models.EventTypeSessionCreated, SessionCreatedPayload{
		DraftID:            session.DraftID.String(),
		TimePerPickSeconds: session.TimePerPickSeconds,
		AutoPickEnabled:    session.AutoPickEnabled,
		ChartType:          string(session.ChartType),
	}, now)
}

// NewSessionStarted builds a SessionStarted event.
func NewSessionStarted(session *models.DraftSession, now time.Time) (*models.DraftEvent, error) {
	return newEvent(session.ID, models.EventTypeSessionStarted, SessionStartedPayload{
		StartedAt:         now,
		CurrentPickNumber: session.CurrentPickNumber,
	}, now)
}

// NewSessionPaused builds a SessionPaused event.
func NewSessionPaused(sessionID uuid.UUID, timeRemaining int, now time.Time) (*models.DraftEvent, error) {
	return newEvent(sessionID, models.EventTypeSessionPaused, SessionPausedPayload{
		PausedAt:      now,
		TimeRemaining: timeRemaining,
	}, now)
}

// NewSessionResumed builds a SessionResumed event.
func NewSessionResumed(sessionID uuid.UUID, timeRemaining int, now time.Time) (*models.DraftEvent, error) {
	return newEvent(sessionID, models.EventTypeSessionResumed, SessionResumedPayload{
		ResumedAt:     now,
		TimeRemaining: timeRemaining,
	}, now)
}

// NewSessionCompleted builds a SessionCompleted event.
func NewSessionCompleted(sessionID uuid.UUID, totalPicks int, now time.Time) (*models.DraftEvent, error) {
	return newEvent(sessionID, models.EventTypeSessionCompleted, SessionCompletedPayload{
		CompletedAt: now,
		TotalPicks:  totalPicks,
	}, now)
}

// NewPickMade builds a PickMade event.
func NewPickMade(sessionID uuid.UUID, pick *models.Pick, playerID uuid.UUID, autoPick bool, now time.Time) (*models.DraftEvent, error) {
	return newEvent(sessionID, models.EventTypePickMade, PickMadePayload{
		PickID:      pick.ID.String(),
		TeamID:      pick.TeamID.String(),
		PlayerID:    playerID.String(),
		Round:       pick.Round,
		PickNumber:  pick.Pick,
		OverallPick: pick.OverallPick,
		AutoPick:    autoPick,
		MadeAt:      now,
	}, now)
}

// NewClockUpdate builds a ClockUpdate event.
func NewClockUpdate(sessionID uuid.UUID, timeRemaining, currentPickNumber int, now time.Time) (*models.DraftEvent, error) {
	return newEvent(sessionID, models.EventTypeClockUpdate, ClockUpdatePayload{
		TimeRemaining:     timeRemaining,
		CurrentPickNumber: currentPickNumber,
		TickedAt:          now,
	}, now)
}

// NewTradeProposed builds a TradeProposed event.
func NewTradeProposed(trade *models.PickTrade, now time.Time) (*models.DraftEvent, error) {
	return newEvent(trade.SessionID, models.EventTypeTradeProposed, TradeProposedPayload{
		TradeID:       trade.ID.String(),
		FromTeamID:    trade.FromTeamID.String(),
		ToTeamID:      trade.ToTeamID.String(),
		FromTeamValue: trade.FromTeamValue,
		ToTeamValue:   trade.ToTeamValue,
		ProposedAt:    trade.ProposedAt,
	}, now)
}

// NewTradeExecuted builds a TradeExecuted event.
func NewTradeExecuted(trade *models.PickTrade, now time.Time) (*models.DraftEvent, error) {
	return newEvent(trade.SessionID, models.EventTypeTradeExecuted, TradeExecutedPayload{
		TradeID:    trade.ID.String(),
		FromTeamID: trade.FromTeamID.String(),
		ToTeamID:   trade.ToTeamID.String(),
		ExecutedAt: now,
	}, now)
}

// NewTradeRejected builds a TradeRejected event.
func NewTradeRejected(trade *models.PickTrade, rejectingTeamID uuid.UUID, now time.Time) (*models.DraftEvent, error) {
	return newEvent(trade.SessionID, models.EventTypeTradeRejected, TradeRejectedPayload{
		TradeID:         trade.ID.String(),
		RejectingTeamID: rejectingTeamID.String(),
		RejectedAt:      now,
	}, now)
}
