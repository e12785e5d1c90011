package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/draftroomhq/draftroom/internal/apperr"
)

// TradeStatus defines the status of a pick trade.
type TradeStatus string

const (
	TradeStatusProposed TradeStatus = "PROPOSED"
	TradeStatusAccepted TradeStatus = "ACCEPTED"
	TradeStatusRejected TradeStatus = "REJECTED"
)

// TradeDirection tags which side of a trade a pick sits on.
type TradeDirection string

const (
	TradeDirectionFromTeam TradeDirection = "FROM_TEAM"
	TradeDirectionToTeam   TradeDirection = "TO_TEAM"
)

// PickTrade is a proposal to swap pick ownership between two teams.
// Accepted and Rejected are terminal.
type PickTrade struct {
	ID              uuid.UUID   `json:"id"`
	SessionID       uuid.UUID   `json:"session_id"`
	FromTeamID      uuid.UUID   `json:"from_team_id"`
	ToTeamID        uuid.UUID   `json:"to_team_id"`
	Status          TradeStatus `json:"status"`
	FromTeamValue   float64     `json:"from_team_value"`
	ToTeamValue     float64     `json:"to_team_value"`
	ValueDifference float64     `json:"value_difference"`
	ProposedAt      time.Time   `json:"proposed_at"`
	RespondedAt     *time.Time  `json:"responded_at,omitempty"`
}

// PickTradeDetail records one pick in a trade, priced at proposal time.
// The value is immutable after the proposal is written.
type PickTradeDetail struct {
	ID        uuid.UUID      `json:"id"`
	TradeID   uuid.UUID      `json:"trade_id"`
	PickID    uuid.UUID      `json:"pick_id"`
	Direction TradeDirection `json:"direction"`
	PickValue float64        `json:"pick_value"`
}

// Accept moves the trade to ACCEPTED. Legal only from PROPOSED.
func (t *PickTrade) Accept(now time.Time) error {
	if t.Status != TradeStatusProposed {
		return apperr.NewInvalidState("cannot accept trade in status %s", t.Status)
	}
	t.Status = TradeStatusAccepted
	t.RespondedAt = &now
	return nil
}

// Reject moves the trade to REJECTED. Legal only from PROPOSED.
func (t *PickTrade) Reject(now time.Time) error {
	if t.Status != TradeStatusProposed {
		return apperr.NewInvalidState("cannot reject trade in status %s", t.Status)
	}
	t.Status = TradeStatusRejected
	t.RespondedAt = &now
	return nil
}
