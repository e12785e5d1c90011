package gateway

import (
	"github.com/google/uuid"
)

// MessageType discriminates every message on the wire.
type MessageType string

// Client -> Server
const (
	MessageTypeSubscribe    MessageType = "subscribe"
	MessageTypeMakePick     MessageType = "make_pick"
	MessageTypeProposeTrade MessageType = "propose_trade"
	MessageTypePing         MessageType = "ping"
)

// Server -> Client
const (
	MessageTypeSubscribed    MessageType = "subscribed"
	MessageTypePickMade      MessageType = "pick_made"
	MessageTypeClockUpdate   MessageType = "clock_update"
	MessageTypeDraftStatus   MessageType = "draft_status"
	MessageTypeTradeProposed MessageType = "trade_proposed"
	MessageTypeTradeExecuted MessageType = "trade_executed"
	MessageTypeTradeRejected MessageType = "trade_rejected"
	MessageTypeError         MessageType = "error"
	MessageTypePong          MessageType = "pong"
)

// ClientMessage is the inbound envelope. Fields beyond Type are populated
// depending on the message type.
type ClientMessage struct {
	Type       MessageType `json:"type"`
	SessionID  uuid.UUID   `json:"session_id,omitempty"`
	PlayerID   uuid.UUID   `json:"player_id,omitempty"`
	FromTeamID uuid.UUID   `json:"from_team_id,omitempty"`
	ToTeamID   uuid.UUID   `json:"to_team_id,omitempty"`
	PickIDs    []uuid.UUID `json:"pick_ids,omitempty"`
}

// SubscribedMessage acknowledges a subscription and carries enough state for
// a late joiner to re-sync its view.
type SubscribedMessage struct {
	Type              MessageType `json:"type"`
	SessionID         uuid.UUID   `json:"session_id"`
	Status            string      `json:"status"`
	TimeRemaining     int         `json:"time_remaining"`
	CurrentPickNumber int         `json:"current_pick_number"`
}

func NewSubscribedMessage(sessionID uuid.UUID, status string, timeRemaining, currentPickNumber int) SubscribedMessage {
	return SubscribedMessage{
		Type:              MessageTypeSubscribed,
		SessionID:         sessionID,
		Status:            status,
		TimeRemaining:     timeRemaining,
		CurrentPickNumber: currentPickNumber,
	}
}

type PickMadeMessage struct {
	Type       MessageType `json:"type"`
	SessionID  uuid.UUID   `json:"session_id"`
	PickID     uuid.UUID   `json:"pick_id"`
	TeamID     uuid.UUID   `json:"team_id"`
	PlayerID   uuid.UUID   `json:"player_id"`
	Round      int         `json:"round"`
	PickNumber int         `json:"pick_number"`
	PlayerName string      `json:"player_name"`
	TeamName   string      `json:"team_name"`
}

func NewPickMadeMessage(sessionID, pickID, teamID, playerID uuid.UUID, round, pickNumber int, playerName, teamName string) PickMadeMessage {
	return PickMadeMessage{
		Type:       MessageTypePickMade,
		SessionID:  sessionID,
		PickID:     pickID,
		TeamID:     teamID,
		PlayerID:   playerID,
		Round:      round,
		PickNumber: pickNumber,
		PlayerName: playerName,
		TeamName:   teamName,
	}
}

type ClockUpdateMessage struct {
	Type              MessageType `json:"type"`
	SessionID         uuid.UUID   `json:"session_id"`
	TimeRemaining     int         `json:"time_remaining"`
	CurrentPickNumber int         `json:"current_pick_number"`
}

func NewClockUpdateMessage(sessionID uuid.UUID, timeRemaining, currentPickNumber int) ClockUpdateMessage {
	return ClockUpdateMessage{
		Type:              MessageTypeClockUpdate,
		SessionID:         sessionID,
		TimeRemaining:     timeRemaining,
		CurrentPickNumber: currentPickNumber,
	}
}

type DraftStatusMessage struct {
	Type      MessageType `json:"type"`
	SessionID uuid.UUID   `json:"session_id"`
	Status    string      `json:"status"`
}

func NewDraftStatusMessage(sessionID uuid.UUID, status string) DraftStatusMessage {
	return DraftStatusMessage{
		Type:      MessageTypeDraftStatus,
		SessionID: sessionID,
		Status:    status,
	}
}

type TradeProposedMessage struct {
	Type          MessageType `json:"type"`
	SessionID     uuid.UUID   `json:"session_id"`
	TradeID       uuid.UUID   `json:"trade_id"`
	FromTeamID    uuid.UUID   `json:"from_team_id"`
	ToTeamID      uuid.UUID   `json:"to_team_id"`
	FromTeamName  string      `json:"from_team_name"`
	ToTeamName    string      `json:"to_team_name"`
	FromTeamPicks []uuid.UUID `json:"from_team_picks"`
	ToTeamPicks   []uuid.UUID `json:"to_team_picks"`
	FromTeamValue float64     `json:"from_team_value"`
	ToTeamValue   float64     `json:"to_team_value"`
}

type TradeExecutedMessage struct {
	Type       MessageType `json:"type"`
	SessionID  uuid.UUID   `json:"session_id"`
	TradeID    uuid.UUID   `json:"trade_id"`
	FromTeamID uuid.UUID   `json:"from_team_id"`
	ToTeamID   uuid.UUID   `json:"to_team_id"`
}

func NewTradeExecutedMessage(sessionID, tradeID, fromTeamID, toTeamID uuid.UUID) TradeExecutedMessage {
	return TradeExecutedMessage{
		Type:       MessageTypeTradeExecuted,
		SessionID:  sessionID,
		TradeID:    tradeID,
		FromTeamID: fromTeamID,
		ToTeamID:   toTeamID,
	}
}

type TradeRejectedMessage struct {
	Type            MessageType `json:"type"`
	SessionID       uuid.UUID   `json:"session_id"`
	TradeID         uuid.UUID   `json:"trade_id"`
	RejectingTeamID uuid.UUID   `json:"rejecting_team_id"`
}

func NewTradeRejectedMessage(sessionID, tradeID, rejectingTeamID uuid.UUID) TradeRejectedMessage {
	return TradeRejectedMessage{
		Type:            MessageTypeTradeRejected,
		SessionID:       sessionID,
		TradeID:         tradeID,
		RejectingTeamID: rejectingTeamID,
	}
}

type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

func NewErrorMessage(msg string) ErrorMessage {
	return ErrorMessage{Type: MessageTypeError, Message: msg}
}

type PongMessage struct {
	Type MessageType `json:"type"`
}

func NewPongMessage() PongMessage {
	return PongMessage{Type: MessageTypePong}
}
