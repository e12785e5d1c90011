package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/draftroomhq/draftroom/internal/apperr"
)

// SessionStatus defines the lifecycle status of a draft session.
type SessionStatus string

const (
	SessionStatusNotStarted SessionStatus = "NOT_STARTED"
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusPaused     SessionStatus = "PAUSED"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
)

// Bounds for the per-pick clock. Anything shorter than 10 seconds is not a
// usable window for a human pick; anything past an hour stalls the room.
const (
	MinTimePerPickSeconds = 10
	MaxTimePerPickSeconds = 3600
)

// DraftSession is the durable state of one live draft room. The row is the
// fast queryable projection; the event log is the audit trail. Owned
// exclusively by the session coordinator for its draft.
type DraftSession struct {
	ID                 uuid.UUID     `json:"id"`
	DraftID            uuid.UUID     `json:"draft_id"`
	Status             SessionStatus `json:"status"`
	CurrentPickNumber  int           `json:"current_pick_number"`
	TimePerPickSeconds int           `json:"time_per_pick_seconds"`
	AutoPickEnabled    bool          `json:"auto_pick_enabled"`
	ChartType          ChartType     `json:"chart_type"`
	StartedAt          *time.Time    `json:"started_at,omitempty"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// NewDraftSession builds a session ready to start at pick 1. The per-pick
// clock must fall within the documented bounds.
func NewDraftSession(draftID uuid.UUID, timePerPickSeconds int, autoPickEnabled bool, chartType ChartType, now time.Time) (*DraftSession, error) {
	if timePerPickSeconds < MinTimePerPickSeconds || timePerPickSeconds > MaxTimePerPickSeconds {
		return nil, apperr.NewValidation("time_per_pick_seconds must be between %d and %d",
			MinTimePerPickSeconds, MaxTimePerPickSeconds)
	}
	return &DraftSession{
		ID:                 uuid.New(),
		DraftID:            draftID,
		Status:             SessionStatusNotStarted,
		CurrentPickNumber:  1,
		TimePerPickSeconds: timePerPickSeconds,
		AutoPickEnabled:    autoPickEnabled,
		ChartType:          chartType,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Start moves the session into IN_PROGRESS. Legal from NOT_STARTED and
// PAUSED only; StartedAt is set on the first call and never cleared.
// Re-starting an in-progress or completed session is an error, not a no-op:
// callers rely on that to detect duplicate commands.
func (s *DraftSession) Start(now time.Time) error {
	switch s.Status {
	case SessionStatusNotStarted, SessionStatusPaused:
	default:
		return apperr.NewInvalidState("cannot start session in status %s", s.Status)
	}
	if s.StartedAt == nil {
		s.StartedAt = &now
	}
	s.Status = SessionStatusInProgress
	s.UpdatedAt = now
	return nil
}

// Pause is legal only while IN_PROGRESS.
func (s *DraftSession) Pause(now time.Time) error {
	if s.Status != SessionStatusInProgress {
		return apperr.NewInvalidState("cannot pause session in status %s", s.Status)
	}
	s.Status = SessionStatusPaused
	s.UpdatedAt = now
	return nil
}

// Complete is legal from IN_PROGRESS or PAUSED and is terminal.
func (s *DraftSession) Complete(now time.Time) error {
	switch s.Status {
	case SessionStatusInProgress, SessionStatusPaused:
	default:
		return apperr.NewInvalidState("cannot complete session in status %s", s.Status)
	}
	s.Status = SessionStatusCompleted
	s.CompletedAt = &now
	s.UpdatedAt = now
	return nil
}

// AdvancePick increments the current pick pointer. Legal only while
// IN_PROGRESS; the pointer never moves backwards.
func (s *DraftSession) AdvancePick(now time.Time) error {
	if s.Status != SessionStatusInProgress {
		return apperr.NewInvalidState("cannot advance pick in status %s", s.Status)
	}
	s.CurrentPickNumber++
	s.UpdatedAt = now
	return nil
}
