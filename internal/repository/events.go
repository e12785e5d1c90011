package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/draftroomhq/draftroom/internal/models"
)

const eventColumns = `id, session_id, event_type, payload, created_at`

// AppendEvent appends a single event outside any surrounding transaction.
func (r *Repository) AppendEvent(ctx context.Context, event *models.DraftEvent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO draft_events (id, session_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.SessionID, event.Type, event.Payload, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// appendEventTx appends an event inside an open transaction. Used by every
// mutation so the log entry commits with the state change it describes.
func appendEventTx(ctx context.Context, tx pgx.Tx, event *models.DraftEvent) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO draft_events (id, session_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.SessionID, event.Type, event.Payload, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// ListBySession returns a session's events in insertion order.
func (r *Repository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.DraftEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM draft_events
		WHERE session_id = $1 ORDER BY created_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListBySessionAndType returns a session's events of one type, oldest first.
func (r *Repository) ListBySessionAndType(ctx context.Context, sessionID uuid.UUID, eventType models.EventType) ([]models.DraftEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM draft_events
		WHERE session_id = $1 AND event_type = $2 ORDER BY created_at ASC, id ASC`,
		sessionID, eventType)
	if err != nil {
		return nil, fmt.Errorf("failed to list events by type: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// CountBySession returns the number of events logged for a session.
func (r *Repository) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM draft_events WHERE session_id = $1`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func collectEvents(rows pgx.Rows) ([]models.DraftEvent, error) {
	var out []models.DraftEvent
	for rows.Next() {
		var e models.DraftEvent
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Type, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
