package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/draftroomhq/draftroom/internal/apperr"
	"github.com/draftroomhq/draftroom/internal/models"
)

const sessionColumns = `id, draft_id, status, current_pick_number, time_per_pick_seconds,
	auto_pick_enabled, chart_type, started_at, completed_at, created_at, updated_at`

// CreateSession persists a new session row and its SessionCreated event in
// one transaction.
func (r *Repository) CreateSession(ctx context.Context, session *models.DraftSession, event *models.DraftEvent) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO draft_sessions (id, draft_id, status, current_pick_number,
				time_per_pick_seconds, auto_pick_enabled, chart_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
			session.ID, session.DraftID, session.Status, session.CurrentPickNumber,
			session.TimePerPickSeconds, session.AutoPickEnabled, session.ChartType,
			session.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		return appendEventTx(ctx, tx, event)
	})
}

// GetSession loads one session row.
func (r *Repository) GetSession(ctx context.Context, id uuid.UUID) (*models.DraftSession, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM draft_sessions WHERE id = $1`, id)
	session, err := scanSession(row)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NewNotFound("session %s not found", id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// SaveSession updates the session row and appends its lifecycle event in one
// transaction.
func (r *Repository) SaveSession(ctx context.Context, session *models.DraftSession, event *models.DraftEvent) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE draft_sessions
			SET status = $2, current_pick_number = $3, started_at = $4,
				completed_at = $5, updated_at = $6
			WHERE id = $1`,
			session.ID, session.Status, session.CurrentPickNumber,
			session.StartedAt, session.CompletedAt, session.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NewNotFound("session %s not found", session.ID)
		}
		return appendEventTx(ctx, tx, event)
	})
}

// RecordPick assigns the player to the pick, advances the session row and
// appends the PickMade event as a single atomic unit.
func (r *Repository) RecordPick(ctx context.Context, pick *models.Pick, playerID uuid.UUID, pickedAt time.Time, session *models.DraftSession, event *models.DraftEvent) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE draft_picks
			SET player_id = $2, picked_at = $3
			WHERE id = $1 AND player_id IS NULL`,
			pick.ID, playerID, pickedAt)
		if err != nil {
			return fmt.Errorf("failed to assign player to pick: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NewValidation("pick %d has already been made", pick.OverallPick)
		}

		tag, err = tx.Exec(ctx, `
			UPDATE draft_sessions
			SET current_pick_number = $2, updated_at = $3
			WHERE id = $1`,
			session.ID, session.CurrentPickNumber, session.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to advance session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NewNotFound("session %s not found", session.ID)
		}

		return appendEventTx(ctx, tx, event)
	})
}

func scanSession(row pgx.Row) (*models.DraftSession, error) {
	var s models.DraftSession
	err := row.Scan(&s.ID, &s.DraftID, &s.Status, &s.CurrentPickNumber,
		&s.TimePerPickSeconds, &s.AutoPickEnabled, &s.ChartType,
		&s.StartedAt, &s.CompletedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
