package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/draftroomhq/draftroom/internal/apperr"
	"github.com/draftroomhq/draftroom/internal/models"
)

// TeamExists reports whether a team row exists.
func (r *Repository) TeamExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM teams WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check team: %w", err)
	}
	return exists, nil
}

// GetTeam loads one team row.
func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var t models.Team
	err := r.pool.QueryRow(ctx,
		`SELECT id, draft_id, name, code, created_at FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.DraftID, &t.Name, &t.Code, &t.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NewNotFound("team %s not found", id)
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &t, nil
}
