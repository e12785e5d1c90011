package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/draftroomhq/draftroom/internal/apperr"
	"github.com/draftroomhq/draftroom/internal/models"
)

// GetPlayer loads one player row.
func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var p models.Player
	err := r.pool.QueryRow(ctx,
		`SELECT id, full_name, position, rank, created_at FROM players WHERE id = $1`, id).
		Scan(&p.ID, &p.FullName, &p.Position, &p.Rank, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NewNotFound("player %s not found", id)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

// BestAvailable returns the highest-ranked player not yet assigned to any
// pick in the draft. Used by auto-pick when a clock expires.
func (r *Repository) BestAvailable(ctx context.Context, draftID uuid.UUID) (*models.Player, error) {
	var p models.Player
	err := r.pool.QueryRow(ctx, `
		SELECT p.id, p.full_name, p.position, p.rank, p.created_at
		FROM players p
		WHERE NOT EXISTS (
			SELECT 1 FROM draft_picks dp
			WHERE dp.draft_id = $1 AND dp.player_id = p.id
		)
		ORDER BY p.rank ASC
		LIMIT 1`, draftID).
		Scan(&p.ID, &p.FullName, &p.Position, &p.Rank, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NewNotFound("no available players in draft %s", draftID)
		}
		return nil, fmt.Errorf("failed to find best available player: %w", err)
	}
	return &p, nil
}
