package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/draftroomhq/draftroom/internal/apperr"
	"github.com/draftroomhq/draftroom/internal/models"
)

const pickColumns = `id, draft_id, round, pick, overall_pick, team_id, player_id, picked_at`

// GetPick loads one pick row.
func (r *Repository) GetPick(ctx context.Context, id uuid.UUID) (*models.Pick, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+pickColumns+` FROM draft_picks WHERE id = $1`, id)
	pick, err := scanPick(row)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NewNotFound("pick %s not found", id)
		}
		return nil, fmt.Errorf("failed to get pick: %w", err)
	}
	return pick, nil
}

// GetPickByOverall loads the pick at an overall position in a draft.
func (r *Repository) GetPickByOverall(ctx context.Context, draftID uuid.UUID, overallPick int) (*models.Pick, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+pickColumns+` FROM draft_picks WHERE draft_id = $1 AND overall_pick = $2`,
		draftID, overallPick)
	pick, err := scanPick(row)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NewNotFound("pick %d not found in draft %s", overallPick, draftID)
		}
		return nil, fmt.Errorf("failed to get pick by overall: %w", err)
	}
	return pick, nil
}

// CountUnpicked returns how many slots in a draft still have no player.
func (r *Repository) CountUnpicked(ctx context.Context, draftID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM draft_picks WHERE draft_id = $1 AND player_id IS NULL`,
		draftID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unpicked: %w", err)
	}
	return count, nil
}

// TransferPicks swaps pick ownership between the two sides of a trade in one
// transaction. Each update requires the current owner to still match, so a
// concurrent change aborts the whole transfer; no partial swap is ever
// observable.
func (r *Repository) TransferPicks(ctx context.Context, fromTeamID, toTeamID uuid.UUID, fromPickIDs, toPickIDs []uuid.UUID) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := reassignPicks(ctx, tx, fromPickIDs, fromTeamID, toTeamID); err != nil {
			return err
		}
		return reassignPicks(ctx, tx, toPickIDs, toTeamID, fromTeamID)
	})
}

func reassignPicks(ctx context.Context, tx pgx.Tx, pickIDs []uuid.UUID, currentTeamID, newTeamID uuid.UUID) error {
	for _, pickID := range pickIDs {
		tag, err := tx.Exec(ctx, `
			UPDATE draft_picks
			SET team_id = $3
			WHERE id = $1 AND team_id = $2 AND player_id IS NULL`,
			pickID, currentTeamID, newTeamID)
		if err != nil {
			return fmt.Errorf("failed to transfer pick %s: %w", pickID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NewValidation("pick %s changed ownership or was used during the trade", pickID)
		}
	}
	return nil
}

func scanPick(row pgx.Row) (*models.Pick, error) {
	var p models.Pick
	err := row.Scan(&p.ID, &p.DraftID, &p.Round, &p.Pick, &p.OverallPick,
		&p.TeamID, &p.PlayerID, &p.PickedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
