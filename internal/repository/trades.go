package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/draftroomhq/draftroom/internal/apperr"
	"github.com/draftroomhq/draftroom/internal/events"
	"github.com/draftroomhq/draftroom/internal/models"
)

const tradeColumns = `id, session_id, from_team_id, to_team_id, status,
	from_team_value, to_team_value, value_difference, proposed_at, responded_at`

// CreateTrade persists the trade, every detail row and the TradeProposed
// event as a single atomic unit: either all rows exist afterwards or none
// do.
func (r *Repository) CreateTrade(ctx context.Context, trade *models.PickTrade, details []models.PickTradeDetail) error {
	event, err := events.NewTradeProposed(trade, trade.ProposedAt)
	if err != nil {
		return err
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO pick_trades (id, session_id, from_team_id, to_team_id, status,
				from_team_value, to_team_value, value_difference, proposed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			trade.ID, trade.SessionID, trade.FromTeamID, trade.ToTeamID, trade.Status,
			trade.FromTeamValue, trade.ToTeamValue, trade.ValueDifference, trade.ProposedAt)
		if err != nil {
			return fmt.Errorf("failed to create trade: %w", err)
		}

		for _, d := range details {
			_, err := tx.Exec(ctx, `
				INSERT INTO pick_trade_details (id, trade_id, pick_id, direction, pick_value)
				VALUES ($1, $2, $3, $4, $5)`,
				d.ID, d.TradeID, d.PickID, d.Direction, d.PickValue)
			if err != nil {
				return fmt.Errorf("failed to create trade detail: %w", err)
			}
		}

		return appendEventTx(ctx, tx, event)
	})
}

// GetTrade loads a trade with its details.
func (r *Repository) GetTrade(ctx context.Context, id uuid.UUID) (*models.PickTrade, []models.PickTradeDetail, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+tradeColumns+` FROM pick_trades WHERE id = $1`, id)
	trade, err := scanTrade(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil, apperr.NewNotFound("trade %s not found", id)
		}
		return nil, nil, fmt.Errorf("failed to get trade: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, trade_id, pick_id, direction, pick_value
		FROM pick_trade_details WHERE trade_id = $1`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trade details: %w", err)
	}
	defer rows.Close()

	var details []models.PickTradeDetail
	for rows.Next() {
		var d models.PickTradeDetail
		if err := rows.Scan(&d.ID, &d.TradeID, &d.PickID, &d.Direction, &d.PickValue); err != nil {
			return nil, nil, fmt.Errorf("failed to scan trade detail: %w", err)
		}
		details = append(details, d)
	}
	return trade, details, rows.Err()
}

// FindPendingForTeam returns every proposed trade a team is part of.
func (r *Repository) FindPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]models.PickTrade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tradeColumns+` FROM pick_trades
		WHERE status = $1 AND (from_team_id = $2 OR to_team_id = $2)
		ORDER BY proposed_at`, models.TradeStatusProposed, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending trades: %w", err)
	}
	defer rows.Close()

	var trades []models.PickTrade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *trade)
	}
	return trades, rows.Err()
}

// IsPickInActiveTrade reports whether a pick is referenced by any proposed
// trade other than excludeTradeID.
func (r *Repository) IsPickInActiveTrade(ctx context.Context, pickID uuid.UUID, excludeTradeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pick_trade_details d
			JOIN pick_trades t ON t.id = d.trade_id
			WHERE d.pick_id = $1 AND t.status = $2
			  AND ($3::uuid IS NULL OR t.id <> $3)
		)`, pickID, models.TradeStatusProposed, excludeTradeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active trades: %w", err)
	}
	return exists, nil
}

// UpdateTrade persists a trade's terminal status and appends the matching
// TradeExecuted or TradeRejected event in the same transaction.
func (r *Repository) UpdateTrade(ctx context.Context, trade *models.PickTrade) error {
	var event *models.DraftEvent
	var err error
	switch trade.Status {
	case models.TradeStatusAccepted:
		event, err = events.NewTradeExecuted(trade, *trade.RespondedAt)
	case models.TradeStatusRejected:
		event, err = events.NewTradeRejected(trade, trade.ToTeamID, *trade.RespondedAt)
	default:
		return apperr.NewInvalidState("cannot persist trade in status %s", trade.Status)
	}
	if err != nil {
		return err
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE pick_trades
			SET status = $2, responded_at = $3
			WHERE id = $1 AND status = $4`,
			trade.ID, trade.Status, trade.RespondedAt, models.TradeStatusProposed)
		if err != nil {
			return fmt.Errorf("failed to update trade: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NewInvalidState("trade %s is no longer proposed", trade.ID)
		}
		return appendEventTx(ctx, tx, event)
	})
}

func scanTrade(row pgx.Row) (*models.PickTrade, error) {
	var t models.PickTrade
	err := row.Scan(&t.ID, &t.SessionID, &t.FromTeamID, &t.ToTeamID, &t.Status,
		&t.FromTeamValue, &t.ToTeamValue, &t.ValueDifference, &t.ProposedAt, &t.RespondedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
