package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/draftroomhq/draftroom/internal/apperr"
	"github.com/draftroomhq/draftroom/internal/models"
	"github.com/draftroomhq/draftroom/internal/valuechart"
)

// TeamRepository defines what the engine needs from team storage.
type TeamRepository interface {
	TeamExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PickRepository defines what the engine needs from pick storage.
// TransferPicks swaps ownership in one transaction; no partial transfer is
// ever observable.
type PickRepository interface {
	GetPick(ctx context.Context, id uuid.UUID) (*models.Pick, error)
	TransferPicks(ctx context.Context, fromTeamID, toTeamID uuid.UUID, fromPickIDs, toPickIDs []uuid.UUID) error
}

// TradeRepository defines what the engine needs from trade storage.
// CreateTrade persists the trade and its details as a single atomic unit.
type TradeRepository interface {
	CreateTrade(ctx context.Context, trade *models.PickTrade, details []models.PickTradeDetail) error
	GetTrade(ctx context.Context, id uuid.UUID) (*models.PickTrade, []models.PickTradeDetail, error)
	FindPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]models.PickTrade, error)
	IsPickInActiveTrade(ctx context.Context, pickID uuid.UUID, excludeTradeID *uuid.UUID) (bool, error)
	UpdateTrade(ctx context.Context, trade *models.PickTrade) error
}

// ProposeTradeRequest carries one trade proposal.
type ProposeTradeRequest struct {
	SessionID       uuid.UUID
	FromTeamID      uuid.UUID
	ToTeamID        uuid.UUID
	FromTeamPickIDs []uuid.UUID
	ToTeamPickIDs   []uuid.UUID
	ChartType       models.ChartType // empty means the session default
}

// Proposal is a fully priced, persisted trade proposal.
type Proposal struct {
	Trade   *models.PickTrade
	Details []models.PickTradeDetail
}

// Engine orchestrates propose/accept/reject for pick trades. The engine
// never retries a failed operation; failures surface to the caller for
// explicit re-submission.
type Engine struct {
	teams             TeamRepository
	picks             PickRepository
	trades            TradeRepository
	fairnessThreshold float64
	clock             clockwork.Clock
}

// NewEngine creates a trade engine with the default fairness threshold.
func NewEngine(teams TeamRepository, picks PickRepository, trades TradeRepository) *Engine {
	return &Engine{
		teams:             teams,
		picks:             picks,
		trades:            trades,
		fairnessThreshold: valuechart.DefaultFairnessThresholdPercent,
		clock:             clockwork.NewRealClock(),
	}
}

// WithFairnessThreshold overrides the fairness threshold percent.
func (e *Engine) WithFairnessThreshold(percent float64) *Engine {
	e.fairnessThreshold = percent
	return e
}

// WithClock overrides the wall clock, for tests.
func (e *Engine) WithClock(c clockwork.Clock) *Engine {
	e.clock = c
	return e
}

// ProposeTrade validates, prices and persists a trade proposal. Either every
// row of the proposal exists afterwards or none do.
func (e *Engine) ProposeTrade(ctx context.Context, req ProposeTradeRequest) (*Proposal, error) {
	if req.FromTeamID == req.ToTeamID {
		return nil, apperr.NewValidation("cannot trade with yourself")
	}
	if err := e.validatePickSets(req.FromTeamPickIDs, req.ToTeamPickIDs); err != nil {
		return nil, err
	}

	for _, teamID := range []uuid.UUID{req.FromTeamID, req.ToTeamID} {
		exists, err := e.teams.TeamExists(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up team: %w", err)
		}
		if !exists {
			return nil, apperr.NewNotFound("team %s not found", teamID)
		}
	}

	fromPicks, err := e.validatePicks(ctx, req.FromTeamID, req.FromTeamPickIDs, nil)
	if err != nil {
		return nil, err
	}
	toPicks, err := e.validatePicks(ctx, req.ToTeamID, req.ToTeamPickIDs, nil)
	if err != nil {
		return nil, err
	}

	chart, err := valuechart.Resolve(req.ChartType)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	trade := &models.PickTrade{
		ID:         uuid.New(),
		SessionID:  req.SessionID,
		FromTeamID: req.FromTeamID,
		ToTeamID:   req.ToTeamID,
		Status:     models.TradeStatusProposed,
		ProposedAt: now,
	}

	var details []models.PickTradeDetail
	for _, p := range fromPicks {
		value := chart.CalculatePickValue(p.OverallPick)
		trade.FromTeamValue += value
		details = append(details, models.PickTradeDetail{
			ID:        uuid.New(),
			TradeID:   trade.ID,
			PickID:    p.ID,
			Direction: models.TradeDirectionFromTeam,
			PickValue: value,
		})
	}
	for _, p := range toPicks {
		value := chart.CalculatePickValue(p.OverallPick)
		trade.ToTeamValue += value
		details = append(details, models.PickTradeDetail{
			ID:        uuid.New(),
			TradeID:   trade.ID,
			PickID:    p.ID,
			Direction: models.TradeDirectionToTeam,
			PickValue: value,
		})
	}
	trade.ValueDifference = abs(trade.FromTeamValue - trade.ToTeamValue)

	if !chart.IsTradeFair(trade.FromTeamValue, trade.ToTeamValue, e.fairnessThreshold) {
		return nil, apperr.NewValidation(
			"trade is not balanced: %.1f vs %.1f exceeds the %.0f%% fairness threshold",
			trade.FromTeamValue, trade.ToTeamValue, e.fairnessThreshold)
	}

	if err := e.trades.CreateTrade(ctx, trade, details); err != nil {
		return nil, fmt.Errorf("failed to persist trade proposal: %w", err)
	}

	log.Info().
		Str("trade_id", trade.ID.String()).
		Str("from_team_id", trade.FromTeamID.String()).
		Str("to_team_id", trade.ToTeamID.String()).
		Float64("from_value", trade.FromTeamValue).
		Float64("to_value", trade.ToTeamValue).
		Msg("trade proposed")

	return &Proposal{Trade: trade, Details: details}, nil
}

// AcceptTrade executes a proposed trade. Ownership and availability are
// re-validated at acceptance time so the transfer never proceeds on stale
// assumptions; the pick swap itself is one atomic transaction.
func (e *Engine) AcceptTrade(ctx context.Context, tradeID, acceptingTeamID uuid.UUID) (*models.PickTrade, error) {
	trade, details, err := e.trades.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if acceptingTeamID != trade.ToTeamID {
		return nil, apperr.NewValidation("Only the receiving team can accept a trade")
	}

	now := e.clock.Now()
	if err := trade.Accept(now); err != nil {
		return nil, err
	}

	fromPickIDs, toPickIDs := splitDetails(details)
	if _, err := e.validatePicks(ctx, trade.FromTeamID, fromPickIDs, &trade.ID); err != nil {
		return nil, err
	}
	if _, err := e.validatePicks(ctx, trade.ToTeamID, toPickIDs, &trade.ID); err != nil {
		return nil, err
	}

	if err := e.picks.TransferPicks(ctx, trade.FromTeamID, trade.ToTeamID, fromPickIDs, toPickIDs); err != nil {
		return nil, fmt.Errorf("failed to transfer picks: %w", err)
	}

	if err := e.trades.UpdateTrade(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to persist accepted trade: %w", err)
	}

	log.Info().
		Str("trade_id", trade.ID.String()).
		Int("picks_transferred", len(details)).
		Msg("trade executed")

	return trade, nil
}

// RejectTrade declines a proposed trade. Only the receiving team may reject.
func (e *Engine) RejectTrade(ctx context.Context, tradeID, rejectingTeamID uuid.UUID) (*models.PickTrade, error) {
	trade, _, err := e.trades.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if rejectingTeamID != trade.ToTeamID {
		return nil, apperr.NewValidation("Only the receiving team can reject a trade")
	}

	if err := trade.Reject(e.clock.Now()); err != nil {
		return nil, err
	}

	if err := e.trades.UpdateTrade(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to persist rejected trade: %w", err)
	}

	log.Info().Str("trade_id", trade.ID.String()).Msg("trade rejected")
	return trade, nil
}

// GetPendingTrades returns every proposed trade involving a team.
func (e *Engine) GetPendingTrades(ctx context.Context, teamID uuid.UUID) ([]models.PickTrade, error) {
	return e.trades.FindPendingForTeam(ctx, teamID)
}

// GetTrade returns a trade with its details.
func (e *Engine) GetTrade(ctx context.Context, tradeID uuid.UUID) (*models.PickTrade, []models.PickTradeDetail, error) {
	return e.trades.GetTrade(ctx, tradeID)
}

// validatePickSets rejects empty and overlapping pick sets before any row is
// written.
func (e *Engine) validatePickSets(fromPickIDs, toPickIDs []uuid.UUID) error {
	if len(fromPickIDs) == 0 && len(toPickIDs) == 0 {
		return apperr.NewValidation("trade must include at least one pick")
	}
	seen := make(map[uuid.UUID]bool, len(fromPickIDs)+len(toPickIDs))
	for _, id := range fromPickIDs {
		if seen[id] {
			return apperr.NewValidation("pick %s appears more than once in the trade", id)
		}
		seen[id] = true
	}
	for _, id := range toPickIDs {
		if seen[id] {
			return apperr.NewValidation("pick %s appears more than once in the trade", id)
		}
		seen[id] = true
	}
	return nil
}

// validatePicks checks that every pick exists, is owned by the claimed team,
// has no player assigned, and is not referenced by another proposed trade.
// The active-trade check is the engine's only optimistic-concurrency guard
// prior to persistence; excludeTradeID skips the trade being accepted.
func (e *Engine) validatePicks(ctx context.Context, teamID uuid.UUID, pickIDs []uuid.UUID, excludeTradeID *uuid.UUID) ([]*models.Pick, error) {
	picks := make([]*models.Pick, 0, len(pickIDs))
	for _, pickID := range pickIDs {
		pick, err := e.picks.GetPick(ctx, pickID)
		if err != nil {
			return nil, err
		}
		if pick.TeamID != teamID {
			return nil, apperr.NewValidation("pick %s is not owned by team %s", pickID, teamID)
		}
		if pick.IsPicked() {
			return nil, apperr.NewValidation("pick %s has already been used", pickID)
		}
		inTrade, err := e.trades.IsPickInActiveTrade(ctx, pickID, excludeTradeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check active trades for pick: %w", err)
		}
		if inTrade {
			return nil, apperr.NewValidation("pick %s is already part of a proposed trade", pickID)
		}
		picks = append(picks, pick)
	}
	return picks, nil
}

func splitDetails(details []models.PickTradeDetail) (fromPickIDs, toPickIDs []uuid.UUID) {
	for _, d := range details {
		if d.Direction == models.TradeDirectionFromTeam {
			fromPickIDs = append(fromPickIDs, d.PickID)
		} else {
			toPickIDs = append(toPickIDs, d.PickID)
		}
	}
	return fromPickIDs, toPickIDs
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
