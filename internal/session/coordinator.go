package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/draftroomhq/draftroom/internal/apperr"
	"github.com/draftroomhq/draftroom/internal/clock"
	"github.com/draftroomhq/draftroom/internal/events"
	"github.com/draftroomhq/draftroom/internal/gateway"
	"github.com/draftroomhq/draftroom/internal/models"
	"github.com/draftroomhq/draftroom/internal/trade"
)

// Store persists the session row together with its event log entry. Each
// method that mutates state writes the row and appends the event in one
// transaction: the row is the queryable projection, the log the audit trail.
type Store interface {
	GetSession(ctx context.Context, id uuid.UUID) (*models.DraftSession, error)
	SaveSession(ctx context.Context, session *models.DraftSession, event *models.DraftEvent) error
	// AppendEvent logs an advisory event that accompanies no row change.
	AppendEvent(ctx context.Context, event *models.DraftEvent) error
	// RecordPick assigns the player to the pick, persists the advanced
	// session row and appends the event atomically.
	RecordPick(ctx context.Context, pick *models.Pick, playerID uuid.UUID, pickedAt time.Time, session *models.DraftSession, event *models.DraftEvent) error
}

// PickStore is the slice of pick storage the coordinator reads.
type PickStore interface {
	GetPick(ctx context.Context, id uuid.UUID) (*models.Pick, error)
	GetPickByOverall(ctx context.Context, draftID uuid.UUID, overallPick int) (*models.Pick, error)
	CountUnpicked(ctx context.Context, draftID uuid.UUID) (int, error)
}

// PlayerStore resolves players for picks and auto-picks.
type PlayerStore interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	// BestAvailable returns the highest-ranked player not yet drafted.
	BestAvailable(ctx context.Context, draftID uuid.UUID) (*models.Player, error)
}

// TeamStore resolves team names for broadcasts.
type TeamStore interface {
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
}

// TradeGuard answers whether a pick is tied up in a proposed trade. Making
// a pick that another team is actively trading for would leave the later
// acceptance silently invalid.
type TradeGuard interface {
	IsPickInActiveTrade(ctx context.Context, pickID uuid.UUID, excludeTradeID *uuid.UUID) (bool, error)
}

// TradeEngine is the slice of the trade engine the coordinator drives.
type TradeEngine interface {
	ProposeTrade(ctx context.Context, req trade.ProposeTradeRequest) (*trade.Proposal, error)
	AcceptTrade(ctx context.Context, tradeID, acceptingTeamID uuid.UUID) (*models.PickTrade, error)
	RejectTrade(ctx context.Context, tradeID, rejectingTeamID uuid.UUID) (*models.PickTrade, error)
}

// Broadcaster is the slice of the connection manager the coordinator uses.
type Broadcaster interface {
	BroadcastToSession(sessionID uuid.UUID, message any)
	SendToConnection(connID string, message any)
}

// Deps bundles the coordinator's collaborators.
type Deps struct {
	Store     Store
	Picks     PickStore
	Players   PlayerStore
	Teams     TeamStore
	Guard     TradeGuard
	Engine    TradeEngine
	Fanout    Broadcaster
	Publisher events.Publisher
	Wall      clockwork.Clock
}

// Coordinator serializes every mutation of one session: clock ticks, picks,
// trades, lifecycle transitions and the resulting broadcasts all pass
// through its single goroutine, so no two mutations of the session's state
// can race. Different sessions run independent coordinators.
type Coordinator struct {
	session *models.DraftSession
	clock   *clock.DraftClock
	deps    Deps

	inbox chan command

	ctx       context.Context
	cancel    context.CancelFunc
	tickStop  context.CancelFunc
	tickDone  chan struct{}
	tickEpoch int
}

type command interface{ isCommand() }

type subscribeCmd struct {
	connID string
}

type makePickCmd struct {
	connID   string
	playerID uuid.UUID
}

type proposeTradeCmd struct {
	connID     string
	fromTeamID uuid.UUID
	toTeamID   uuid.UUID
	pickIDs    []uuid.UUID
}

type respondTradeCmd struct {
	tradeID uuid.UUID
	teamID  uuid.UUID
	accept  bool
	reply   chan error
}

type lifecycleCmd struct {
	op    lifecycleOp
	reply chan error
}

type lifecycleOp int

const (
	opStart lifecycleOp = iota
	opPause
	opResume
	opComplete
)

type clockTickCmd struct {
	epoch         int
	timeRemaining int
	expired       bool
}

type addTimeCmd struct {
	delta int
	reply chan error
}

func (subscribeCmd) isCommand()    {}
func (makePickCmd) isCommand()     {}
func (proposeTradeCmd) isCommand() {}
func (respondTradeCmd) isCommand() {}
func (lifecycleCmd) isCommand()    {}
func (clockTickCmd) isCommand()    {}
func (addTimeCmd) isCommand()      {}

// NewCoordinator creates and starts the coordinator goroutine for a session.
func NewCoordinator(parent context.Context, session *models.DraftSession, deps Deps) *Coordinator {
	ctx, cancel := context.WithCancel(parent)
	c := &Coordinator{
		session: session,
		clock:   clock.NewDraftClock(session.ID, session.TimePerPickSeconds, session.CurrentPickNumber),
		deps:    deps,
		inbox:   make(chan command, 64),
		ctx:     ctx,
		cancel:  cancel,
	}
	go c.loop()
	return c
}

// SessionID returns the session this coordinator owns.
func (c *Coordinator) SessionID() uuid.UUID { return c.session.ID }

// Stop cancels the coordinator and its clock loop.
func (c *Coordinator) Stop() { c.cancel() }

// Start begins or resumes the session.
func (c *Coordinator) Start(ctx context.Context) error {
	return c.roundTrip(ctx, lifecycleCmd{op: opStart})
}

// Pause pauses the session; the clock keeps its remaining time.
func (c *Coordinator) Pause(ctx context.Context) error {
	return c.roundTrip(ctx, lifecycleCmd{op: opPause})
}

// Resume restarts the countdown from where it paused.
func (c *Coordinator) Resume(ctx context.Context) error {
	return c.roundTrip(ctx, lifecycleCmd{op: opResume})
}

// Complete finishes the session.
func (c *Coordinator) Complete(ctx context.Context) error {
	return c.roundTrip(ctx, lifecycleCmd{op: opComplete})
}

// AddTime adjusts the running clock by delta seconds.
func (c *Coordinator) AddTime(ctx context.Context, delta int) error {
	reply := make(chan error, 1)
	return c.send(ctx, addTimeCmd{delta: delta, reply: reply}, reply)
}

// RespondTrade accepts or rejects a trade on behalf of a team.
func (c *Coordinator) RespondTrade(ctx context.Context, tradeID, teamID uuid.UUID, accept bool) error {
	reply := make(chan error, 1)
	return c.send(ctx, respondTradeCmd{tradeID: tradeID, teamID: teamID, accept: accept, reply: reply}, reply)
}

// Subscribe replies to a freshly registered connection with the current
// session state so the client can re-sync.
func (c *Coordinator) Subscribe(connID string) {
	c.post(subscribeCmd{connID: connID})
}

// MakePick submits a pick for the current slot.
func (c *Coordinator) MakePick(connID string, playerID uuid.UUID) {
	c.post(makePickCmd{connID: connID, playerID: playerID})
}

// ProposeTrade submits a trade proposal from a connection.
func (c *Coordinator) ProposeTrade(connID string, fromTeamID, toTeamID uuid.UUID, pickIDs []uuid.UUID) {
	c.post(proposeTradeCmd{connID: connID, fromTeamID: fromTeamID, toTeamID: toTeamID, pickIDs: pickIDs})
}

func (c *Coordinator) roundTrip(ctx context.Context, cmd lifecycleCmd) error {
	reply := make(chan error, 1)
	cmd.reply = reply
	return c.send(ctx, cmd, reply)
}

func (c *Coordinator) send(ctx context.Context, cmd command, reply chan error) error {
	select {
	case c.inbox <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) post(cmd command) {
	select {
	case c.inbox <- cmd:
	case <-c.ctx.Done():
	}
}

func (c *Coordinator) loop() {
	log.Info().
		Str("session_id", c.session.ID.String()).
		Str("status", string(c.session.Status)).
		Msg("session coordinator started")

	for {
		select {
		case <-c.ctx.Done():
			c.stopClockLoop()
			log.Info().Str("session_id", c.session.ID.String()).Msg("session coordinator stopped")
			return
		case cmd := <-c.inbox:
			switch m := cmd.(type) {
			case subscribeCmd:
				c.handleSubscribe(m)
			case makePickCmd:
				c.handleMakePick(m)
			case proposeTradeCmd:
				c.handleProposeTrade(m)
			case respondTradeCmd:
				m.reply <- c.handleRespondTrade(m)
			case lifecycleCmd:
				m.reply <- c.handleLifecycle(m.op)
			case clockTickCmd:
				c.handleClockTick(m)
			case addTimeCmd:
				m.reply <- c.handleAddTime(m.delta)
			}
		}
	}
}

func (c *Coordinator) handleSubscribe(m subscribeCmd) {
	snap := c.clock.Snapshot()
	c.deps.Fanout.SendToConnection(m.connID, gateway.NewSubscribedMessage(
		c.session.ID, string(c.session.Status), snap.TimeRemaining, c.session.CurrentPickNumber))
}

func (c *Coordinator) handleLifecycle(op lifecycleOp) error {
	now := c.deps.Wall.Now()
	var event *models.DraftEvent
	var err error

	switch op {
	case opStart:
		if err := c.session.Start(now); err != nil {
			return err
		}
		event, err = events.NewSessionStarted(c.session, now)
	case opResume:
		if err := c.session.Start(now); err != nil {
			return err
		}
		remaining := c.clock.Snapshot().TimeRemaining
		if remaining == 0 {
			remaining = c.session.TimePerPickSeconds
		}
		event, err = events.NewSessionResumed(c.session.ID, remaining, now)
	case opPause:
		if err := c.session.Pause(now); err != nil {
			return err
		}
		event, err = events.NewSessionPaused(c.session.ID, c.clock.Snapshot().TimeRemaining, now)
	case opComplete:
		if err := c.session.Complete(now); err != nil {
			return err
		}
		event, err = events.NewSessionCompleted(c.session.ID, c.session.CurrentPickNumber-1, now)
	}
	if err != nil {
		return err
	}

	if err := c.deps.Store.SaveSession(c.ctx, c.session, event); err != nil {
		return err
	}
	c.emit(event)

	switch op {
	case opStart:
		c.clock.Reset(c.session.TimePerPickSeconds, c.session.CurrentPickNumber)
		c.startClockLoop()
	case opResume:
		// A pause normally keeps the remaining time; the loop was never
		// torn down, only made a no-op. A session paused by expiry has
		// nothing left on the clock, so rearm it for the current pick.
		if c.clock.Snapshot().TimeRemaining == 0 {
			c.clock.Reset(c.session.TimePerPickSeconds, c.session.CurrentPickNumber)
		} else {
			c.clock.Start()
		}
		c.ensureClockLoop()
	case opPause:
		c.clock.Pause()
	case opComplete:
		c.stopClockLoop()
	}

	c.deps.Fanout.BroadcastToSession(c.session.ID,
		gateway.NewDraftStatusMessage(c.session.ID, string(c.session.Status)))
	return nil
}

func (c *Coordinator) handleMakePick(m makePickCmd) {
	if err := c.makePick(m.playerID, false); err != nil {
		log.Warn().
			Err(err).
			Str("session_id", c.session.ID.String()).
			Msg("pick rejected")
		c.deps.Fanout.SendToConnection(m.connID, gateway.NewErrorMessage(err.Error()))
	}
}

// makePick assigns playerID to the current slot, advances the session, and
// either rearms the clock for the next pick or completes the draft.
func (c *Coordinator) makePick(playerID uuid.UUID, autoPick bool) error {
	if c.session.Status != models.SessionStatusInProgress {
		return apperr.NewInvalidState("cannot make a pick in status %s", c.session.Status)
	}

	pick, err := c.deps.Picks.GetPickByOverall(c.ctx, c.session.DraftID, c.session.CurrentPickNumber)
	if err != nil {
		return err
	}
	if pick.IsPicked() {
		return apperr.NewValidation("pick %d has already been made", pick.OverallPick)
	}
	inTrade, err := c.deps.Guard.IsPickInActiveTrade(c.ctx, pick.ID, nil)
	if err != nil {
		return err
	}
	if inTrade {
		return apperr.NewValidation("pick %d is part of a proposed trade", pick.OverallPick)
	}

	player, err := c.deps.Players.GetPlayer(c.ctx, playerID)
	if err != nil {
		return err
	}

	now := c.deps.Wall.Now()
	if err := c.session.AdvancePick(now); err != nil {
		return err
	}

	event, err := events.NewPickMade(c.session.ID, pick, player.ID, autoPick, now)
	if err != nil {
		return err
	}
	if err := c.deps.Store.RecordPick(c.ctx, pick, player.ID, now, c.session, event); err != nil {
		// Roll the in-memory pointer back; the row never moved.
		c.session.CurrentPickNumber--
		return err
	}
	c.emit(event)

	teamName := ""
	if team, err := c.deps.Teams.GetTeam(c.ctx, pick.TeamID); err == nil {
		teamName = team.Name
	}
	c.deps.Fanout.BroadcastToSession(c.session.ID, gateway.NewPickMadeMessage(
		c.session.ID, pick.ID, pick.TeamID, player.ID,
		pick.Round, pick.OverallPick, player.FullName, teamName))

	remaining, err := c.deps.Picks.CountUnpicked(c.ctx, c.session.DraftID)
	if err != nil {
		log.Error().Err(err).Str("session_id", c.session.ID.String()).Msg("failed to count remaining picks")
		remaining = 1
	}
	if remaining == 0 {
		return c.handleLifecycle(opComplete)
	}

	c.clock.Reset(c.session.TimePerPickSeconds, c.session.CurrentPickNumber)
	c.ensureClockLoop()
	return nil
}

func (c *Coordinator) handleProposeTrade(m proposeTradeCmd) {
	req := trade.ProposeTradeRequest{
		SessionID:  c.session.ID,
		FromTeamID: m.fromTeamID,
		ToTeamID:   m.toTeamID,
		ChartType:  c.session.ChartType,
	}

	// The wire message carries one flat pick set; each pick lands on the
	// side of its current owner.
	fromIDs, toIDs, err := c.partitionPickIDs(m.pickIDs, m.fromTeamID, m.toTeamID)
	if err != nil {
		c.deps.Fanout.SendToConnection(m.connID, gateway.NewErrorMessage(err.Error()))
		return
	}
	req.FromTeamPickIDs = fromIDs
	req.ToTeamPickIDs = toIDs

	proposal, err := c.deps.Engine.ProposeTrade(c.ctx, req)
	if err != nil {
		c.deps.Fanout.SendToConnection(m.connID, gateway.NewErrorMessage(err.Error()))
		return
	}

	c.broadcastTradeProposed(proposal)
}

func (c *Coordinator) broadcastTradeProposed(p *trade.Proposal) {
	msg := gateway.TradeProposedMessage{
		Type:          gateway.MessageTypeTradeProposed,
		SessionID:     c.session.ID,
		TradeID:       p.Trade.ID,
		FromTeamID:    p.Trade.FromTeamID,
		ToTeamID:      p.Trade.ToTeamID,
		FromTeamValue: p.Trade.FromTeamValue,
		ToTeamValue:   p.Trade.ToTeamValue,
	}
	if team, err := c.deps.Teams.GetTeam(c.ctx, p.Trade.FromTeamID); err == nil {
		msg.FromTeamName = team.Name
	}
	if team, err := c.deps.Teams.GetTeam(c.ctx, p.Trade.ToTeamID); err == nil {
		msg.ToTeamName = team.Name
	}
	for _, d := range p.Details {
		if d.Direction == models.TradeDirectionFromTeam {
			msg.FromTeamPicks = append(msg.FromTeamPicks, d.PickID)
		} else {
			msg.ToTeamPicks = append(msg.ToTeamPicks, d.PickID)
		}
	}
	c.deps.Fanout.BroadcastToSession(c.session.ID, msg)
}

func (c *Coordinator) handleRespondTrade(m respondTradeCmd) error {
	if m.accept {
		executed, err := c.deps.Engine.AcceptTrade(c.ctx, m.tradeID, m.teamID)
		if err != nil {
			return err
		}
		c.deps.Fanout.BroadcastToSession(c.session.ID, gateway.NewTradeExecutedMessage(
			c.session.ID, executed.ID, executed.FromTeamID, executed.ToTeamID))
		return nil
	}

	rejected, err := c.deps.Engine.RejectTrade(c.ctx, m.tradeID, m.teamID)
	if err != nil {
		return err
	}
	c.deps.Fanout.BroadcastToSession(c.session.ID, gateway.NewTradeRejectedMessage(
		c.session.ID, rejected.ID, m.teamID))
	return nil
}

// handleAddTime adjusts the countdown and logs the adjustment. Unlike beat
// ticks, a manual adjustment is always durably logged.
func (c *Coordinator) handleAddTime(delta int) error {
	c.clock.AddTime(delta)
	snap := c.clock.Snapshot()

	event, err := events.NewClockUpdate(c.session.ID, snap.TimeRemaining, snap.CurrentPickNumber, c.deps.Wall.Now())
	if err != nil {
		return err
	}
	if err := c.deps.Store.AppendEvent(c.ctx, event); err != nil {
		return err
	}
	c.emit(event)

	c.deps.Fanout.BroadcastToSession(c.session.ID,
		gateway.NewClockUpdateMessage(c.session.ID, snap.TimeRemaining, snap.CurrentPickNumber))

	log.Info().
		Str("session_id", c.session.ID.String()).
		Int("delta_seconds", delta).
		Int("time_remaining", snap.TimeRemaining).
		Msg("clock adjusted")
	return nil
}

func (c *Coordinator) handleClockTick(m clockTickCmd) {
	if m.epoch != c.tickEpoch {
		// Stale tick from a clock loop that was already replaced.
		return
	}

	if m.expired {
		// The loop that reported expiry is terminating; reap it so a
		// later resume observes a dead loop and starts a fresh one.
		if c.tickDone != nil {
			<-c.tickDone
		}
		c.tickStop = nil
	}

	snap := c.clock.Snapshot()
	c.deps.Fanout.BroadcastToSession(c.session.ID,
		gateway.NewClockUpdateMessage(c.session.ID, m.timeRemaining, snap.CurrentPickNumber))

	if !m.expired {
		return
	}

	if c.session.AutoPickEnabled {
		player, err := c.deps.Players.BestAvailable(c.ctx, c.session.DraftID)
		if err != nil {
			log.Error().Err(err).Str("session_id", c.session.ID.String()).Msg("auto-pick failed: no player available")
			return
		}
		if err := c.makePick(player.ID, true); err != nil {
			log.Error().Err(err).Str("session_id", c.session.ID.String()).Msg("auto-pick failed")
		}
		return
	}

	// No auto-pick: hold the draft on the expired slot until an operator
	// resumes it.
	if err := c.handleLifecycle(opPause); err != nil {
		log.Error().Err(err).Str("session_id", c.session.ID.String()).Msg("failed to pause on expiry")
	}
}

// startClockLoop replaces any running clock loop with a fresh one.
func (c *Coordinator) startClockLoop() {
	c.stopClockLoop()
	c.tickEpoch++
	epoch := c.tickEpoch

	ctx, cancel := context.WithCancel(c.ctx)
	c.tickStop = cancel
	done := make(chan struct{})
	c.tickDone = done

	mgr := clock.NewManager(c.clock, c.deps.Wall)
	mgr.OnTick(func(_ uuid.UUID, remaining int, expired bool) {
		c.post(clockTickCmd{epoch: epoch, timeRemaining: remaining, expired: expired})
	})
	go func() {
		mgr.Run(ctx)
		close(done)
	}()
}

// ensureClockLoop starts a loop only when none is alive. A paused loop is
// still alive (pausing makes its beats no-ops, it is not a cancellation),
// so resuming must not spawn a second one.
func (c *Coordinator) ensureClockLoop() {
	if c.tickDone == nil {
		c.startClockLoop()
		return
	}
	select {
	case <-c.tickDone:
		c.startClockLoop()
	default:
	}
}

func (c *Coordinator) stopClockLoop() {
	if c.tickStop != nil {
		c.tickStop()
		c.tickStop = nil
	}
}

// emit mirrors a logged event to the external bus. Best-effort: a failed
// publish never desynchronizes the source of truth, only an external view.
func (c *Coordinator) emit(event *models.DraftEvent) {
	if c.deps.Publisher == nil {
		return
	}
	if err := c.deps.Publisher.Publish(event); err != nil {
		log.Warn().
			Err(err).
			Str("session_id", event.SessionID.String()).
			Str("event_type", string(event.Type)).
			Msg("failed to publish event")
	}
}

func (c *Coordinator) partitionPickIDs(pickIDs []uuid.UUID, fromTeamID, toTeamID uuid.UUID) (fromIDs, toIDs []uuid.UUID, err error) {
	for _, pickID := range pickIDs {
		pick, err := c.deps.Picks.GetPick(c.ctx, pickID)
		if err != nil {
			return nil, nil, err
		}
		switch pick.TeamID {
		case fromTeamID:
			fromIDs = append(fromIDs, pickID)
		case toTeamID:
			toIDs = append(toIDs, pickID)
		default:
			return nil, nil, apperr.NewValidation("pick %s belongs to neither trade side", pickID)
		}
	}
	return fromIDs, toIDs, nil
}
