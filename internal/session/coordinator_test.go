package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/draftroomhq/draftroom/internal/apperr"
	"github.com/draftroomhq/draftroom/internal/gateway"
	"github.com/draftroomhq/draftroom/internal/models"
	"github.com/draftroomhq/draftroom/internal/trade"
)

// fakeBackend is an in-memory stand-in for every storage interface the
// coordinator depends on. All methods are safe for concurrent use because
// the coordinator goroutine runs alongside the test goroutine.
type fakeBackend struct {
	mu      sync.Mutex
	session models.DraftSession
	picks   map[uuid.UUID]*models.Pick
	players map[uuid.UUID]*models.Player
	teams   map[uuid.UUID]*models.Team
	events  []models.EventType
	inTrade map[uuid.UUID]bool
}

func (b *fakeBackend) GetSession(_ context.Context, id uuid.UUID) (*models.DraftSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session.ID != id {
		return nil, apperr.NewNotFound("session %s not found", id)
	}
	cp := b.session
	return &cp, nil
}

func (b *fakeBackend) SaveSession(_ context.Context, session *models.DraftSession, event *models.DraftEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = *session
	b.events = append(b.events, event.Type)
	return nil
}

func (b *fakeBackend) AppendEvent(_ context.Context, event *models.DraftEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event.Type)
	return nil
}

func (b *fakeBackend) RecordPick(_ context.Context, pick *models.Pick, playerID uuid.UUID, pickedAt time.Time, session *models.DraftSession, event *models.DraftEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored, ok := b.picks[pick.ID]
	if !ok || stored.IsPicked() {
		return apperr.NewValidation("pick %s is not open", pick.ID)
	}
	stored.PlayerID = &playerID
	stored.PickedAt = &pickedAt
	b.session = *session
	b.events = append(b.events, event.Type)
	return nil
}

func (b *fakeBackend) GetPick(_ context.Context, id uuid.UUID) (*models.Pick, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.picks[id]
	if !ok {
		return nil, apperr.NewNotFound("pick %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (b *fakeBackend) GetPickByOverall(_ context.Context, draftID uuid.UUID, overallPick int) (*models.Pick, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.picks {
		if p.DraftID == draftID && p.OverallPick == overallPick {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperr.NewNotFound("pick %d not found in draft %s", overallPick, draftID)
}

func (b *fakeBackend) CountUnpicked(_ context.Context, draftID uuid.UUID) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, p := range b.picks {
		if p.DraftID == draftID && !p.IsPicked() {
			n++
		}
	}
	return n, nil
}

func (b *fakeBackend) GetPlayer(_ context.Context, id uuid.UUID) (*models.Player, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.players[id]
	if !ok {
		return nil, apperr.NewNotFound("player %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (b *fakeBackend) BestAvailable(_ context.Context, draftID uuid.UUID) (*models.Player, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	drafted := make(map[uuid.UUID]bool)
	for _, p := range b.picks {
		if p.DraftID == draftID && p.PlayerID != nil {
			drafted[*p.PlayerID] = true
		}
	}
	var best *models.Player
	for _, pl := range b.players {
		if drafted[pl.ID] {
			continue
		}
		if best == nil || pl.Rank < best.Rank {
			best = pl
		}
	}
	if best == nil {
		return nil, apperr.NewNotFound("no players left in draft %s", draftID)
	}
	cp := *best
	return &cp, nil
}

func (b *fakeBackend) GetTeam(_ context.Context, id uuid.UUID) (*models.Team, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.teams[id]
	if !ok {
		return nil, apperr.NewNotFound("team %s not found", id)
	}
	cp := *t
	return &cp, nil
}

func (b *fakeBackend) IsPickInActiveTrade(_ context.Context, pickID uuid.UUID, _ *uuid.UUID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inTrade[pickID], nil
}

func (b *fakeBackend) storedSession() models.DraftSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}

func (b *fakeBackend) eventTypes() []models.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.EventType(nil), b.events...)
}

// fanMsg is one delivery observed by the fake fanout. ConnID is empty for
// session broadcasts.
type fanMsg struct {
	connID string
	msg    any
}

type fakeFanout struct {
	msgs chan fanMsg
}

func newFakeFanout() *fakeFanout {
	return &fakeFanout{msgs: make(chan fanMsg, 64)}
}

func (f *fakeFanout) BroadcastToSession(_ uuid.UUID, message any) {
	f.msgs <- fanMsg{msg: message}
}

func (f *fakeFanout) SendToConnection(connID string, message any) {
	f.msgs <- fanMsg{connID: connID, msg: message}
}

func (f *fakeFanout) next(t *testing.T) fanMsg {
	t.Helper()
	select {
	case m := <-f.msgs:
		return m
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for a fanout message")
		return fanMsg{}
	}
}

// fakeTradeEngine echoes proposals back as persisted and answers trade
// responses with canned results.
type fakeTradeEngine struct {
	mu         sync.Mutex
	called     bool
	proposeErr error
	respondErr error
}

func (e *fakeTradeEngine) ProposeTrade(_ context.Context, req trade.ProposeTradeRequest) (*trade.Proposal, error) {
	e.mu.Lock()
	e.called = true
	e.mu.Unlock()
	if e.proposeErr != nil {
		return nil, e.proposeErr
	}
	t := &models.PickTrade{
		ID:         uuid.New(),
		SessionID:  req.SessionID,
		FromTeamID: req.FromTeamID,
		ToTeamID:   req.ToTeamID,
		Status:     models.TradeStatusProposed,
	}
	var details []models.PickTradeDetail
	for _, id := range req.FromTeamPickIDs {
		details = append(details, models.PickTradeDetail{TradeID: t.ID, PickID: id, Direction: models.TradeDirectionFromTeam})
	}
	for _, id := range req.ToTeamPickIDs {
		details = append(details, models.PickTradeDetail{TradeID: t.ID, PickID: id, Direction: models.TradeDirectionToTeam})
	}
	return &trade.Proposal{Trade: t, Details: details}, nil
}

func (e *fakeTradeEngine) AcceptTrade(_ context.Context, tradeID, _ uuid.UUID) (*models.PickTrade, error) {
	if e.respondErr != nil {
		return nil, e.respondErr
	}
	return &models.PickTrade{ID: tradeID, Status: models.TradeStatusAccepted}, nil
}

func (e *fakeTradeEngine) RejectTrade(_ context.Context, tradeID, _ uuid.UUID) (*models.PickTrade, error) {
	if e.respondErr != nil {
		return nil, e.respondErr
	}
	return &models.PickTrade{ID: tradeID, Status: models.TradeStatusRejected}, nil
}

func (e *fakeTradeEngine) wasCalled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.called
}

type fixture struct {
	coord   *Coordinator
	backend *fakeBackend
	fanout  *fakeFanout
	engine  *fakeTradeEngine
	wall    *clockwork.FakeClock

	sessionID uuid.UUID
	draftID   uuid.UUID
	teamID    uuid.UUID
	pickIDs   []uuid.UUID // ordered by overall pick
	playerIDs []uuid.UUID // ordered by rank
}

type fixtureConfig struct {
	picks       int
	timePerPick int
	autoPick    bool
}

func newFixture(t *testing.T, cfg fixtureConfig) *fixture {
	t.Helper()
	if cfg.picks == 0 {
		cfg.picks = 3
	}
	if cfg.timePerPick == 0 {
		cfg.timePerPick = 30
	}

	f := &fixture{
		backend: &fakeBackend{
			picks:   make(map[uuid.UUID]*models.Pick),
			players: make(map[uuid.UUID]*models.Player),
			teams:   make(map[uuid.UUID]*models.Team),
			inTrade: make(map[uuid.UUID]bool),
		},
		fanout:    newFakeFanout(),
		engine:    &fakeTradeEngine{},
		wall:      clockwork.NewFakeClock(),
		sessionID: uuid.New(),
		draftID:   uuid.New(),
		teamID:    uuid.New(),
	}

	f.backend.teams[f.teamID] = &models.Team{ID: f.teamID, DraftID: f.draftID, Name: "Springfield Isotopes"}
	for i := 1; i <= cfg.picks; i++ {
		pickID := uuid.New()
		f.backend.picks[pickID] = &models.Pick{
			ID:          pickID,
			DraftID:     f.draftID,
			Round:       1,
			Pick:        i,
			OverallPick: i,
			TeamID:      f.teamID,
		}
		f.pickIDs = append(f.pickIDs, pickID)

		playerID := uuid.New()
		f.backend.players[playerID] = &models.Player{ID: playerID, FullName: "Player", Position: "QB", Rank: i}
		f.playerIDs = append(f.playerIDs, playerID)
	}

	session := &models.DraftSession{
		ID:                 f.sessionID,
		DraftID:            f.draftID,
		Status:             models.SessionStatusNotStarted,
		CurrentPickNumber:  1,
		TimePerPickSeconds: cfg.timePerPick,
		AutoPickEnabled:    cfg.autoPick,
	}
	f.backend.session = *session

	f.coord = NewCoordinator(context.Background(), session, Deps{
		Store:   f.backend,
		Picks:   f.backend,
		Players: f.backend,
		Teams:   f.backend,
		Guard:   f.backend,
		Engine:  f.engine,
		Fanout:  f.fanout,
		Wall:    f.wall,
	})
	t.Cleanup(f.coord.Stop)
	return f
}

// expectBroadcast pulls the next fanout message and fails unless it is a
// session broadcast of type T.
func expectBroadcast[T any](t *testing.T, f *fixture) T {
	t.Helper()
	m := f.fanout.next(t)
	if m.connID != "" {
		t.Fatalf("expected a broadcast, got a direct send to %q: %#v", m.connID, m.msg)
	}
	msg, ok := m.msg.(T)
	if !ok {
		var want T
		t.Fatalf("broadcast = %#v, want %T", m.msg, want)
	}
	return msg
}

func expectSend[T any](t *testing.T, f *fixture, connID string) T {
	t.Helper()
	m := f.fanout.next(t)
	if m.connID != connID {
		t.Fatalf("expected a send to %q, got %#v for %q", connID, m.msg, m.connID)
	}
	msg, ok := m.msg.(T)
	if !ok {
		var want T
		t.Fatalf("send = %#v, want %T", m.msg, want)
	}
	return msg
}

func TestSubscribeRepliesWithSnapshot(t *testing.T) {
	f := newFixture(t, fixtureConfig{timePerPick: 45})

	f.coord.Subscribe("conn-1")

	msg := expectSend[gateway.SubscribedMessage](t, f, "conn-1")
	if msg.SessionID != f.sessionID {
		t.Errorf("session_id = %s, want %s", msg.SessionID, f.sessionID)
	}
	if msg.Status != string(models.SessionStatusNotStarted) {
		t.Errorf("status = %q, want NOT_STARTED", msg.Status)
	}
	if msg.TimeRemaining != 45 {
		t.Errorf("time_remaining = %d, want 45", msg.TimeRemaining)
	}
	if msg.CurrentPickNumber != 1 {
		t.Errorf("current_pick_number = %d, want 1", msg.CurrentPickNumber)
	}
}

func TestLifecycleTransitionsPersistAndBroadcast(t *testing.T) {
	f := newFixture(t, fixtureConfig{})
	ctx := context.Background()

	if err := f.coord.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := f.backend.storedSession().Status; got != models.SessionStatusInProgress {
		t.Errorf("stored status = %s, want IN_PROGRESS", got)
	}
	msg := expectBroadcast[gateway.DraftStatusMessage](t, f)
	if msg.Status != string(models.SessionStatusInProgress) {
		t.Errorf("broadcast status = %q, want IN_PROGRESS", msg.Status)
	}

	if err := f.coord.Pause(ctx); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if got := f.backend.storedSession().Status; got != models.SessionStatusPaused {
		t.Errorf("stored status = %s, want PAUSED", got)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	if err := f.coord.Resume(ctx); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	if err := f.coord.Complete(ctx); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := f.backend.storedSession().Status; got != models.SessionStatusCompleted {
		t.Errorf("stored status = %s, want COMPLETED", got)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	want := []models.EventType{
		models.EventTypeSessionStarted,
		models.EventTypeSessionPaused,
		models.EventTypeSessionResumed,
		models.EventTypeSessionCompleted,
	}
	got := f.backend.eventTypes()
	if len(got) != len(want) {
		t.Fatalf("event log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event log = %v, want %v", got, want)
		}
	}
}

func TestIllegalLifecycleTransitionPersistsNothing(t *testing.T) {
	f := newFixture(t, fixtureConfig{})
	ctx := context.Background()

	if err := f.coord.Pause(ctx); !apperr.IsInvalidState(err) {
		t.Fatalf("Pause before start: error = %v, want invalid-state", err)
	}
	if err := f.coord.Complete(ctx); !apperr.IsInvalidState(err) {
		t.Fatalf("Complete before start: error = %v, want invalid-state", err)
	}
	if got := f.backend.storedSession().Status; got != models.SessionStatusNotStarted {
		t.Errorf("stored status = %s, want NOT_STARTED", got)
	}
	if got := f.backend.eventTypes(); len(got) != 0 {
		t.Errorf("event log = %v, want empty", got)
	}
}

func TestMakePickAdvancesAndBroadcasts(t *testing.T) {
	f := newFixture(t, fixtureConfig{picks: 3})
	ctx := context.Background()

	if err := f.coord.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	f.coord.MakePick("conn-1", f.playerIDs[0])

	msg := expectBroadcast[gateway.PickMadeMessage](t, f)
	if msg.PlayerID != f.playerIDs[0] {
		t.Errorf("player_id = %s, want %s", msg.PlayerID, f.playerIDs[0])
	}
	if msg.PickNumber != 1 {
		t.Errorf("pick_number = %d, want 1", msg.PickNumber)
	}
	if msg.TeamName != "Springfield Isotopes" {
		t.Errorf("team_name = %q", msg.TeamName)
	}

	stored := f.backend.storedSession()
	if stored.CurrentPickNumber != 2 {
		t.Errorf("current_pick_number = %d, want 2", stored.CurrentPickNumber)
	}
	if stored.Status != models.SessionStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", stored.Status)
	}
}

func TestFinalPickCompletesSession(t *testing.T) {
	f := newFixture(t, fixtureConfig{picks: 1})
	ctx := context.Background()

	if err := f.coord.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	f.coord.MakePick("conn-1", f.playerIDs[0])

	expectBroadcast[gateway.PickMadeMessage](t, f)
	done := expectBroadcast[gateway.DraftStatusMessage](t, f)
	if done.Status != string(models.SessionStatusCompleted) {
		t.Errorf("status = %q, want COMPLETED", done.Status)
	}

	got := f.backend.eventTypes()
	want := []models.EventType{
		models.EventTypeSessionStarted,
		models.EventTypePickMade,
		models.EventTypeSessionCompleted,
	}
	if len(got) != len(want) {
		t.Fatalf("event log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event log = %v, want %v", got, want)
		}
	}
}

func TestMakePickRejectedBeforeStart(t *testing.T) {
	f := newFixture(t, fixtureConfig{})

	f.coord.MakePick("conn-1", f.playerIDs[0])

	msg := expectSend[gateway.ErrorMessage](t, f, "conn-1")
	if msg.Message == "" {
		t.Error("error message is empty")
	}
	if got := f.backend.storedSession().CurrentPickNumber; got != 1 {
		t.Errorf("current_pick_number = %d, want 1", got)
	}
}

func TestMakePickRejectedWhenSlotInActiveTrade(t *testing.T) {
	f := newFixture(t, fixtureConfig{})
	ctx := context.Background()

	if err := f.coord.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	f.backend.mu.Lock()
	f.backend.inTrade[f.pickIDs[0]] = true
	f.backend.mu.Unlock()

	f.coord.MakePick("conn-1", f.playerIDs[0])

	expectSend[gateway.ErrorMessage](t, f, "conn-1")
	if got := f.backend.storedSession().CurrentPickNumber; got != 1 {
		t.Errorf("current_pick_number = %d, want 1", got)
	}
}

func TestClockTicksBroadcastAndExpiryPausesSession(t *testing.T) {
	f := newFixture(t, fixtureConfig{timePerPick: 2, autoPick: false})
	ctx := context.Background()

	if err := f.coord.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	f.wall.BlockUntil(1)

	f.wall.Advance(time.Second)
	tick := expectBroadcast[gateway.ClockUpdateMessage](t, f)
	if tick.TimeRemaining != 1 {
		t.Errorf("time_remaining = %d, want 1", tick.TimeRemaining)
	}

	// the beat that reaches zero expires and pauses the draft because
	// auto-pick is off
	f.wall.Advance(time.Second)
	tick = expectBroadcast[gateway.ClockUpdateMessage](t, f)
	if tick.TimeRemaining != 0 {
		t.Errorf("time_remaining = %d, want 0", tick.TimeRemaining)
	}
	status := expectBroadcast[gateway.DraftStatusMessage](t, f)
	if status.Status != string(models.SessionStatusPaused) {
		t.Errorf("status = %q, want PAUSED", status.Status)
	}
	if got := f.backend.storedSession().Status; got != models.SessionStatusPaused {
		t.Errorf("stored status = %s, want PAUSED", got)
	}
}

func TestClockExpiryAutoPicksBestAvailable(t *testing.T) {
	f := newFixture(t, fixtureConfig{picks: 1, timePerPick: 1, autoPick: true})
	ctx := context.Background()

	if err := f.coord.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	f.wall.BlockUntil(1)

	// One second on the clock: the first beat reaches zero and expires.
	f.wall.Advance(time.Second)
	expectBroadcast[gateway.ClockUpdateMessage](t, f)

	pick := expectBroadcast[gateway.PickMadeMessage](t, f)
	if pick.PlayerID != f.playerIDs[0] {
		t.Errorf("auto-pick chose %s, want the top-ranked %s", pick.PlayerID, f.playerIDs[0])
	}

	done := expectBroadcast[gateway.DraftStatusMessage](t, f)
	if done.Status != string(models.SessionStatusCompleted) {
		t.Errorf("status = %q, want COMPLETED", done.Status)
	}
}

func TestResumeAfterExpiryRearmsClock(t *testing.T) {
	f := newFixture(t, fixtureConfig{timePerPick: 2, autoPick: false})
	ctx := context.Background()

	if err := f.coord.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	f.wall.BlockUntil(1)
	f.wall.Advance(time.Second)
	expectBroadcast[gateway.ClockUpdateMessage](t, f)
	f.wall.Advance(time.Second)
	expectBroadcast[gateway.ClockUpdateMessage](t, f)
	expectBroadcast[gateway.DraftStatusMessage](t, f) // expired, paused

	if err := f.coord.Resume(ctx); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	status := expectBroadcast[gateway.DraftStatusMessage](t, f)
	if status.Status != string(models.SessionStatusInProgress) {
		t.Fatalf("status after resume = %q, want IN_PROGRESS", status.Status)
	}

	// The expired slot gets a full countdown again, not another instant
	// expiry.
	f.wall.BlockUntil(1)
	f.wall.Advance(time.Second)
	tick := expectBroadcast[gateway.ClockUpdateMessage](t, f)
	if tick.TimeRemaining != 1 {
		t.Errorf("time_remaining after resume = %d, want 1", tick.TimeRemaining)
	}
	if got := f.backend.storedSession().Status; got != models.SessionStatusInProgress {
		t.Errorf("stored status = %s, want IN_PROGRESS", got)
	}
}

// The event log is an append-only audit trail: interleaved operations must
// land in it in the order the coordinator applied them.
func TestEventLogRecordsOperationsInOrder(t *testing.T) {
	f := newFixture(t, fixtureConfig{picks: 3})
	ctx := context.Background()

	if err := f.coord.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	f.coord.MakePick("conn-1", f.playerIDs[0])
	expectBroadcast[gateway.PickMadeMessage](t, f)

	if err := f.coord.AddTime(ctx, 5); err != nil {
		t.Fatalf("AddTime: %v", err)
	}
	expectBroadcast[gateway.ClockUpdateMessage](t, f)

	if err := f.coord.Pause(ctx); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)
	if err := f.coord.Resume(ctx); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)
	if err := f.coord.Complete(ctx); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	want := []models.EventType{
		models.EventTypeSessionStarted,
		models.EventTypePickMade,
		models.EventTypeClockUpdate,
		models.EventTypeSessionPaused,
		models.EventTypeSessionResumed,
		models.EventTypeSessionCompleted,
	}
	got := f.backend.eventTypes()
	if len(got) != len(want) {
		t.Fatalf("event log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event log = %v, want %v", got, want)
		}
	}
}

func TestProposeTradePartitionsFlatPickList(t *testing.T) {
	f := newFixture(t, fixtureConfig{picks: 2})
	otherTeam := uuid.New()
	f.backend.mu.Lock()
	f.backend.teams[otherTeam] = &models.Team{ID: otherTeam, DraftID: f.draftID, Name: "Shelbyville Sharks"}
	f.backend.picks[f.pickIDs[1]].TeamID = otherTeam
	f.backend.mu.Unlock()

	f.coord.ProposeTrade("conn-1", f.teamID, otherTeam, []uuid.UUID{f.pickIDs[0], f.pickIDs[1]})

	msg := expectBroadcast[gateway.TradeProposedMessage](t, f)
	if len(msg.FromTeamPicks) != 1 || msg.FromTeamPicks[0] != f.pickIDs[0] {
		t.Errorf("from_team_picks = %v, want [%s]", msg.FromTeamPicks, f.pickIDs[0])
	}
	if len(msg.ToTeamPicks) != 1 || msg.ToTeamPicks[0] != f.pickIDs[1] {
		t.Errorf("to_team_picks = %v, want [%s]", msg.ToTeamPicks, f.pickIDs[1])
	}
	if msg.FromTeamName != "Springfield Isotopes" || msg.ToTeamName != "Shelbyville Sharks" {
		t.Errorf("team names = %q / %q", msg.FromTeamName, msg.ToTeamName)
	}
}

func TestProposeTradeRejectsForeignPick(t *testing.T) {
	f := newFixture(t, fixtureConfig{picks: 1})
	otherTeam := uuid.New()
	strayTeam := uuid.New()
	f.backend.mu.Lock()
	f.backend.picks[f.pickIDs[0]].TeamID = strayTeam
	f.backend.mu.Unlock()

	f.coord.ProposeTrade("conn-1", f.teamID, otherTeam, []uuid.UUID{f.pickIDs[0]})

	expectSend[gateway.ErrorMessage](t, f, "conn-1")
	if f.engine.wasCalled() {
		t.Error("engine must not see a proposal with a pick from neither side")
	}
}

func TestRespondTradeBroadcasts(t *testing.T) {
	f := newFixture(t, fixtureConfig{})
	ctx := context.Background()
	tradeID := uuid.New()

	if err := f.coord.RespondTrade(ctx, tradeID, f.teamID, true); err != nil {
		t.Fatalf("RespondTrade(accept): %v", err)
	}
	executed := expectBroadcast[gateway.TradeExecutedMessage](t, f)
	if executed.TradeID != tradeID {
		t.Errorf("trade_id = %s, want %s", executed.TradeID, tradeID)
	}

	if err := f.coord.RespondTrade(ctx, uuid.New(), f.teamID, false); err != nil {
		t.Fatalf("RespondTrade(reject): %v", err)
	}
	rejected := expectBroadcast[gateway.TradeRejectedMessage](t, f)
	if rejected.RejectingTeamID != f.teamID {
		t.Errorf("rejecting_team_id = %s, want %s", rejected.RejectingTeamID, f.teamID)
	}
}

func TestRespondTradeSurfacesEngineError(t *testing.T) {
	f := newFixture(t, fixtureConfig{})
	f.engine.respondErr = apperr.NewValidation("Only the receiving team can accept a trade")

	err := f.coord.RespondTrade(context.Background(), uuid.New(), f.teamID, true)
	if !apperr.IsValidation(err) {
		t.Fatalf("error = %v, want validation", err)
	}
	select {
	case m := <-f.fanout.msgs:
		t.Fatalf("unexpected fanout message on failed response: %#v", m.msg)
	default:
	}
}

func TestAddTimeExtendsCountdown(t *testing.T) {
	f := newFixture(t, fixtureConfig{timePerPick: 3})
	ctx := context.Background()

	if err := f.coord.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	expectBroadcast[gateway.DraftStatusMessage](t, f)

	if err := f.coord.AddTime(ctx, 10); err != nil {
		t.Fatalf("AddTime: %v", err)
	}
	adjusted := expectBroadcast[gateway.ClockUpdateMessage](t, f)
	if adjusted.TimeRemaining != 13 {
		t.Errorf("adjusted time_remaining = %d, want 13", adjusted.TimeRemaining)
	}

	got := f.backend.eventTypes()
	if len(got) != 2 || got[1] != models.EventTypeClockUpdate {
		t.Errorf("event log = %v, want [SessionStarted ClockUpdate]", got)
	}

	f.wall.BlockUntil(1)
	f.wall.Advance(time.Second)
	tick := expectBroadcast[gateway.ClockUpdateMessage](t, f)
	if tick.TimeRemaining != 12 {
		t.Errorf("time_remaining = %d, want 12", tick.TimeRemaining)
	}
}
