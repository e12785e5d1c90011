package clock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// TickFunc is invoked after every tick of a running clock.
type TickFunc func(sessionID uuid.UUID, timeRemaining int, expired bool)

// Manager drives a DraftClock at a fixed resolution. Pausing the clock does
// not stop the loop; it makes every beat a no-op until resumed. The loop
// terminates exactly when a tick reports expiry, or when ctx is cancelled.
type Manager struct {
	clock      DraftClockTicker
	wall       clockwork.Clock
	resolution time.Duration
	onTick     TickFunc
}

// DraftClockTicker is the slice of DraftClock the manager drives.
type DraftClockTicker interface {
	Tick() bool
	Snapshot() State
}

// NewManager creates a 1 Hz clock manager. In production pass
// clockwork.NewRealClock(); tests use a FakeClock.
func NewManager(dc DraftClockTicker, wall clockwork.Clock) *Manager {
	return &Manager{
		clock:      dc,
		wall:       wall,
		resolution: time.Second,
		onTick:     func(uuid.UUID, int, bool) {},
	}
}

// OnTick registers the tick callback. Must be set before Run.
func (m *Manager) OnTick(fn TickFunc) {
	m.onTick = fn
}

// Run loops until the clock expires or ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := m.wall.NewTicker(m.resolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().
				Str("session_id", m.clock.Snapshot().SessionID.String()).
				Msg("clock loop cancelled")
			return
		case <-ticker.Chan():
			snap := m.clock.Snapshot()
			if !snap.IsRunning {
				continue
			}
			expired := m.clock.Tick()
			snap = m.clock.Snapshot()
			m.onTick(snap.SessionID, snap.TimeRemaining, expired)
			if expired {
				log.Info().
					Str("session_id", snap.SessionID.String()).
					Int("pick_number", snap.CurrentPickNumber).
					Msg("pick clock expired")
				return
			}
		}
	}
}
