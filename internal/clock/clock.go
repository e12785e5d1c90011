package clock

import (
	"sync"

	"github.com/google/uuid"
)

// State is the ephemeral countdown state for one session. It is never
// persisted; the session row's current pick number is the durable
// projection.
type State struct {
	SessionID         uuid.UUID `json:"session_id"`
	TimeRemaining     int       `json:"time_remaining"`
	IsRunning         bool      `json:"is_running"`
	CurrentPickNumber int       `json:"current_pick_number"`
}

// DraftClock owns one mutable countdown record behind single-writer access.
type DraftClock struct {
	mu    sync.Mutex
	state State
}

// NewDraftClock creates a stopped clock for a session.
func NewDraftClock(sessionID uuid.UUID, timePerPick, pickNumber int) *DraftClock {
	return &DraftClock{
		state: State{
			SessionID:         sessionID,
			TimeRemaining:     timePerPick,
			CurrentPickNumber: pickNumber,
		},
	}
}

// Start sets the clock running. No other field changes.
func (c *DraftClock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsRunning = true
}

// Pause stops the countdown without resetting it.
func (c *DraftClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsRunning = false
}

// Reset rearms the clock for the next pick and starts it running.
func (c *DraftClock) Reset(timePerPick, pickNumber int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.TimeRemaining = timePerPick
	c.state.CurrentPickNumber = pickNumber
	c.state.IsRunning = true
}

// Tick advances the countdown by one second. A stopped clock mutates
// nothing and reports false. The tick that reaches zero flips the clock to
// stopped and reports true (expired). Time never goes negative.
func (c *DraftClock) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.IsRunning {
		return false
	}
	if c.state.TimeRemaining > 0 {
		c.state.TimeRemaining--
	}
	if c.state.TimeRemaining == 0 {
		c.state.IsRunning = false
		return true
	}
	return false
}

// AddTime adds delta seconds to the remaining time. Delta may be negative;
// bounds are the caller's responsibility.
func (c *DraftClock) AddTime(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.TimeRemaining += delta
}

// SetTime overrides the remaining time, for manual adjustment.
func (c *DraftClock) SetTime(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.TimeRemaining = seconds
}

// IsExpired reports whether the clock has run out and stopped.
func (c *DraftClock) IsExpired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.TimeRemaining == 0 && !c.state.IsRunning
}

// Snapshot returns a copy of the current state.
func (c *DraftClock) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
