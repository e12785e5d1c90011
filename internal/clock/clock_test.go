package clock

import (
	"testing"

	"github.com/google/uuid"
)

func TestTickNotRunningIsNoOp(t *testing.T) {
	c := NewDraftClock(uuid.New(), 30, 1)

	for i := 0; i < 3; i++ {
		if expired := c.Tick(); expired {
			t.Fatalf("tick %d: expired on a stopped clock", i)
		}
	}
	if got := c.Snapshot().TimeRemaining; got != 30 {
		t.Fatalf("TimeRemaining = %d, want 30", got)
	}
}

func TestCountdownToExpiry(t *testing.T) {
	c := NewDraftClock(uuid.New(), 5, 1)
	c.Start()

	for i, want := range []int{4, 3, 2, 1, 0} {
		expired := c.Tick()
		snap := c.Snapshot()
		if i < 4 {
			if expired {
				t.Fatalf("tick %d: expired early", i+1)
			}
			if snap.TimeRemaining != want {
				t.Fatalf("tick %d: TimeRemaining = %d, want %d", i+1, snap.TimeRemaining, want)
			}
			continue
		}
		// The fifth tick fires at zero: it expires and stops the clock.
		if !expired {
			t.Fatalf("tick 5: expected expiry")
		}
		if snap.TimeRemaining != 0 {
			t.Fatalf("tick 5: TimeRemaining = %d, want 0", snap.TimeRemaining)
		}
		if snap.IsRunning {
			t.Fatalf("tick 5: clock still running after expiry")
		}
	}

	if !c.IsExpired() {
		t.Fatalf("IsExpired = false after expiry")
	}
}

func TestTimeNeverNegative(t *testing.T) {
	c := NewDraftClock(uuid.New(), 0, 1)
	c.Start()

	if expired := c.Tick(); !expired {
		t.Fatalf("expected immediate expiry at zero")
	}
	if got := c.Snapshot().TimeRemaining; got != 0 {
		t.Fatalf("TimeRemaining = %d, want 0", got)
	}
}

func TestPausePreservesRemaining(t *testing.T) {
	c := NewDraftClock(uuid.New(), 10, 1)
	c.Start()
	c.Tick()
	c.Tick()
	c.Pause()

	if c.IsExpired() {
		t.Fatalf("paused clock reported expired")
	}
	if expired := c.Tick(); expired {
		t.Fatalf("paused tick expired")
	}
	if got := c.Snapshot().TimeRemaining; got != 8 {
		t.Fatalf("TimeRemaining = %d, want 8", got)
	}
}

func TestResetRearmsForNextPick(t *testing.T) {
	c := NewDraftClock(uuid.New(), 5, 1)
	c.Start()
	for i := 0; i < 5; i++ {
		c.Tick()
	}

	c.Reset(60, 2)
	snap := c.Snapshot()
	if snap.TimeRemaining != 60 || snap.CurrentPickNumber != 2 || !snap.IsRunning {
		t.Fatalf("reset produced %+v", snap)
	}
}

func TestAddAndSetTime(t *testing.T) {
	c := NewDraftClock(uuid.New(), 30, 1)

	c.AddTime(15)
	if got := c.Snapshot().TimeRemaining; got != 45 {
		t.Fatalf("after AddTime(15): %d, want 45", got)
	}
	c.AddTime(-20)
	if got := c.Snapshot().TimeRemaining; got != 25 {
		t.Fatalf("after AddTime(-20): %d, want 25", got)
	}
	c.SetTime(7)
	if got := c.Snapshot().TimeRemaining; got != 7 {
		t.Fatalf("after SetTime(7): %d, want 7", got)
	}
}
