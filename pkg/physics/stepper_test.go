package physics

import (
	"testing"
	"time"
)

// manualClock drives StepAll without real time.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func TestStepAll_DrivesRegisteredEffects(t *testing.T) {
	fake := &manualClock{now: time.Unix(0, 0)}
	prev := SetClock(fake)
	defer SetClock(prev)

	e := NewEffect(DefaultConfig(), 0, 0, 600)
	e.Begin(50, 0)
	if err := e.Release(0); err != nil {
		t.Fatal(err)
	}
	if !HasActive() {
		t.Fatal("releasing effect not registered")
	}

	for frame := 0; frame < 600 && e.CurrentPhase() == PhaseReleasing; frame++ {
		fake.now = fake.now.Add(16 * time.Millisecond)
		StepAll()
	}

	if e.CurrentPhase() != PhaseSettled {
		t.Fatalf("phase = %v, want settled", e.CurrentPhase())
	}
	if HasActive() {
		t.Error("settled effect still registered")
	}
	if e.Position() != 0 {
		t.Errorf("settled position = %g, want 0", e.Position())
	}
}

func TestStepAll_CapsStalledFrames(t *testing.T) {
	fake := &manualClock{now: time.Unix(0, 0)}
	prev := SetClock(fake)
	defer SetClock(prev)

	e := NewEffect(DefaultConfig(), 0, 1000, 600)
	e.Begin(500, 0)
	if err := e.Release(-300); err != nil {
		t.Fatal(err)
	}
	defer e.Reset()

	// A two-second stall must not make the trajectory catch up at once.
	fake.now = fake.now.Add(2 * time.Second)
	StepAll()

	maxLoss := DefaultConfig().FrictionDecay * maxStepDelta
	if loss := 300 + e.Velocity(); loss > maxLoss+1e-9 {
		t.Errorf("velocity lost %g in one step, cap is %g", loss, maxLoss)
	}
}

func TestStepBy_FixedDelta(t *testing.T) {
	e := NewEffect(DefaultConfig(), 0, 1000, 600)
	e.Begin(500, 0)
	if err := e.Release(-300); err != nil {
		t.Fatal(err)
	}
	defer e.Reset()

	before := e.Velocity()
	StepBy(1.0 / 60.0)
	want := before + DefaultConfig().FrictionDecay*(1.0/60.0)
	if got := e.Velocity(); got != want {
		t.Errorf("velocity = %g after one step, want %g", got, want)
	}

	// Non-positive deltas change nothing.
	position := e.Position()
	StepBy(0)
	StepBy(-1)
	if e.Position() != position {
		t.Error("StepBy with non-positive dt moved the effect")
	}
}
