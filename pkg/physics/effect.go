// Package physics implements the per-axis overscroll effect: rubber-band
// resistance while dragging beyond an extent, a critically damped spring
// return on release, and friction-only coasting for in-bounds momentum.
//
// An Effect models one scroll axis. Its position is an absolute scroll
// offset; values inside [minExtent, maxExtent] are normal scrolling and
// anything beyond is overscroll. All integration is driven externally,
// either per effect via [Effect.Advance] or for every releasing effect at
// once via [StepAll].
package physics

import (
	"fmt"
	"math"
	"time"

	"github.com/go-drift/scrollkit/pkg/scrollerr"
)

// Phase is the lifecycle state of an Effect.
//
//	Idle ──Begin──► Dragging ──Release──► Releasing ──settle──► Settled
//	                   ▲                                           │
//	                   └──────────────── Begin ◄───────────────────┘
//
// A release always computes a trajectory: there is no transition that
// skips Releasing after Dragging, even when the trajectory is trivial.
type Phase int

const (
	// PhaseIdle means the effect is at rest and untouched.
	PhaseIdle Phase = iota
	// PhaseDragging means a pointer is actively pulling the content.
	PhaseDragging
	// PhaseReleasing means the effect is animating after release.
	PhaseReleasing
	// PhaseSettled means the release trajectory has completed.
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseReleasing:
		return "releasing"
	case PhaseSettled:
		return "settled"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Effect simulates one scroll axis.
type Effect struct {
	cfg      Config
	min      float64
	max      float64
	viewport float64

	position float64
	velocity float64
	phase    Phase

	// raw is the unresisted pull position while dragging. The visible
	// position is raw passed through the rubber band beyond an extent.
	raw float64

	// coasting marks the friction-only sub-mode of Releasing, entered
	// when release happens with zero overscroll.
	coasting bool

	// springTarget is the extent the spring pulls toward while releasing
	// from overscroll.
	springTarget float64

	lastStep time.Time
}

// NewEffect creates an effect for one axis. viewportExtent is the visible
// dimension along the axis and scales the rubber band; zero degenerates to
// resistance-free, unclamped dragging.
func NewEffect(cfg Config, minExtent, maxExtent, viewportExtent float64) *Effect {
	if maxExtent < minExtent {
		maxExtent = minExtent
	}
	return &Effect{
		cfg:      cfg,
		min:      minExtent,
		max:      maxExtent,
		viewport: viewportExtent,
		position: geometryClamp(0, minExtent, maxExtent),
	}
}

// Position returns the current scroll offset, including any overscroll.
func (e *Effect) Position() float64 { return e.position }

// Velocity returns the current velocity in pixels per second.
func (e *Effect) Velocity() float64 { return e.velocity }

// CurrentPhase returns the effect's lifecycle phase.
func (e *Effect) CurrentPhase() Phase { return e.phase }

// IsCoasting reports whether a releasing effect is in the friction-only
// sub-mode.
func (e *Effect) IsCoasting() bool { return e.phase == PhaseReleasing && e.coasting }

// IsActive reports whether the effect is dragging or releasing.
func (e *Effect) IsActive() bool {
	return e.phase == PhaseDragging || e.phase == PhaseReleasing
}

// Overscroll returns the signed displacement beyond the extents: positive
// past maxExtent, negative past minExtent, zero in bounds.
func (e *Effect) Overscroll() float64 {
	if e.position > e.max {
		return e.position - e.max
	}
	if e.position < e.min {
		return e.position - e.min
	}
	return 0
}

// Extents returns the current min and max scroll extents.
func (e *Effect) Extents() (min, max float64) { return e.min, e.max }

// Configuration returns the effect's tuning parameters.
func (e *Effect) Configuration() Config { return e.cfg }

// SetExtents updates the scrollable range after a layout change. A resting
// effect is re-clamped into the new range; an active gesture or release is
// left to resolve against the new extents on its own.
func (e *Effect) SetExtents(min, max float64) {
	if max < min {
		max = min
	}
	e.min = min
	e.max = max
	if e.phase == PhaseIdle || e.phase == PhaseSettled {
		e.position = geometryClamp(e.position, min, max)
	}
}

// SetViewportExtent updates the visible dimension used by the rubber band.
func (e *Effect) SetViewportExtent(extent float64) {
	e.viewport = extent
}

// Begin starts a drag at the given position and velocity. Catching an
// effect mid-release is allowed and halts the trajectory. Calling Begin
// while already dragging with identical parameters is a no-op.
func (e *Effect) Begin(position, velocity float64) {
	if e.phase == PhaseDragging && position == e.position && velocity == e.velocity {
		return
	}
	if e.phase == PhaseReleasing {
		unregister(e)
	}
	e.position = position
	e.velocity = velocity
	e.raw = e.unproject(position)
	e.coasting = false
	e.phase = PhaseDragging
}

// Drag moves the pull position by delta. Inside the extents the position
// follows linearly; beyond an extent the excess is fed through the rubber
// band so the visible displacement stays bounded by the viewport extent.
// Valid only while dragging.
func (e *Effect) Drag(delta float64) error {
	if e.phase != PhaseDragging {
		return &scrollerr.PhaseError{Op: "physics.Effect.Drag", Phase: e.phase.String()}
	}
	e.raw += delta
	e.position = e.project(e.raw)
	return nil
}

// Release ends the drag and starts the return trajectory with the given
// velocity. With zero overscroll the effect coasts on friction alone;
// otherwise the critically damped spring pulls it back to the violated
// extent. A release in bounds with zero velocity has a trivial trajectory
// and settles before Release returns. Valid only while dragging.
func (e *Effect) Release(velocity float64) error {
	if e.phase != PhaseDragging {
		return &scrollerr.PhaseError{Op: "physics.Effect.Release", Phase: e.phase.String()}
	}
	if math.IsNaN(velocity) || math.IsInf(velocity, 0) {
		velocity = 0
	}
	e.velocity = velocity

	e.coasting = e.Overscroll() == 0
	if e.coasting && velocity == 0 {
		e.phase = PhaseReleasing
		e.settle()
		return nil
	}
	if !e.coasting {
		if e.Overscroll() > 0 {
			e.springTarget = e.max
		} else {
			e.springTarget = e.min
		}
	}
	e.phase = PhaseReleasing
	e.lastStep = Now()
	register(e)
	return nil
}

// Advance integrates the release trajectory by dt seconds. Advancing by a
// non-positive dt changes nothing. Valid only while releasing.
func (e *Effect) Advance(dt float64) error {
	if e.phase != PhaseReleasing {
		return &scrollerr.PhaseError{Op: "physics.Effect.Advance", Phase: e.phase.String()}
	}
	if dt <= 0 {
		return nil
	}
	if e.coasting {
		e.advanceCoast(dt)
	} else {
		e.advanceSpring(dt)
	}
	return nil
}

// Reset returns a settled or releasing effect to Idle, keeping position.
func (e *Effect) Reset() {
	if e.phase == PhaseReleasing {
		unregister(e)
	}
	e.velocity = 0
	e.coasting = false
	e.phase = PhaseIdle
}

// JumpBy applies a clamped direct movement, as from a wheel event, and
// returns the distance actually travelled. Any in-flight release is
// halted first.
func (e *Effect) JumpBy(delta float64) float64 {
	if e.phase == PhaseReleasing {
		unregister(e)
		e.velocity = 0
		e.coasting = false
		e.phase = PhaseIdle
	}
	before := e.position
	e.position = geometryClamp(before+delta, e.min, e.max)
	return e.position - before
}

// advanceSpring integrates the critically damped spring with semi-implicit
// Euler. The position step uses the freshly updated velocity; using the
// stale velocity reintroduces the energy gain this integrator avoids.
func (e *Effect) advanceSpring(dt float64) {
	k := e.cfg.SpringStiffness
	m := e.cfg.SpringMass
	c := e.cfg.CriticalDamping()

	displacement := e.position - e.springTarget
	accel := (-k*displacement - c*e.velocity) / m
	e.velocity += accel * dt
	e.position += e.velocity * dt

	if math.Abs(e.position-e.springTarget) < e.cfg.SettleEpsilonPosition &&
		math.Abs(e.velocity) < e.cfg.SettleEpsilonVelocity {
		e.position = e.springTarget
		e.velocity = 0
		e.settle()
	}
}

// advanceCoast applies constant friction deceleration while in bounds.
// Crossing an extent mid-coast hands the remaining velocity to the spring.
func (e *Effect) advanceCoast(dt float64) {
	decel := e.cfg.FrictionDecay * dt
	switch {
	case e.velocity > 0:
		e.velocity = math.Max(e.velocity-decel, 0)
	case e.velocity < 0:
		e.velocity = math.Min(e.velocity+decel, 0)
	}
	e.position += e.velocity * dt

	if e.position > e.max {
		e.coasting = false
		e.springTarget = e.max
		return
	}
	if e.position < e.min {
		e.coasting = false
		e.springTarget = e.min
		return
	}
	if math.Abs(e.velocity) < e.cfg.SettleEpsilonVelocity {
		e.velocity = 0
		e.settle()
	}
}

func (e *Effect) settle() {
	unregister(e)
	e.coasting = false
	e.phase = PhaseSettled
}

// project maps an unresisted pull position to the visible position,
// feeding any excess beyond an extent through the rubber band. A zero
// viewport extent degenerates to a passthrough.
func (e *Effect) project(raw float64) float64 {
	if e.viewport <= 0 {
		return raw
	}
	if raw > e.max {
		return e.max + e.resistance(raw-e.max)
	}
	if raw < e.min {
		return e.min - e.resistance(e.min-raw)
	}
	return raw
}

// unproject inverts project so a drag can start from an already
// overscrolled position.
func (e *Effect) unproject(position float64) float64 {
	if e.viewport <= 0 {
		return position
	}
	if position > e.max {
		return e.max + e.inverseResistance(position-e.max)
	}
	if position < e.min {
		return e.min - e.inverseResistance(e.min-position)
	}
	return position
}

// resistance converts a raw pull distance beyond an extent into the
// bounded visual displacement:
//
//	resistance(x) = (1 − 1/((x·coeff/dim) + 1)) · dim
//
// It is zero at zero, strictly increasing, and asymptotically bounded by
// the viewport extent.
func (e *Effect) resistance(x float64) float64 {
	dim := e.viewport
	if dim <= 0 || x <= 0 {
		return 0
	}
	scaled := x * e.cfg.RubberBandCoeff / dim
	return (1 - 1/(scaled+1)) * dim
}

// inverseResistance recovers the raw pull distance from a resisted
// displacement. Displacements at or past the asymptote are pinned just
// inside it.
func (e *Effect) inverseResistance(y float64) float64 {
	dim := e.viewport
	if dim <= 0 || y <= 0 {
		return y
	}
	if y >= dim {
		y = math.Nextafter(dim, 0)
	}
	return y * dim / (e.cfg.RubberBandCoeff * (dim - y))
}

func geometryClamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
