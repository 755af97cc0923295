package gestures

import (
	"time"

	"github.com/go-drift/scrollkit/pkg/geometry"
	"github.com/go-drift/scrollkit/pkg/viewport"
)

// Session tracks one live pointer from start to stop or cancel. Exactly
// one session exists per live pointer id.
//
// A session's owner is written once, when the gesture locks to an axis and
// delegation resolves, and never changes for the remainder of the gesture.
// That single write is what keeps ownership from thrashing between nesting
// levels mid-drag.
type Session struct {
	// ID is the pointer id this session tracks.
	ID int64
	// Origin is the deepest node hit at touch start.
	Origin viewport.NodeID
	// Owner is the delegated node; equals Origin until resolution and
	// is immutable afterwards.
	Owner viewport.NodeID
	// StartPosition is where the touch landed.
	StartPosition geometry.Offset

	// Decision is the resolution outcome, once locked.
	Decision Decision

	lastPosition  geometry.Offset
	lastTimestamp time.Time

	// accumulated is total absolute finger travel per axis since start.
	accumulated [2]float64
	// lastDelta and lastDT sample the most recent move for release
	// velocity, matching how the finger actually left the glass.
	lastDelta [2]float64
	lastDT    float64

	boundaryAtMin [2]bool
	boundaryAtMax [2]bool

	locked     bool
	lockedAxis viewport.Axis

	// ownerChain is the owner's ancestor chain at resolution time, kept
	// for dead-owner fallback after hierarchy mutation.
	ownerChain []viewport.NodeID

	// effectBegun marks that the owner's effect entered its drag phase.
	effectBegun bool
}

// newSession captures touch-start state, including the per-axis
// boundary-at-start flags the parallel delegation rule keys on.
func newSession(id int64, origin *viewport.Node, ev PointerEvent) *Session {
	s := &Session{
		ID:            id,
		Origin:        origin.ID(),
		Owner:         origin.ID(),
		StartPosition: ev.Position,
		lastPosition:  ev.Position,
		lastTimestamp: ev.Timestamp,
	}
	for _, axis := range []viewport.Axis{viewport.AxisHorizontal, viewport.AxisVertical} {
		s.boundaryAtMin[axis] = origin.IsAtBoundary(axis, viewport.DirectionMin)
		s.boundaryAtMax[axis] = origin.IsAtBoundary(axis, viewport.DirectionMax)
	}
	return s
}

// Locked reports whether the gesture has committed to an axis.
func (s *Session) Locked() bool { return s.locked }

// LockedAxis returns the committed axis; valid only after Locked.
func (s *Session) LockedAxis() viewport.Axis { return s.lockedAxis }

// track records a move event and returns the finger delta it carried.
func (s *Session) track(ev PointerEvent) geometry.Offset {
	delta := ev.Position.Sub(s.lastPosition)
	dt := ev.Timestamp.Sub(s.lastTimestamp).Seconds()
	s.lastPosition = ev.Position
	s.lastTimestamp = ev.Timestamp

	s.accumulated[viewport.AxisHorizontal] += abs(delta.X)
	s.accumulated[viewport.AxisVertical] += abs(delta.Y)
	s.lastDelta[viewport.AxisHorizontal] = delta.X
	s.lastDelta[viewport.AxisVertical] = delta.Y
	s.lastDT = dt
	return delta
}

// maybeLock commits the gesture to its dominant axis once accumulated
// travel crosses the lock distance. Returns true on the locking call.
func (s *Session) maybeLock(lockDistance float64) bool {
	if s.locked {
		return false
	}
	dx := s.accumulated[viewport.AxisHorizontal]
	dy := s.accumulated[viewport.AxisVertical]
	if dx <= lockDistance && dy <= lockDistance {
		return false
	}
	if dx >= dy {
		s.lockedAxis = viewport.AxisHorizontal
	} else {
		s.lockedAxis = viewport.AxisVertical
	}
	s.locked = true
	return true
}

// stats snapshots the resolver inputs at lock time.
func (s *Session) stats(lockingDelta geometry.Offset) Stats {
	return Stats{
		Origin:        s.Origin,
		Axis:          s.lockedAxis,
		Delta:         lockingDelta,
		BoundaryAtMin: s.boundaryAtMin,
		BoundaryAtMax: s.boundaryAtMax,
	}
}

// releaseVelocity converts the last move sample to scroll-offset velocity
// along the locked axis. Content follows the finger, so offset velocity is
// the negated finger velocity.
func (s *Session) releaseVelocity() float64 {
	if !s.locked || s.lastDT <= 0 {
		return 0
	}
	return -s.lastDelta[s.lockedAxis] / s.lastDT
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
