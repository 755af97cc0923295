package gestures

import (
	"fmt"
	"math"

	"github.com/go-drift/scrollkit/pkg/geometry"
	"github.com/go-drift/scrollkit/pkg/viewport"
)

// Reason records why a delegation decision chose its target.
type Reason int

const (
	// ReasonNone means ownership stays with the origin node.
	ReasonNone Reason = iota
	// ReasonOrthogonal means the locked axis is outside the origin's
	// capability but within an ancestor's.
	ReasonOrthogonal
	// ReasonParallelBoundary means the gesture started at the origin's
	// boundary moving outward on an axis an ancestor shares.
	ReasonParallelBoundary
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonOrthogonal:
		return "orthogonal"
	case ReasonParallelBoundary:
		return "parallel-boundary"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Decision is the immutable outcome of delegation resolution for one
// gesture. It is produced exactly once, at direction lock, and applied to
// the session's owner; it is never re-evaluated mid-gesture.
type Decision struct {
	Target viewport.NodeID
	Axis   viewport.Axis
	Reason Reason
}

// Stats is the snapshot of gesture state the resolver decides from.
// Deltas are finger movement in window coordinates; at the min boundary a
// positive finger delta drags the content further out, at the max boundary
// a negative one does.
type Stats struct {
	// Origin is the deepest node hit at touch start.
	Origin viewport.NodeID
	// Axis is the locked gesture axis.
	Axis viewport.Axis
	// Delta is the finger movement of the locking move event.
	Delta geometry.Offset
	// BoundaryAtMin and BoundaryAtMax record, per axis, whether the
	// origin sat at that clamped extreme when the touch began.
	BoundaryAtMin [2]bool
	BoundaryAtMax [2]bool
}

// Resolver is the pure decision logic for gesture delegation. Given the
// same tree shape and stats it always returns the same decision.
//
// The ancestor chain is walked nearest-first and resolution stops at the
// first ancestor capable of the locked axis: a farther ancestor is never
// reached past a capable one, and whichever rule the nearest capable
// ancestor satisfies (or fails) is final.
type Resolver struct {
	Options Options
}

// Resolve produces the delegation decision for a freshly locked gesture.
func (r Resolver) Resolve(tree *viewport.Tree, s Stats) Decision {
	keep := Decision{Target: s.Origin, Axis: s.Axis, Reason: ReasonNone}

	origin, ok := tree.Node(s.Origin)
	if !ok {
		return keep
	}
	if !r.Options.DelegateToOuter {
		return keep
	}

	for _, ancestorID := range tree.AncestorChain(s.Origin) {
		ancestor, ok := tree.Node(ancestorID)
		if !ok || !ancestor.CapableOf(s.Axis) {
			continue
		}

		if !origin.CapableOf(s.Axis) {
			// Locked axis is orthogonal to the origin's capability.
			// Delegate on the first move, no boundary condition, but
			// only when the movement is decisively along that axis.
			if dominantAlong(s.Delta, s.Axis) {
				return Decision{Target: ancestorID, Axis: s.Axis, Reason: ReasonOrthogonal}
			}
			return keep
		}

		// Parallel or shared axis: delegate only when the touch began
		// at the origin's clamped extreme moving further out.
		if !r.Options.ParallelDelegation {
			return keep
		}
		axisDelta := s.Delta.X
		if s.Axis == viewport.AxisVertical {
			axisDelta = s.Delta.Y
		}
		outward := (s.BoundaryAtMin[s.Axis] && axisDelta > 0) ||
			(s.BoundaryAtMax[s.Axis] && axisDelta < 0)
		if outward {
			return Decision{Target: ancestorID, Axis: s.Axis, Reason: ReasonParallelBoundary}
		}
		return keep
	}

	return keep
}

// dominantAlong reports whether the movement is significantly along the
// axis: twice the perpendicular component, filtering diagonal noise.
func dominantAlong(delta geometry.Offset, axis viewport.Axis) bool {
	along, across := math.Abs(delta.X), math.Abs(delta.Y)
	if axis == viewport.AxisVertical {
		along, across = across, along
	}
	return along > across*2
}
