package gestures

import (
	"github.com/go-drift/scrollkit/pkg/viewport"
)

// RouteWheel resolves one wheel event against the hierarchy. It is
// stateless: every event independently hit-tests the deepest node under
// the pointer.
//
// If that node can move at all in the wheel's axis the delta is absorbed
// there (clamped at the extents) and the event is consumed, never
// propagated outward. A node already at its extreme drops the event,
// unless the pointer sits inside an ancestor's scrollbar hit region for
// the same axis, in which case that ancestor scrolls directly. The
// delegation switches do not apply to wheel routing.
//
// Returns the node that absorbed the event and whether anything consumed
// it.
func RouteWheel(tree *viewport.Tree, ev WheelEvent) (viewport.NodeID, bool) {
	hit, ok := tree.HitTest(ev.Position)
	if !ok {
		return viewport.NoNode, false
	}
	node, ok := tree.Node(hit)
	if !ok {
		return viewport.NoNode, false
	}

	if node.CapableOf(ev.Axis) && node.Room(ev.Axis, ev.Delta) > 0 {
		node.Effect(ev.Axis).JumpBy(ev.Delta)
		return hit, true
	}

	// Exhausted (or incapable) under the pointer: the event dies here
	// rather than hijacking an outer view, except over an ancestor's own
	// scrollbar.
	for _, ancestorID := range tree.AncestorChain(hit) {
		axis, onBar := tree.BarHit(ancestorID, ev.Position)
		if !onBar || axis != ev.Axis {
			continue
		}
		ancestor, ok := tree.Node(ancestorID)
		if !ok || !ancestor.CapableOf(ev.Axis) {
			continue
		}
		if ancestor.Room(ev.Axis, ev.Delta) <= 0 {
			continue
		}
		ancestor.Effect(ev.Axis).JumpBy(ev.Delta)
		return ancestorID, true
	}
	return viewport.NoNode, false
}
