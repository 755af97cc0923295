// Package viewport models the nesting hierarchy of scrollable regions.
//
// Nodes live in an arena owned by a [Tree] and are addressed by stable
// [NodeID] handles. A node's parent link is a lookup relation only; the
// tree owns every node and removal works strictly top-down. There is no
// node subclassing: a node's behavior is entirely described by its per-axis
// capability flags and the overscroll effects attached to capable axes.
package viewport

import (
	"fmt"

	"github.com/go-drift/scrollkit/pkg/geometry"
	"github.com/go-drift/scrollkit/pkg/physics"
)

// Axis identifies a scroll axis.
type Axis int

const (
	// AxisHorizontal is the X axis.
	AxisHorizontal Axis = iota
	// AxisVertical is the Y axis.
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisHorizontal {
		return AxisVertical
	}
	return AxisHorizontal
}

// Direction identifies which extent of an axis a query refers to.
type Direction int

const (
	// DirectionMin is the extent at the low end of the axis (top / left).
	DirectionMin Direction = iota
	// DirectionMax is the extent at the high end of the axis.
	DirectionMax
)

// NodeID is a stable handle into a Tree's arena. Handles are never reused
// within a tree; a removed node's handle stays dead.
type NodeID int

// NoNode is the zero handle. It is the parent of the root node.
const NoNode NodeID = 0

// NodeSpec describes a node to insert. Effects are constructed explicitly
// from the supplied physics configuration; there is no registry or
// default-lookup indirection.
type NodeSpec struct {
	// Bounds is the viewport rectangle in window coordinates.
	Bounds geometry.Rect
	// AllowX and AllowY enable scrolling per axis.
	AllowX bool
	AllowY bool
	// ContentExtent is the full content size along each axis.
	ContentExtent geometry.Size
	// BarX and BarY are optional scrollbar hit regions in window
	// coordinates. Empty rects mean no bar.
	BarX geometry.Rect
	BarY geometry.Rect
	// Physics tunes the node's overscroll effects.
	Physics physics.Config
}

// Node is one scrollable region in the hierarchy.
type Node struct {
	id       NodeID
	parent   NodeID
	children []NodeID

	bounds  geometry.Rect
	allow   [2]bool
	content [2]float64
	bars    [2]geometry.Rect

	// effects holds one overscroll effect per capable axis. An axis
	// without capability has no effect at all, which pins its offset
	// to zero by construction.
	effects [2]*physics.Effect
}

// ID returns the node's handle.
func (n *Node) ID() NodeID { return n.id }

// Parent returns the parent handle, or NoNode for the root.
func (n *Node) Parent() NodeID { return n.parent }

// Children returns the node's children in insertion order. The returned
// slice is owned by the node and must not be mutated.
func (n *Node) Children() []NodeID { return n.children }

// Bounds returns the viewport rectangle in window coordinates.
func (n *Node) Bounds() geometry.Rect { return n.bounds }

// CapableOf reports whether the node scrolls along the axis.
func (n *Node) CapableOf(axis Axis) bool { return n.allow[axis] }

// Effect returns the overscroll effect for a capable axis, or nil.
func (n *Node) Effect(axis Axis) *physics.Effect { return n.effects[axis] }

// Offset returns the render-facing scroll offset for the axis. Axes
// without capability always report zero.
func (n *Node) Offset(axis Axis) float64 {
	if n.effects[axis] == nil {
		return 0
	}
	return n.effects[axis].Position()
}

// ViewportExtent returns the visible dimension along the axis.
func (n *Node) ViewportExtent(axis Axis) float64 {
	if axis == AxisHorizontal {
		return n.bounds.Width()
	}
	return n.bounds.Height()
}

// ContentExtent returns the content dimension along the axis.
func (n *Node) ContentExtent(axis Axis) float64 { return n.content[axis] }

// BarRect returns the scrollbar hit region for the axis. The zero rect
// means the node draws no bar on that axis.
func (n *Node) BarRect(axis Axis) geometry.Rect { return n.bars[axis] }

// IsAtBoundary reports whether the axis offset sits at the clamped extreme
// in the given direction, within the effect's settle tolerance. Incapable
// axes are never at a boundary.
func (n *Node) IsAtBoundary(axis Axis, dir Direction) bool {
	effect := n.effects[axis]
	if effect == nil {
		return false
	}
	min, max := effect.Extents()
	tolerance := effect.Configuration().SettleEpsilonPosition
	if dir == DirectionMin {
		return effect.Position() <= min+tolerance
	}
	return effect.Position() >= max-tolerance
}

// Room returns the in-bounds distance the node can still scroll in the
// sign direction of delta. Zero delta or an incapable axis yields zero.
func (n *Node) Room(axis Axis, delta float64) float64 {
	effect := n.effects[axis]
	if effect == nil || delta == 0 {
		return 0
	}
	min, max := effect.Extents()
	if delta > 0 {
		room := max - effect.Position()
		if room < 0 {
			return 0
		}
		return room
	}
	room := effect.Position() - min
	if room < 0 {
		return 0
	}
	return room
}

// SetBounds moves the viewport rectangle after a layout pass and refreshes
// the effects' viewport extents.
func (n *Node) SetBounds(bounds geometry.Rect) {
	n.bounds = bounds
	n.refreshExtents()
}

// SetContentExtent updates the content dimension along the axis after a
// layout pass.
func (n *Node) SetContentExtent(axis Axis, extent float64) {
	n.content[axis] = extent
	n.refreshExtents()
}

// SetBarRect updates the scrollbar hit region for the axis.
func (n *Node) SetBarRect(axis Axis, rect geometry.Rect) {
	n.bars[axis] = rect
}

// refreshExtents recomputes each capable axis's scroll range as
// [0, content − viewport], floored at zero.
func (n *Node) refreshExtents() {
	for _, axis := range []Axis{AxisHorizontal, AxisVertical} {
		effect := n.effects[axis]
		if effect == nil {
			continue
		}
		max := n.content[axis] - n.ViewportExtent(axis)
		if max < 0 {
			max = 0
		}
		effect.SetExtents(0, max)
		effect.SetViewportExtent(n.ViewportExtent(axis))
	}
}
