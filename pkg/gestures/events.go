// Package gestures routes pointer and wheel input across a viewport
// hierarchy: it tracks one session per live touch, decides once per
// gesture which node owns it, and feeds the owning node's overscroll
// effect.
package gestures

import (
	"time"

	"github.com/go-drift/scrollkit/pkg/geometry"
	"github.com/go-drift/scrollkit/pkg/viewport"
)

// PointerPhase identifies where in its lifetime a pointer event sits.
type PointerPhase int

const (
	// PointerPhaseDown starts a touch.
	PointerPhaseDown PointerPhase = iota
	// PointerPhaseMove continues a touch.
	PointerPhaseMove
	// PointerPhaseUp ends a touch normally.
	PointerPhaseUp
	// PointerPhaseCancel ends a touch abnormally.
	PointerPhaseCancel
)

// PointerEvent is one raw touch or mouse event in window coordinates.
type PointerEvent struct {
	PointerID int64
	Position  geometry.Offset
	Timestamp time.Time
	Phase     PointerPhase
}

// WheelEvent is one discrete wheel or trackpad tick. Delta is expressed
// in scroll-offset pixels along Axis: positive scrolls toward the max
// extent.
type WheelEvent struct {
	Position  geometry.Offset
	Axis      viewport.Axis
	Delta     float64
	Timestamp time.Time
}

// Options are the tunables of the delegation resolver and the router.
type Options struct {
	// ParallelDelegation enables boundary hand-off between nodes that
	// scroll the same axis.
	ParallelDelegation bool
	// DelegateToOuter enables delegation entirely; disabled, every
	// gesture stays with the node it started on.
	DelegateToOuter bool
	// GestureStartDelayFrames defers session creation by this many
	// frame ticks after a touch lands. Zero starts sessions immediately.
	GestureStartDelayFrames int
	// LockDistance is the accumulated movement, in pixels, after which
	// a gesture locks to an axis.
	LockDistance float64
}

// DefaultOptions returns the stock router behavior.
func DefaultOptions() Options {
	return Options{
		ParallelDelegation: true,
		DelegateToOuter:    true,
		LockDistance:       20.0,
	}
}
