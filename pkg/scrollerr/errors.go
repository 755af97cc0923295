// Package scrollerr provides structured error handling for scrollkit.
package scrollerr

import "fmt"

// PhaseError reports an operation invoked in a phase that forbids it,
// such as dragging an effect that is not in its dragging phase. The
// receiving object's state is unchanged.
type PhaseError struct {
	// Op is the operation that was rejected (e.g., "physics.Effect.Drag").
	Op string
	// Phase is the phase the object was in when the call arrived.
	Phase string
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: invalid in phase %s", e.Op, e.Phase)
}

// SessionError reports a gesture event that arrived for a pointer id with
// no live session, such as a duplicate cancel. These are recoverable and
// routed to the Handler rather than failing the caller.
type SessionError struct {
	// ID is the pointer id the event carried.
	ID int64
	// Reason describes why the event could not be applied.
	Reason string
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("gesture session %d: %s", e.ID, e.Reason)
}

// NodeError reports a viewport operation against a handle that is unknown
// or has been removed from the tree.
type NodeError struct {
	// Op is the operation that failed (e.g., "viewport.Tree.Insert").
	Op string
	// ID is the offending node handle.
	ID int
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s: no live node with id %d", e.Op, e.ID)
}

// Handler receives recoverable error conditions that are not returned to
// the caller, such as orphaned session events.
type Handler interface {
	// HandleSessionError is called for orphaned or otherwise unroutable
	// gesture events.
	HandleSessionError(err *SessionError)
	// HandleNodeError is called when a live gesture loses its node
	// mid-touch and the router recovers.
	HandleNodeError(err *NodeError)
}
