package scrolltest

import (
	"time"

	"github.com/go-drift/scrollkit/pkg/geometry"
	"github.com/go-drift/scrollkit/pkg/gestures"
)

// frameInterval is the event spacing used by the scripting helpers,
// matching a 60fps input source.
const frameInterval = 16 * time.Millisecond

// DragScript builds the event sequence for a straight drag: one down,
// evenly spaced moves, and one up. Events are 16ms apart starting at
// start.
func DragScript(id int64, from, to geometry.Offset, moves int, start time.Time) []gestures.PointerEvent {
	if moves < 1 {
		moves = 1
	}
	events := make([]gestures.PointerEvent, 0, moves+2)
	events = append(events, gestures.PointerEvent{
		PointerID: id,
		Position:  from,
		Timestamp: start,
		Phase:     gestures.PointerPhaseDown,
	})

	step := geometry.Offset{
		X: (to.X - from.X) / float64(moves),
		Y: (to.Y - from.Y) / float64(moves),
	}
	at := start
	position := from
	for i := 0; i < moves; i++ {
		at = at.Add(frameInterval)
		position = position.Add(step)
		events = append(events, gestures.PointerEvent{
			PointerID: id,
			Position:  position,
			Timestamp: at,
			Phase:     gestures.PointerPhaseMove,
		})
	}

	events = append(events, gestures.PointerEvent{
		PointerID: id,
		Position:  position,
		Timestamp: at.Add(frameInterval),
		Phase:     gestures.PointerPhaseUp,
	})
	return events
}

// Play feeds a script through the router in order.
func Play(router *gestures.Router, events []gestures.PointerEvent) {
	for _, ev := range events {
		_ = router.HandlePointer(ev)
	}
}

// PlayUntil feeds events through the router, stopping after (and
// including) the first event for which stop returns true. It returns the
// number of events delivered.
func PlayUntil(router *gestures.Router, events []gestures.PointerEvent, stop func(gestures.PointerEvent) bool) int {
	for i, ev := range events {
		_ = router.HandlePointer(ev)
		if stop != nil && stop(ev) {
			return i + 1
		}
	}
	return len(events)
}
