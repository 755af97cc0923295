package gestures

import (
	"github.com/go-drift/scrollkit/pkg/physics"
	"github.com/go-drift/scrollkit/pkg/scrollerr"
	"github.com/go-drift/scrollkit/pkg/viewport"
)

// Router owns the live gesture sessions for one viewport tree and drives
// the physics registry from the frame tick.
//
// All input events and ticks must arrive on one logical timeline. The
// router processes every pending input event for a tick before advancing
// physics, never interleaved. Sessions for different pointer ids touch
// disjoint effect state and never block each other.
type Router struct {
	tree     *viewport.Tree
	opts     Options
	resolver Resolver
	handler  scrollerr.Handler

	sessions map[int64]*Session
	pending  map[int64]*pendingTouch
}

// pendingTouch buffers a touch during the optional gesture-start delay,
// before any session exists.
type pendingTouch struct {
	down   PointerEvent
	moves  []PointerEvent
	frames int
}

// NewRouter creates a router over the tree. A nil handler discards
// recoverable conditions.
func NewRouter(tree *viewport.Tree, opts Options, handler scrollerr.Handler) *Router {
	if handler == nil {
		handler = scrollerr.Silent{}
	}
	return &Router{
		tree:     tree,
		opts:     opts,
		resolver: Resolver{Options: opts},
		handler:  handler,
		sessions: make(map[int64]*Session),
		pending:  make(map[int64]*pendingTouch),
	}
}

// Session returns the live session for a pointer id.
func (r *Router) Session(id int64) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

// ActiveSessions returns the number of live sessions.
func (r *Router) ActiveSessions() int { return len(r.sessions) }

// HandlePointer processes one pointer event. Orphaned stops and cancels
// are reported to the handler and otherwise ignored; they are never fatal.
func (r *Router) HandlePointer(ev PointerEvent) error {
	switch ev.Phase {
	case PointerPhaseDown:
		return r.handleDown(ev)
	case PointerPhaseMove:
		return r.handleMove(ev)
	case PointerPhaseUp, PointerPhaseCancel:
		return r.handleStop(ev)
	}
	return nil
}

// HandleWheel routes one wheel event. Wheel routing is stateless and does
// not interact with sessions.
func (r *Router) HandleWheel(ev WheelEvent) (viewport.NodeID, bool) {
	return RouteWheel(r.tree, ev)
}

// Tick advances one frame: promotes pending touches whose delay expired,
// then steps every releasing effect by dt seconds. Call after all input
// events for the frame have been handled.
func (r *Router) Tick(dt float64) {
	for id, p := range r.pending {
		p.frames++
		if p.frames < r.opts.GestureStartDelayFrames {
			continue
		}
		delete(r.pending, id)
		if r.startSession(p.down) {
			for _, move := range p.moves {
				_ = r.handleMove(move)
			}
		}
	}
	physics.StepBy(dt)
}

func (r *Router) handleDown(ev PointerEvent) error {
	id := ev.PointerID
	if _, ok := r.sessions[id]; ok {
		r.handler.HandleSessionError(&scrollerr.SessionError{ID: id, Reason: "duplicate down"})
		return nil
	}
	if _, ok := r.pending[id]; ok {
		r.handler.HandleSessionError(&scrollerr.SessionError{ID: id, Reason: "duplicate down"})
		return nil
	}
	if r.opts.GestureStartDelayFrames > 0 {
		r.pending[id] = &pendingTouch{down: ev}
		return nil
	}
	r.startSession(ev)
	return nil
}

// startSession hit-tests the touch and creates its session. A touch
// outside every viewport, or on a node already owned by a live gesture,
// starts nothing.
func (r *Router) startSession(ev PointerEvent) bool {
	hit, ok := r.tree.HitTest(ev.Position)
	if !ok {
		return false
	}
	for _, existing := range r.sessions {
		if existing.Origin == hit {
			// Single-touch policy per node: extra touches are ignored.
			return false
		}
	}
	origin, ok := r.tree.Node(hit)
	if !ok {
		return false
	}
	r.sessions[ev.PointerID] = newSession(ev.PointerID, origin, ev)
	return true
}

func (r *Router) handleMove(ev PointerEvent) error {
	if p, ok := r.pending[ev.PointerID]; ok {
		p.moves = append(p.moves, ev)
		return nil
	}
	s, ok := r.sessions[ev.PointerID]
	if !ok {
		r.handler.HandleSessionError(&scrollerr.SessionError{ID: ev.PointerID, Reason: "move without session"})
		return nil
	}

	delta := s.track(ev)

	if !s.locked {
		if !s.maybeLock(r.opts.LockDistance) {
			return nil
		}
		// Resolution happens exactly once, on the locking move. The
		// locking move itself only anchors the drag; its delta is not
		// applied, so the content doesn't jump by the lock distance.
		s.Decision = r.resolver.Resolve(r.tree, s.stats(delta))
		s.Owner = s.Decision.Target
		s.ownerChain = r.tree.AncestorChain(s.Owner)
		r.beginOwnerDrag(s)
		return nil
	}

	if !r.ensureOwnerAlive(s) {
		return nil
	}
	if !s.effectBegun {
		return nil
	}
	owner, ok := r.tree.Node(s.Owner)
	if !ok {
		return nil
	}
	effect := owner.Effect(s.lockedAxis)
	if effect == nil {
		return nil
	}
	axisDelta := delta.X
	if s.lockedAxis == viewport.AxisVertical {
		axisDelta = delta.Y
	}
	// Content follows the finger: offset moves opposite to it.
	return effect.Drag(-axisDelta)
}

func (r *Router) handleStop(ev PointerEvent) error {
	if _, ok := r.pending[ev.PointerID]; ok {
		// The touch never became a gesture; let it go quietly.
		delete(r.pending, ev.PointerID)
		return nil
	}
	s, ok := r.sessions[ev.PointerID]
	if !ok {
		r.handler.HandleSessionError(&scrollerr.SessionError{ID: ev.PointerID, Reason: "stop without session"})
		return nil
	}
	delete(r.sessions, ev.PointerID)

	if !s.effectBegun {
		return nil
	}
	owner, ok := r.tree.Node(s.Owner)
	if !ok {
		return nil
	}
	effect := owner.Effect(s.lockedAxis)
	if effect == nil || effect.CurrentPhase() != physics.PhaseDragging {
		return nil
	}
	// Dragging always transitions through Releasing, even on cancel:
	// the trajectory computes from the last sampled velocity rather
	// than halting abruptly.
	return effect.Release(s.releaseVelocity())
}

// beginOwnerDrag puts the owner's locked-axis effect into its drag phase.
// An owner without capability on the locked axis leaves the gesture inert.
func (r *Router) beginOwnerDrag(s *Session) {
	owner, ok := r.tree.Node(s.Owner)
	if !ok {
		return
	}
	effect := owner.Effect(s.lockedAxis)
	if effect == nil {
		return
	}
	effect.Begin(effect.Position(), 0)
	s.effectBegun = true
}

// ensureOwnerAlive recovers a session whose owner was removed mid-touch,
// re-homing it to the nearest surviving ancestor or terminating it when
// none exists. This is the only path that rewrites a session's owner.
func (r *Router) ensureOwnerAlive(s *Session) bool {
	if r.tree.Alive(s.Owner) {
		return true
	}
	r.handler.HandleNodeError(&scrollerr.NodeError{
		Op: "gestures.Router.HandlePointer",
		ID: int(s.Owner),
	})
	fallback, ok := r.tree.NearestAlive(s.ownerChain)
	if !ok {
		delete(r.sessions, s.ID)
		return false
	}
	s.Owner = fallback
	s.ownerChain = r.tree.AncestorChain(fallback)
	s.effectBegun = false
	r.beginOwnerDrag(s)
	return true
}
