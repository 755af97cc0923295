package gestures_test

import (
	"math"
	"testing"
	"time"

	"github.com/go-drift/scrollkit/pkg/geometry"
	"github.com/go-drift/scrollkit/pkg/gestures"
	"github.com/go-drift/scrollkit/pkg/physics"
	"github.com/go-drift/scrollkit/pkg/scrollerr"
	"github.com/go-drift/scrollkit/pkg/scrolltest"
	"github.com/go-drift/scrollkit/pkg/viewport"
)

// recordingHandler captures recoverable conditions for assertions.
type recordingHandler struct {
	sessions []*scrollerr.SessionError
	nodes    []*scrollerr.NodeError
}

func (h *recordingHandler) HandleSessionError(err *scrollerr.SessionError) {
	h.sessions = append(h.sessions, err)
}

func (h *recordingHandler) HandleNodeError(err *scrollerr.NodeError) {
	h.nodes = append(h.nodes, err)
}

// nestedTree builds a root that scrolls both axes with a vertical-only
// inner viewport, the layout every delegation rule is defined against.
func nestedTree(t *testing.T) (*viewport.Tree, viewport.NodeID, viewport.NodeID) {
	t.Helper()
	tree := viewport.NewTree()
	root, err := tree.Insert(viewport.NoNode, viewport.NodeSpec{
		Bounds:        geometry.RectFromLTWH(0, 0, 800, 600),
		AllowX:        true,
		AllowY:        true,
		ContentExtent: geometry.Size{Width: 1600, Height: 2400},
		Physics:       physics.DefaultConfig(),
	})
	if err != nil {
		t.Fatal(err)
	}
	inner, err := tree.Insert(root, viewport.NodeSpec{
		Bounds:        geometry.RectFromLTWH(100, 100, 400, 300),
		AllowY:        true,
		ContentExtent: geometry.Size{Width: 400, Height: 900},
		Physics:       physics.DefaultConfig(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return tree, root, inner
}

// moveEvents builds a down followed by per-frame moves with a constant
// step, without the trailing up.
func moveEvents(id int64, start geometry.Offset, step geometry.Offset, moves int) []gestures.PointerEvent {
	at := time.Unix(0, 0)
	events := []gestures.PointerEvent{{
		PointerID: id, Position: start, Timestamp: at, Phase: gestures.PointerPhaseDown,
	}}
	position := start
	for i := 0; i < moves; i++ {
		at = at.Add(16 * time.Millisecond)
		position = position.Add(step)
		events = append(events, gestures.PointerEvent{
			PointerID: id, Position: position, Timestamp: at, Phase: gestures.PointerPhaseMove,
		})
	}
	return events
}

func TestRouter_OrthogonalDelegation(t *testing.T) {
	// Inner scrolls only vertically; a dominantly horizontal gesture on
	// it belongs to the root from the moment the direction locks.
	tree, root, inner := nestedTree(t)
	router := gestures.NewRouter(tree, gestures.DefaultOptions(), nil)

	scrolltest.Play(router, moveEvents(1, geometry.Offset{X: 200, Y: 200}, geometry.Offset{X: 15, Y: 2}, 3))

	s, ok := router.Session(1)
	if !ok {
		t.Fatal("no session for pointer 1")
	}
	if !s.Locked() || s.LockedAxis() != viewport.AxisHorizontal {
		t.Fatalf("locked=%v axis=%v, want horizontal lock", s.Locked(), s.LockedAxis())
	}
	if s.Origin != inner {
		t.Fatalf("origin = %d, want %d", s.Origin, inner)
	}
	if s.Owner != root {
		t.Errorf("owner = %d, want delegated to %d", s.Owner, root)
	}
	if s.Decision.Reason != gestures.ReasonOrthogonal {
		t.Errorf("reason = %v, want orthogonal", s.Decision.Reason)
	}

	rootNode, _ := tree.Node(root)
	effect := rootNode.Effect(viewport.AxisHorizontal)
	if effect.CurrentPhase() != physics.PhaseDragging {
		t.Errorf("root X effect phase = %v, want dragging", effect.CurrentPhase())
	}
	// Root sits at its min extent, so the rightward pull overscrolls it.
	if effect.Overscroll() >= 0 {
		t.Errorf("root X overscroll = %g, want negative", effect.Overscroll())
	}
}

func TestRouter_OrthogonalDelegationRequiresDelegateToOuter(t *testing.T) {
	tree, _, inner := nestedTree(t)
	opts := gestures.DefaultOptions()
	opts.DelegateToOuter = false
	router := gestures.NewRouter(tree, opts, nil)

	scrolltest.Play(router, moveEvents(1, geometry.Offset{X: 200, Y: 200}, geometry.Offset{X: 15, Y: 2}, 3))

	s, _ := router.Session(1)
	if s.Owner != inner {
		t.Errorf("owner = %d with delegation disabled, want origin %d", s.Owner, inner)
	}
	if s.Decision.Reason != gestures.ReasonNone {
		t.Errorf("reason = %v, want none", s.Decision.Reason)
	}
}

func TestRouter_ParallelBoundaryDelegation(t *testing.T) {
	// Inner starts at its top boundary; dragging further down on the
	// shared vertical axis hands the gesture to the root.
	tree, root, _ := nestedTree(t)
	router := gestures.NewRouter(tree, gestures.DefaultOptions(), nil)

	scrolltest.Play(router, moveEvents(1, geometry.Offset{X: 200, Y: 200}, geometry.Offset{X: 0, Y: 15}, 3))

	s, _ := router.Session(1)
	if s.Owner != root {
		t.Fatalf("owner = %d, want delegated to %d", s.Owner, root)
	}
	if s.Decision.Reason != gestures.ReasonParallelBoundary {
		t.Errorf("reason = %v, want parallel-boundary", s.Decision.Reason)
	}
}

func TestRouter_ParallelDelegationDisabledShowsOriginOverscroll(t *testing.T) {
	tree, _, inner := nestedTree(t)
	opts := gestures.DefaultOptions()
	opts.ParallelDelegation = false
	router := gestures.NewRouter(tree, opts, nil)

	scrolltest.Play(router, moveEvents(1, geometry.Offset{X: 200, Y: 200}, geometry.Offset{X: 0, Y: 15}, 4))

	s, _ := router.Session(1)
	if s.Owner != inner {
		t.Fatalf("owner = %d, want origin %d", s.Owner, inner)
	}

	innerNode, _ := tree.Node(inner)
	if over := innerNode.Effect(viewport.AxisVertical).Overscroll(); over >= 0 {
		t.Errorf("inner overscroll = %g, want negative rubber-band pull", over)
	}
}

func TestRouter_ParallelDelegationRequiresBoundaryAtStart(t *testing.T) {
	// Inner starts mid-scroll. The gesture reaches the boundary mid-move,
	// but the decision was fixed at lock time, so ownership never moves.
	tree, _, inner := nestedTree(t)
	innerNode, _ := tree.Node(inner)
	innerNode.Effect(viewport.AxisVertical).JumpBy(40)

	router := gestures.NewRouter(tree, gestures.DefaultOptions(), nil)
	scrolltest.Play(router, moveEvents(1, geometry.Offset{X: 200, Y: 120}, geometry.Offset{X: 0, Y: 15}, 8))

	s, _ := router.Session(1)
	if s.Owner != inner {
		t.Fatalf("owner = %d, want origin %d", s.Owner, inner)
	}
	if s.Decision.Reason != gestures.ReasonNone {
		t.Errorf("reason = %v, want none", s.Decision.Reason)
	}
	// 8 moves of 15 pull well past the 40 of scrollable room: the origin
	// absorbed the excess itself.
	if over := innerNode.Effect(viewport.AxisVertical).Overscroll(); over >= 0 {
		t.Errorf("inner overscroll = %g, want negative", over)
	}
}

func TestRouter_LockRequiresDistance(t *testing.T) {
	tree, _, _ := nestedTree(t)
	router := gestures.NewRouter(tree, gestures.DefaultOptions(), nil)

	// 3 moves of 5 accumulate 15, under the 20 lock distance.
	scrolltest.Play(router, moveEvents(1, geometry.Offset{X: 200, Y: 200}, geometry.Offset{X: 0, Y: 5}, 3))

	s, ok := router.Session(1)
	if !ok {
		t.Fatal("no session")
	}
	if s.Locked() {
		t.Error("gesture locked below the lock distance")
	}
}

func TestRouter_LockingMoveDoesNotScroll(t *testing.T) {
	tree, _, inner := nestedTree(t)
	innerNode, _ := tree.Node(inner)
	innerNode.Effect(viewport.AxisVertical).JumpBy(300)

	router := gestures.NewRouter(tree, gestures.DefaultOptions(), nil)
	events := moveEvents(1, geometry.Offset{X: 200, Y: 200}, geometry.Offset{X: 0, Y: -15}, 2)
	scrolltest.Play(router, events)

	s, _ := router.Session(1)
	if !s.Locked() {
		t.Fatal("gesture should lock on the second move")
	}
	// The locking move anchors the drag; the content has not moved yet.
	if got := innerNode.Offset(viewport.AxisVertical); got != 300 {
		t.Errorf("offset = %g after locking move, want unchanged 300", got)
	}

	scrolltest.Play(router, []gestures.PointerEvent{{
		PointerID: 1,
		Position:  geometry.Offset{X: 200, Y: 155},
		Timestamp: time.Unix(0, 0).Add(48 * time.Millisecond),
		Phase:     gestures.PointerPhaseMove,
	}})
	if got := innerNode.Offset(viewport.AxisVertical); got != 315 {
		t.Errorf("offset = %g after post-lock move of -15, want 315", got)
	}
}

func TestRouter_ReleaseUsesLastMoveVelocity(t *testing.T) {
	tree, _, inner := nestedTree(t)
	innerNode, _ := tree.Node(inner)
	innerNode.Effect(viewport.AxisVertical).JumpBy(300)

	router := gestures.NewRouter(tree, gestures.DefaultOptions(), nil)
	events := scrolltest.DragScript(1,
		geometry.Offset{X: 200, Y: 200}, geometry.Offset{X: 200, Y: 280}, 5, time.Unix(0, 0))
	scrolltest.Play(router, events)

	effect := innerNode.Effect(viewport.AxisVertical)
	if effect.CurrentPhase() != physics.PhaseReleasing {
		t.Fatalf("phase = %v after up, want releasing", effect.CurrentPhase())
	}
	// Finger moved +16 per 16ms frame; offset velocity is the negation.
	if got := effect.Velocity(); math.Abs(got+1000) > 1e-6 {
		t.Errorf("release velocity = %g, want -1000", got)
	}
	if _, ok := router.Session(1); ok {
		t.Error("session survived the up event")
	}

	effect.Reset()
}

func TestRouter_CancelReleasesLikeUp(t *testing.T) {
	tree, _, inner := nestedTree(t)
	innerNode, _ := tree.Node(inner)
	innerNode.Effect(viewport.AxisVertical).JumpBy(300)

	router := gestures.NewRouter(tree, gestures.DefaultOptions(), nil)
	events := moveEvents(1, geometry.Offset{X: 200, Y: 200}, geometry.Offset{X: 0, Y: -16}, 4)
	scrolltest.Play(router, events)
	scrolltest.Play(router, []gestures.PointerEvent{{
		PointerID: 1,
		Position:  geometry.Offset{X: 200, Y: 136},
		Timestamp: time.Unix(0, 0).Add(80 * time.Millisecond),
		Phase:     gestures.PointerPhaseCancel,
	}})

	effect := innerNode.Effect(viewport.AxisVertical)
	if effect.CurrentPhase() != physics.PhaseReleasing {
		t.Errorf("phase = %v after cancel, want releasing, never an abrupt halt", effect.CurrentPhase())
	}
	effect.Reset()
}

func TestRouter_OrphanedEventsAreReportedNotFatal(t *testing.T) {
	tree, _, _ := nestedTree(t)
	handler := &recordingHandler{}
	router := gestures.NewRouter(tree, gestures.DefaultOptions(), handler)

	err := router.HandlePointer(gestures.PointerEvent{
		PointerID: 7, Position: geometry.Offset{X: 200, Y: 200}, Phase: gestures.PointerPhaseUp,
	})
	if err != nil {
		t.Fatalf("orphaned up returned %v, want nil", err)
	}
	if len(handler.sessions) != 1 || handler.sessions[0].ID != 7 {
		t.Fatalf("handler saw %v, want one session error for pointer 7", handler.sessions)
	}

	router.HandlePointer(gestures.PointerEvent{
		PointerID: 8, Position: geometry.Offset{X: 200, Y: 200}, Phase: gestures.PointerPhaseMove,
	})
	if len(handler.sessions) != 2 {
		t.Errorf("orphaned move not reported")
	}
}

func TestRouter_DuplicateDownReported(t *testing.T) {
	tree, _, _ := nestedTree(t)
	handler := &recordingHandler{}
	router := gestures.NewRouter(tree, gestures.DefaultOptions(), handler)

	down := gestures.PointerEvent{
		PointerID: 1, Position: geometry.Offset{X: 200, Y: 200}, Phase: gestures.PointerPhaseDown,
	}
	router.HandlePointer(down)
	router.HandlePointer(down)

	if len(handler.sessions) != 1 {
		t.Fatalf("duplicate down produced %d reports, want 1", len(handler.sessions))
	}
	if router.ActiveSessions() != 1 {
		t.Errorf("sessions = %d, want 1", router.ActiveSessions())
	}
}

func TestRouter_SecondTouchOnOwnedNodeIgnored(t *testing.T) {
	tree, _, _ := nestedTree(t)
	router := gestures.NewRouter(tree, gestures.DefaultOptions(), nil)

	router.HandlePointer(gestures.PointerEvent{
		PointerID: 1, Position: geometry.Offset{X: 200, Y: 200}, Phase: gestures.PointerPhaseDown,
	})
	router.HandlePointer(gestures.PointerEvent{
		PointerID: 2, Position: geometry.Offset{X: 250, Y: 250}, Phase: gestures.PointerPhaseDown,
	})

	if router.ActiveSessions() != 1 {
		t.Errorf("sessions = %d, want 1: second touch on an owned node starts nothing",
			router.ActiveSessions())
	}
}

func TestRouter_ConcurrentSessionsOnDistinctNodes(t *testing.T) {
	tree, _, _ := nestedTree(t)
	router := gestures.NewRouter(tree, gestures.DefaultOptions(), nil)

	// One touch on the inner viewport, one on the root outside it.
	router.HandlePointer(gestures.PointerEvent{
		PointerID: 1, Position: geometry.Offset{X: 200, Y: 200}, Phase: gestures.PointerPhaseDown,
	})
	router.HandlePointer(gestures.PointerEvent{
		PointerID: 2, Position: geometry.Offset{X: 700, Y: 500}, Phase: gestures.PointerPhaseDown,
	})

	if router.ActiveSessions() != 2 {
		t.Fatalf("sessions = %d, want 2", router.ActiveSessions())
	}
}

func TestRouter_DeadOwnerFallsBackToAncestor(t *testing.T) {
	tree, root, inner := nestedTree(t)
	handler := &recordingHandler{}
	router := gestures.NewRouter(tree, gestures.DefaultOptions(), handler)

	// Lock a vertical drag owned by the inner node.
	innerNode, _ := tree.Node(inner)
	innerNode.Effect(viewport.AxisVertical).JumpBy(300)
	scrolltest.Play(router, moveEvents(1, geometry.Offset{X: 200, Y: 200}, geometry.Offset{X: 0, Y: -15}, 3))

	s, _ := router.Session(1)
	if s.Owner != inner {
		t.Fatalf("owner = %d, want %d", s.Owner, inner)
	}

	// The owner disappears mid-gesture; the next move re-homes to root.
	if err := tree.Remove(inner); err != nil {
		t.Fatal(err)
	}
	scrolltest.Play(router, []gestures.PointerEvent{{
		PointerID: 1,
		Position:  geometry.Offset{X: 200, Y: 140},
		Timestamp: time.Unix(0, 0).Add(64 * time.Millisecond),
		Phase:     gestures.PointerPhaseMove,
	}})

	if len(handler.nodes) == 0 {
		t.Fatal("dead owner not reported")
	}
	s, ok := router.Session(1)
	if !ok {
		t.Fatal("session terminated despite a surviving ancestor")
	}
	if s.Owner != root {
		t.Errorf("owner = %d after recovery, want %d", s.Owner, root)
	}
}

func TestRouter_DeadOwnerWithoutAncestorEndsSession(t *testing.T) {
	tree, root, _ := nestedTree(t)
	router := gestures.NewRouter(tree, gestures.DefaultOptions(), nil)

	scrolltest.Play(router, moveEvents(1, geometry.Offset{X: 200, Y: 200}, geometry.Offset{X: 0, Y: 15}, 3))
	if router.ActiveSessions() != 1 {
		t.Fatal("no session to orphan")
	}

	if err := tree.Remove(root); err != nil {
		t.Fatal(err)
	}
	scrolltest.Play(router, []gestures.PointerEvent{{
		PointerID: 1,
		Position:  geometry.Offset{X: 200, Y: 260},
		Timestamp: time.Unix(0, 0).Add(64 * time.Millisecond),
		Phase:     gestures.PointerPhaseMove,
	}})

	if router.ActiveSessions() != 0 {
		t.Errorf("sessions = %d after whole-tree removal, want 0", router.ActiveSessions())
	}
}

func TestRouter_StartDelayBuffersAndReplays(t *testing.T) {
	tree, _, inner := nestedTree(t)
	opts := gestures.DefaultOptions()
	opts.GestureStartDelayFrames = 2
	router := gestures.NewRouter(tree, opts, nil)

	scrolltest.Play(router, moveEvents(1, geometry.Offset{X: 200, Y: 200}, geometry.Offset{X: 0, Y: 15}, 3))
	if router.ActiveSessions() != 0 {
		t.Fatal("session created before the start delay elapsed")
	}

	router.Tick(1.0 / 60.0)
	if router.ActiveSessions() != 0 {
		t.Fatal("session created one frame early")
	}
	router.Tick(1.0 / 60.0)

	s, ok := router.Session(1)
	if !ok {
		t.Fatal("session not promoted after the delay")
	}
	if s.Origin != inner {
		t.Errorf("origin = %d, want %d", s.Origin, inner)
	}
	// The buffered moves replayed through the normal path: 45 of travel
	// locks the gesture.
	if !s.Locked() {
		t.Error("buffered moves were not replayed on promotion")
	}
}

func TestRouter_TouchOutsideEveryViewportIgnored(t *testing.T) {
	tree, _, _ := nestedTree(t)
	router := gestures.NewRouter(tree, gestures.DefaultOptions(), nil)

	router.HandlePointer(gestures.PointerEvent{
		PointerID: 1, Position: geometry.Offset{X: -50, Y: -50}, Phase: gestures.PointerPhaseDown,
	})
	if router.ActiveSessions() != 0 {
		t.Error("touch outside every viewport started a session")
	}
}

func TestResolver_Deterministic(t *testing.T) {
	tree, _, inner := nestedTree(t)
	resolver := gestures.Resolver{Options: gestures.DefaultOptions()}
	stats := gestures.Stats{
		Origin:        inner,
		Axis:          viewport.AxisHorizontal,
		Delta:         geometry.Offset{X: 15, Y: 2},
		BoundaryAtMin: [2]bool{true, true},
	}

	first := resolver.Resolve(tree, stats)
	for i := 0; i < 10; i++ {
		if got := resolver.Resolve(tree, stats); got != first {
			t.Fatalf("Resolve not deterministic: %+v vs %+v", got, first)
		}
	}
	if first.Reason != gestures.ReasonOrthogonal {
		t.Errorf("reason = %v, want orthogonal", first.Reason)
	}
}

func TestResolver_DiagonalNoiseKeepsOrigin(t *testing.T) {
	tree, _, inner := nestedTree(t)
	resolver := gestures.Resolver{Options: gestures.DefaultOptions()}

	// Horizontal lock but nearly diagonal movement: not decisive enough
	// to pull the gesture outward.
	decision := resolver.Resolve(tree, gestures.Stats{
		Origin: inner,
		Axis:   viewport.AxisHorizontal,
		Delta:  geometry.Offset{X: 12, Y: 10},
	})
	if decision.Target != inner || decision.Reason != gestures.ReasonNone {
		t.Errorf("decision = %+v, want origin kept", decision)
	}
}
