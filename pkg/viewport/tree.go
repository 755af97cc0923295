package viewport

import (
	"github.com/go-drift/scrollkit/pkg/geometry"
	"github.com/go-drift/scrollkit/pkg/physics"
	"github.com/go-drift/scrollkit/pkg/scrollerr"
)

// Tree is the arena owning every node in one nesting hierarchy. Nesting
// depth is unbounded; nothing in the tree assumes two-level nesting.
//
// Tree is not safe for concurrent use. Input events, layout updates and
// frame ticks are expected to arrive on one logical timeline.
type Tree struct {
	nodes  map[NodeID]*Node
	root   NodeID
	nextID NodeID
}

// NewTree creates an empty hierarchy.
func NewTree() *Tree {
	return &Tree{
		nodes:  make(map[NodeID]*Node),
		nextID: 1,
	}
}

// Root returns the root handle, or NoNode for an empty tree.
func (t *Tree) Root() NodeID { return t.root }

// Alive reports whether the handle refers to a live node.
func (t *Tree) Alive(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Node looks up a live node by handle.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	node, ok := t.nodes[id]
	return node, ok
}

// Insert adds a node under parent and returns its handle. Passing NoNode
// as parent installs the root, which must not already exist. Effects are
// created only for capable axes.
func (t *Tree) Insert(parent NodeID, spec NodeSpec) (NodeID, error) {
	if parent == NoNode {
		if t.root != NoNode {
			return NoNode, &scrollerr.NodeError{Op: "viewport.Tree.Insert", ID: int(t.root)}
		}
	} else if !t.Alive(parent) {
		return NoNode, &scrollerr.NodeError{Op: "viewport.Tree.Insert", ID: int(parent)}
	}

	id := t.nextID
	t.nextID++

	node := &Node{
		id:     id,
		parent: parent,
		bounds: spec.Bounds,
		allow:  [2]bool{spec.AllowX, spec.AllowY},
		content: [2]float64{
			spec.ContentExtent.Width,
			spec.ContentExtent.Height,
		},
		bars: [2]geometry.Rect{spec.BarX, spec.BarY},
	}
	for _, axis := range []Axis{AxisHorizontal, AxisVertical} {
		if !node.allow[axis] {
			continue
		}
		node.effects[axis] = physics.NewEffect(spec.Physics, 0, 0, node.ViewportExtent(axis))
	}
	node.refreshExtents()

	t.nodes[id] = node
	if parent == NoNode {
		t.root = id
	} else {
		parentNode := t.nodes[parent]
		parentNode.children = append(parentNode.children, id)
	}
	return id, nil
}

// Remove deletes a node and its entire subtree. Live gestures holding a
// removed handle recover through the router's dead-owner fallback.
func (t *Tree) Remove(id NodeID) error {
	node, ok := t.nodes[id]
	if !ok {
		return &scrollerr.NodeError{Op: "viewport.Tree.Remove", ID: int(id)}
	}

	if node.parent != NoNode {
		if parent, ok := t.nodes[node.parent]; ok {
			for i, child := range parent.children {
				if child == id {
					parent.children = append(parent.children[:i], parent.children[i+1:]...)
					break
				}
			}
		}
	} else {
		t.root = NoNode
	}

	t.removeSubtree(node)
	return nil
}

func (t *Tree) removeSubtree(node *Node) {
	for _, child := range node.children {
		if childNode, ok := t.nodes[child]; ok {
			t.removeSubtree(childNode)
		}
	}
	for _, effect := range node.effects {
		if effect != nil && effect.CurrentPhase() == physics.PhaseReleasing {
			effect.Reset()
		}
	}
	delete(t.nodes, node.id)
}

// AncestorChain returns the handles of the node's ancestors, nearest
// first. A dead or root handle yields nil.
func (t *Tree) AncestorChain(id NodeID) []NodeID {
	node, ok := t.nodes[id]
	if !ok {
		return nil
	}
	var chain []NodeID
	for current := node.parent; current != NoNode; {
		ancestor, ok := t.nodes[current]
		if !ok {
			break
		}
		chain = append(chain, current)
		current = ancestor.parent
	}
	return chain
}

// NearestAlive walks outward from the (possibly dead) handle's recorded
// chain and returns the closest surviving ancestor. Used to re-home
// gestures after hierarchy mutation.
func (t *Tree) NearestAlive(chain []NodeID) (NodeID, bool) {
	for _, id := range chain {
		if t.Alive(id) {
			return id, true
		}
	}
	return NoNode, false
}

// HitTest returns the deepest live node whose bounds contain the point.
// Later siblings sit on top of earlier ones, matching paint order.
func (t *Tree) HitTest(point geometry.Offset) (NodeID, bool) {
	if t.root == NoNode {
		return NoNode, false
	}
	return t.hitTest(t.root, point)
}

func (t *Tree) hitTest(id NodeID, point geometry.Offset) (NodeID, bool) {
	node, ok := t.nodes[id]
	if !ok || !node.bounds.Contains(point) {
		return NoNode, false
	}
	for i := len(node.children) - 1; i >= 0; i-- {
		if hit, ok := t.hitTest(node.children[i], point); ok {
			return hit, true
		}
	}
	return id, true
}

// BarHit reports whether the point lies inside one of the node's
// scrollbar hit regions, and on which axis.
func (t *Tree) BarHit(id NodeID, point geometry.Offset) (Axis, bool) {
	node, ok := t.nodes[id]
	if !ok {
		return AxisHorizontal, false
	}
	for _, axis := range []Axis{AxisHorizontal, AxisVertical} {
		bar := node.bars[axis]
		if !bar.IsEmpty() && bar.Contains(point) {
			return axis, true
		}
	}
	return AxisHorizontal, false
}
