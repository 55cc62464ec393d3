package compose

import (
	"fmt"
	"strings"

	"github.com/go-compose/compose/pkg/modifier"
)

// NodeID is the opaque, stable identity of a composition node. It is
// assigned once when the node is created and never reused while the node is
// alive. Identity, not structural position, is the unit of recomposition and
// reconciliation.
type NodeID uint64

// TypeTag identifies which composable produced a node. The reconciler only
// matches children whose type tags are identical.
type TypeTag string

// BodyFunc is a composable body: it describes a subtree by emitting children
// through the Composer. Bodies must be re-executable any number of times.
type BodyFunc func(*Composer)

// FallbackFunc composes replacement content for a failed subtree inside a
// failure boundary.
type FallbackFunc func(*Composer, error)

// Node is one retained node of the composition tree.
type Node struct {
	id      NodeID
	typeTag TypeTag
	key     any
	parent  NodeID
	depth   int

	// children in insertion order; insertion order is render order.
	children []NodeID

	// slots are exclusively owned by the node and destroyed with it.
	slots slotTable

	// chain is the opaque style payload, passed through unmodified.
	chain modifier.Chain

	// handle is a back-reference to the materialized presentation object.
	// The bridge owns it; the node only stores it.
	handle    Handle
	hasHandle bool

	// body is the retained composable body, refreshed on every emission that
	// re-matches this node.
	body BodyFunc

	// fallback is non-nil when this node is a failure boundary.
	fallback FallbackFunc
	// failure is the captured subtree failure shown by the boundary.
	failure error

	// ambients holds values provided by this node for descendant lookup.
	ambients map[any]any
}

// ID returns the node's identity.
func (n *Node) ID() NodeID { return n.id }

// Type returns the type tag of the composable that produced the node.
func (n *Node) Type() TypeTag { return n.typeTag }

// Key returns the application-supplied reconciliation key, or nil.
func (n *Node) Key() any { return n.key }

// Parent returns the identity of the owning parent, or 0 for the root.
func (n *Node) Parent() NodeID { return n.parent }

// Depth returns the node's distance from the root.
func (n *Node) Depth() int { return n.depth }

// Children returns the ordered child identities.
func (n *Node) Children() []NodeID {
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// Modifiers returns the opaque style payload attached to the node.
func (n *Node) Modifiers() modifier.Chain { return n.chain }

// Handle returns the materialized presentation handle, or nil if the bridge
// produced none.
func (n *Node) Handle() Handle { return n.handle }

// Handlers returns the event handlers remembered in the node's slots, in
// slot order. The input subsystem uses this for dispatch.
func (n *Node) Handlers() []func() {
	var out []func()
	for _, e := range n.slots.entries {
		if !e.handler {
			continue
		}
		if fn, ok := e.value.(func()); ok && fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

// Failed returns the captured failure if this node is a boundary currently
// showing its fallback, or nil.
func (n *Node) Failed() error { return n.failure }

// Tree is the persistent composition tree, addressable by identity. It is
// mutated only by the active composition pass; the presentation and input
// layers may read it between cycles.
type Tree struct {
	nodes  map[NodeID]*Node
	root   NodeID
	nextID NodeID
}

func newTree() *Tree {
	return &Tree{nodes: make(map[NodeID]*Node)}
}

// allocate creates a node with a fresh identity. Identities are a per-tree
// monotonic counter starting at 1; 0 is never assigned.
func (t *Tree) allocate(tag TypeTag, key any, chain modifier.Chain, body BodyFunc) *Node {
	t.nextID++
	n := &Node{
		id:      t.nextID,
		typeTag: tag,
		key:     key,
		chain:   chain,
		body:    body,
	}
	t.nodes[n.id] = n
	return n
}

func (t *Tree) remove(id NodeID) {
	delete(t.nodes, id)
	if t.root == id {
		t.root = 0
	}
}

// Root returns the root node identity, or 0 if no content is set.
func (t *Tree) Root() NodeID { return t.root }

// Node returns the node with the given identity, or nil.
func (t *Tree) Node(id NodeID) *Node { return t.nodes[id] }

// Len returns the number of live nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Walk traverses the subtree rooted at id depth-first in child order,
// calling fn for each node. Traversal stops when fn returns false.
func (t *Tree) Walk(id NodeID, fn func(*Node) bool) bool {
	n := t.nodes[id]
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, cid := range n.children {
		if !t.Walk(cid, fn) {
			return false
		}
	}
	return true
}

// Dump renders the tree as a deterministic indented listing, one node per
// line. Useful for debugging and golden tests.
func (t *Tree) Dump() string {
	if t.root == 0 {
		return "(empty)\n"
	}
	var sb strings.Builder
	t.dumpNode(&sb, t.root, 0)
	return sb.String()
}

func (t *Tree) dumpNode(sb *strings.Builder, id NodeID, indent int) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(sb, "%s#%d", n.typeTag, n.id)
	if n.key != nil {
		fmt.Fprintf(sb, " key=%v", n.key)
	}
	if len(n.chain) > 0 {
		fmt.Fprintf(sb, " [%s]", n.chain)
	}
	if n.failure != nil {
		sb.WriteString(" !failed")
	}
	sb.WriteString("\n")
	for _, cid := range n.children {
		t.dumpNode(sb, cid, indent+1)
	}
}
