package compose

import (
	"fmt"

	"github.com/go-compose/compose/pkg/errors"
	"github.com/go-compose/compose/pkg/modifier"
)

// Composer is the single active cursor through the tree during a cycle. It
// is the sole interface a composable body uses to request slots, emit
// children, open scoped regions, and read ambient values. There is no hidden
// global: every composable takes a *Composer as its first argument.
type Composer struct {
	rt    *Recomposer
	stack []*frame
}

// frame tracks one open scope: the node being composed, the children its
// body has emitted so far this pass, and side effects to run after the
// node's reconciliation.
type frame struct {
	node        *Node
	pending     []childSpec
	sideEffects []func()
}

// childSpec is one child emission of the current pass, awaiting
// reconciliation against the parent's previous children.
type childSpec struct {
	tag      TypeTag
	key      any
	chain    modifier.Chain
	body     BodyFunc
	fallback FallbackFunc
}

// Scope is the guard returned by OpenScope. Closing it pops the scope; the
// guard must be closed on all exit paths, typically with defer.
type Scope struct {
	c      *Composer
	frame  *frame
	closed bool
}

// OpenScope pushes the node with the given identity as the active parent.
// The returned guard must be closed exactly once; unbalanced open/close
// pairs are a caller-contract violation.
func (c *Composer) OpenScope(id NodeID) (*Scope, error) {
	n := c.rt.tree.Node(id)
	if n == nil {
		return nil, &errors.ContractError{
			Op:     "Composer.OpenScope",
			Detail: fmt.Sprintf("no node with identity %d", id),
		}
	}
	return c.openScope(n), nil
}

func (c *Composer) openScope(n *Node) *Scope {
	n.slots.reset()
	n.ambients = nil
	f := &frame{node: n}
	c.stack = append(c.stack, f)
	return &Scope{c: c, frame: f}
}

// Close pops the scope. Closing twice, or closing a scope that is not the
// innermost open one, is a caller-contract violation.
func (s *Scope) Close() {
	if s.closed {
		panic(&errors.ContractError{Op: "Scope.Close", Detail: "scope closed twice"})
	}
	c := s.c
	if len(c.stack) == 0 || c.stack[len(c.stack)-1] != s.frame {
		panic(&errors.ContractError{Op: "Scope.Close", Detail: "unbalanced scope close"})
	}
	c.stack = c.stack[:len(c.stack)-1]
	s.closed = true
}

// topFrame returns the innermost open scope, failing the pass if none is
// open. op names the violating operation for the error.
func (c *Composer) topFrame(op string) *frame {
	if len(c.stack) == 0 {
		panic(&errors.ContractError{Op: op, Detail: "no open scope"})
	}
	return c.stack[len(c.stack)-1]
}

// unwindTo pops frames left behind by a body that failed before closing
// scopes it opened, down to and including the given scope.
func (c *Composer) unwindTo(s *Scope) {
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if top == s.frame {
			break
		}
	}
	s.closed = true
}

// Node returns the node currently being composed, or nil outside a scope.
func (c *Composer) Node() *Node {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1].node
}

// Recomposer returns the runtime driving this composition.
func (c *Composer) Recomposer() *Recomposer { return c.rt }

// Emit appends a child with the given type tag, optional key, opaque style
// payload, and body to the current parent's pending child list. Children
// are reconciled against the previous pass after the enclosing body returns.
//
// Keys must be comparable values. Siblings should be either all keyed or all
// unkeyed; mixing is supported (keyed children match first) but discouraged.
func (c *Composer) Emit(tag TypeTag, key any, chain modifier.Chain, body BodyFunc) {
	f := c.topFrame("Composer.Emit")
	f.pending = append(f.pending, childSpec{tag: tag, key: key, chain: chain, body: body})
}

func (c *Composer) emitSpec(sp childSpec) {
	f := c.topFrame("Composer.Emit")
	f.pending = append(f.pending, sp)
}

// OnDispose registers cleanup to run when the node currently being composed
// is destroyed. Cleanups run in reverse registration order.
func (c *Composer) OnDispose(fn func()) {
	f := c.topFrame("Composer.OnDispose")
	f.node.slots.onDispose(fn)
}

// recordRead subscribes the node currently being composed to a state
// source. Reads outside an open scope do not subscribe anything.
func (c *Composer) recordRead(deps *dependencySet) {
	if len(c.stack) == 0 {
		return
	}
	id := c.stack[len(c.stack)-1].node.id
	deps.addNode(id)
	c.rt.registry.recordRead(id, deps)
}

// Remember returns the value stored in the next positional slot of the
// current node, constructing it with init on the node's first pass. The
// value survives recomposition of the node but not the node itself.
//
// A slot re-read with a different type than it was stored with is a
// caller-contract violation and aborts the pass.
func Remember[T any](c *Composer, init func() T) T {
	f := c.topFrame("compose.Remember")
	table := &f.node.slots
	idx := table.cursor
	table.cursor++
	if idx < len(table.entries) {
		v, ok := table.entries[idx].value.(T)
		if !ok {
			var want T
			panic(&errors.ContractError{
				Op: "compose.Remember",
				Detail: fmt.Sprintf("slot %d of node %d holds %T, requested %T",
					idx, f.node.id, table.entries[idx].value, want),
			})
		}
		return v
	}
	v := init()
	table.entries = append(table.entries, slotEntry{value: v})
	return v
}

// StateOf returns a remembered mutable state cell initialized to initial,
// created once per node lifetime.
func StateOf[T comparable](c *Composer, initial T) *MutableState[T] {
	rt := c.rt
	return Remember(c, func() *MutableState[T] {
		return NewMutableState(rt, initial)
	})
}

// Handler stores fn in the next positional slot, marked as an event handler
// so the input subsystem can discover it via Node.Handlers. Unlike Remember,
// the stored value is refreshed on every pass so the handler always closes
// over current state.
func Handler(c *Composer, fn func()) {
	f := c.topFrame("compose.Handler")
	table := &f.node.slots
	idx := table.cursor
	table.cursor++
	if idx < len(table.entries) {
		if !table.entries[idx].handler {
			panic(&errors.ContractError{
				Op:     "compose.Handler",
				Detail: fmt.Sprintf("slot %d of node %d is not a handler slot", idx, f.node.id),
			})
		}
		table.entries[idx].value = fn
		return
	}
	table.entries = append(table.entries, slotEntry{value: fn, handler: true})
}
