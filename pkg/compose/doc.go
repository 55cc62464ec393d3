// Package compose implements a retained-mode, reactive composition runtime:
// declarative bodies describe a tree of nodes, the runtime tracks which
// state each node reads, and state changes re-execute only the affected
// nodes, reconciling their subtrees into minimal structural edits for a
// presentation layer.
//
// # Model
//
// A composable is a Go function taking a *Composer and emitting children:
//
//	func Counter(c *compose.Composer) {
//	    count := compose.StateOf(c, 0)
//	    c.Emit("text", nil, modifier.NewChain(modifier.Content(fmt.Sprint(count.Get(c)))), nil)
//	    c.Emit("button", nil, modifier.NewChain(
//	        modifier.Content("+1"),
//	        modifier.Clickable(func() { count.Update(func(n int) int { return n + 1 }) }),
//	    ), nil)
//	}
//
// The host owns the loop: it creates a Recomposer, installs content with
// SetContent, and calls RunCycle at its own rate (typically once per frame).
// Mutating a MutableState between cycles buffers an invalidation; the next
// RunCycle re-executes exactly the subscribed nodes, parents before
// children, and reconciles each re-executed node's children by key and type
// into create/update/move/delete edits.
//
// # Positional slots
//
// Remember, StateOf, and the effect helpers store values in per-node slots
// addressed by call order. A body must request slots in the same order on
// every execution; requesting a slot inside a branch that only sometimes
// runs breaks positional identity and is a caller-contract violation. Wrap
// divergent branches in keyed children (see foundation.If) instead.
//
// # Errors
//
// Caller-contract violations abort the pass. A panic inside a body is
// captured at that node, reported through pkg/errors, and contained by the
// nearest enclosing Boundary; without one it fails the cycle. A cycle that
// keeps invalidating itself past Options.MaxPasses fails with a runaway
// recomposition error.
//
// The runtime is single-threaded and cooperative: no internal goroutines,
// no reentrant cycles. Asynchronous work communicates back only through
// MutableState.Set from the cycle thread.
package compose
