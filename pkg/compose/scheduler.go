package compose

import (
	stderrors "errors"
	"slices"
	"time"

	"github.com/go-compose/compose/pkg/errors"
)

// DefaultMaxPasses bounds how many recomposition passes a single cycle may
// trigger before the runtime reports runaway recomposition.
const DefaultMaxPasses = 10

// RootType is the type tag of the root node created by SetContent.
const RootType TypeTag = "root"

// ErrReentrantCycle is returned when RunCycle is entered while a cycle is
// already in progress.
var ErrReentrantCycle = stderrors.New("cycle already in progress")

// Options configures a Recomposer.
type Options struct {
	// MaxPasses bounds recomposition passes per cycle. Zero means
	// DefaultMaxPasses.
	MaxPasses int
	// Bridge materializes and releases presentation objects. Nil means
	// NopBridge.
	Bridge Bridge
	// Observer, if non-nil, receives the edit script of every reconciled
	// parent.
	Observer EditObserver
}

// Recomposer owns the composition tree and drives the recomposition cycle:
// it collects state invalidations, computes the minimal depth-ordered set of
// nodes to re-execute, re-executes them, and reconciles their subtrees.
//
// The runtime is single-threaded and cooperative. The host calls RunCycle at
// its own rate (typically once per rendered frame); the runtime performs no
// internal threading and must not be entered reentrantly. State mutations
// between cycles are buffered and applied on the next cycle.
type Recomposer struct {
	tree     *Tree
	registry *registry
	bridge   Bridge
	observer EditObserver

	pending   map[NodeID]struct{}
	cycle     uint64
	inCycle   bool
	maxPasses int
}

// NewRecomposer creates a runtime with the given options.
func NewRecomposer(opts Options) *Recomposer {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	if opts.Bridge == nil {
		opts.Bridge = NopBridge{}
	}
	return &Recomposer{
		tree:      newTree(),
		registry:  newRegistry(),
		bridge:    opts.Bridge,
		observer:  opts.Observer,
		pending:   make(map[NodeID]struct{}),
		maxPasses: opts.MaxPasses,
	}
}

// Tree returns the composition tree for read-only traversal between cycles.
func (r *Recomposer) Tree() *Tree { return r.tree }

// Cycle returns the number of completed or started cycles.
func (r *Recomposer) Cycle() uint64 { return r.cycle }

// CycleInProgress reports whether RunCycle is currently executing. Hosts use
// this as a reentrancy guard.
func (r *Recomposer) CycleInProgress() bool { return r.inCycle }

// SetContent installs the root composable. Calling it again replaces the
// root body while keeping the root node's identity and slots. The new
// content takes effect on the next cycle.
func (r *Recomposer) SetContent(body BodyFunc) {
	if root := r.tree.Node(r.tree.root); root != nil {
		root.body = body
		r.pending[root.id] = struct{}{}
		return
	}
	root := r.tree.allocate(RootType, nil, nil, body)
	r.tree.root = root.id
	h, err := r.bridge.Materialize(root)
	if err != nil {
		errors.Report(&errors.ComposeError{
			Op:   "Bridge.Materialize",
			Kind: errors.KindBridge,
			Err:  err,
		})
	} else {
		root.handle = h
		root.hasHandle = true
	}
	r.pending[root.id] = struct{}{}
}

// Invalidate schedules the node for re-execution on the next cycle. Cells
// do this automatically for their subscribers; hosts may use it to force a
// subtree to recompose.
func (r *Recomposer) Invalidate(id NodeID) {
	if r.tree.Node(id) == nil {
		return
	}
	r.pending[id] = struct{}{}
}

// stateChanged drains a source's observer snapshot: subscriber nodes are
// enqueued for recomposition and derived observers are poked. Both sets are
// cleared first so observers re-register on their next read.
func (r *Recomposer) stateChanged(deps *dependencySet) {
	nodes := make([]NodeID, 0, len(deps.nodes))
	for id := range deps.nodes {
		nodes = append(nodes, id)
	}
	observers := make([]derivedObserver, 0, len(deps.derived))
	for o := range deps.derived {
		observers = append(observers, o)
	}
	clear(deps.nodes)
	clear(deps.derived)

	for _, id := range nodes {
		r.pending[id] = struct{}{}
	}
	for _, o := range observers {
		o.sourceChanged(r)
	}
}

// RunCycle is the single entry point for the host scheduler. It drains all
// invalidations buffered since the last cycle and re-executes exactly the
// invalidated nodes (and, as a byproduct, their subtrees) in
// parent-before-child order, reconciling each re-executed node's children
// before visiting any deeper node. Invalidations raised during the pass
// loop back, bounded by MaxPasses.
func (r *Recomposer) RunCycle() error {
	if r.inCycle {
		cerr := &errors.ComposeError{
			Op:   "Recomposer.RunCycle",
			Kind: errors.KindContract,
			Err:  ErrReentrantCycle,
		}
		errors.Report(cerr)
		return cerr
	}
	r.inCycle = true
	defer func() { r.inCycle = false }()
	r.cycle++

	c := &Composer{rt: r}
	passes := 0
	for len(r.pending) > 0 {
		passes++
		if passes > r.maxPasses {
			ids := make([]uint64, 0, len(r.pending))
			for id := range r.pending {
				ids = append(ids, uint64(id))
			}
			slices.Sort(ids)
			cerr := &errors.ComposeError{
				Op:        "Recomposer.RunCycle",
				Kind:      errors.KindRunaway,
				Err:       &errors.RunawayError{Passes: passes - 1, Nodes: ids},
				Timestamp: time.Now(),
			}
			errors.Report(cerr)
			return cerr
		}
		for _, n := range r.drainPending() {
			// A node invalidated this pass may have been destroyed by an
			// earlier reconciliation in the same batch.
			if r.tree.Node(n.id) == nil {
				continue
			}
			if err := r.composeNode(c, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// drainPending empties the pending set and returns the nodes to re-execute:
// deleted nodes are dropped, any node with an invalidated ancestor in the
// same batch is dropped (its subtree re-executes with the ancestor, and
// double execution is a correctness bug), and the survivors come back
// sorted by depth ascending, then identity for determinism.
func (r *Recomposer) drainPending() []*Node {
	batch := r.pending
	r.pending = make(map[NodeID]struct{})

	nodes := make([]*Node, 0, len(batch))
	for id := range batch {
		n := r.tree.Node(id)
		if n == nil {
			continue
		}
		covered := false
		for p := n.parent; p != 0; {
			if _, ok := batch[p]; ok {
				covered = true
				break
			}
			pn := r.tree.Node(p)
			if pn == nil {
				break
			}
			p = pn.parent
		}
		if !covered {
			nodes = append(nodes, n)
		}
	}
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.depth != b.depth {
			return a.depth - b.depth
		}
		return int(a.id) - int(b.id)
	})
	return nodes
}

// composeNode re-executes one node's body and reconciles its children, then
// descends into the resulting child list so the whole subtree reflects the
// new emissions. Side effects queued by the body run after the node's
// reconciliation succeeds.
func (r *Recomposer) composeNode(c *Composer, n *Node) error {
	r.registry.pruneNode(n.id)

	scope := c.openScope(n)
	f := scope.frame
	err := r.runBody(c, n)
	if err != nil {
		c.unwindTo(scope)
		var cerr *errors.ComposeError
		if stderrors.As(err, &cerr) {
			// Contract violations abort the pass.
			errors.Report(cerr)
			return cerr
		}
		var berr *errors.BodyError
		if stderrors.As(err, &berr) {
			return r.handleBodyFailure(berr, n)
		}
		return err
	}
	specs := f.pending
	sideEffects := f.sideEffects
	scope.Close()

	edits, err := r.reconcileChildren(n, specs)
	if err != nil {
		return err
	}
	if r.observer != nil {
		r.observer.ChildrenReconciled(n.id, edits)
	}

	for _, id := range n.children {
		child := r.tree.Node(id)
		if child == nil {
			continue
		}
		if err := r.composeNode(c, child); err != nil {
			return err
		}
	}

	for _, fn := range sideEffects {
		fn()
	}
	return nil
}

// runBody executes the node's body (or its boundary fallback when a captured
// failure is pending) with panic recovery. Contract violations surface as
// ComposeError; any other panic becomes a BodyError scoped to this node.
func (r *Recomposer) runBody(c *Composer, n *Node) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if ce, ok := rec.(*errors.ContractError); ok {
			err = &errors.ComposeError{
				Op:         "Recomposer.composeNode",
				Kind:       errors.KindContract,
				Err:        ce,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
			return
		}
		err = &errors.BodyError{
			TypeTag:    string(n.typeTag),
			Node:       uint64(n.id),
			Recovered:  rec,
			StackTrace: errors.CaptureStack(),
			Timestamp:  time.Now(),
		}
	}()

	if n.failure != nil && n.fallback != nil {
		fallbackErr := n.failure
		n.fallback(c, fallbackErr)
		return nil
	}
	if n.body != nil {
		n.body(c)
	}
	return nil
}

// handleBodyFailure isolates a body failure to its subtree: the failing
// node's pre-failure children are retained, and the nearest enclosing
// failure boundary is scheduled to compose its fallback. Without a boundary
// the failure fails the cycle.
func (r *Recomposer) handleBodyFailure(berr *errors.BodyError, n *Node) error {
	errors.ReportBodyError(berr)
	for b := n; b != nil; b = r.tree.Node(b.parent) {
		if b.fallback != nil {
			b.failure = berr
			r.pending[b.id] = struct{}{}
			return nil
		}
		if b.parent == 0 {
			break
		}
	}
	return &errors.ComposeError{
		Op:        "Recomposer.RunCycle",
		Kind:      errors.KindBody,
		Err:       berr,
		Timestamp: time.Now(),
	}
}

// destroySubtree removes a node and all of its descendants: children first,
// then the node's slot disposers in reverse registration order, its
// presentation handle, its registry subscriptions, and any pending
// invalidation it still had.
func (r *Recomposer) destroySubtree(id NodeID) {
	n := r.tree.Node(id)
	if n == nil {
		return
	}
	for _, cid := range slices.Clone(n.children) {
		r.destroySubtree(cid)
	}
	n.slots.dispose()
	if n.hasHandle {
		r.bridge.Release(n.handle)
		n.handle = nil
		n.hasHandle = false
	}
	r.registry.pruneNode(id)
	delete(r.pending, id)
	r.tree.remove(id)
}
