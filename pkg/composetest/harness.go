// Package composetest provides isolated testing for composition code
// without a real presentation layer. The Harness drives the same cycle the
// host would, but against a recording bridge that logs every materialize,
// release, and structural edit for assertion.
package composetest

import (
	"fmt"
	"testing"

	"github.com/go-compose/compose/pkg/compose"
)

// RecordingBridge is a Bridge that hands out integer handles and records
// every call.
type RecordingBridge struct {
	nextHandle   int
	Materialized []compose.NodeID
	Released     []int
}

// Materialize records the node and returns a fresh integer handle.
func (b *RecordingBridge) Materialize(n *compose.Node) (compose.Handle, error) {
	b.nextHandle++
	b.Materialized = append(b.Materialized, n.ID())
	return b.nextHandle, nil
}

// Release records the released handle.
func (b *RecordingBridge) Release(h compose.Handle) {
	if n, ok := h.(int); ok {
		b.Released = append(b.Released, n)
	}
}

// editLog records reconciliation output in call order.
type editLog struct {
	edits []compose.Edit
	lines []string
}

func (l *editLog) ChildrenReconciled(parent compose.NodeID, edits []compose.Edit) {
	l.edits = append(l.edits, edits...)
	for _, e := range edits {
		l.lines = append(l.lines, fmt.Sprintf("parent=%d %s", parent, e))
	}
}

// Harness drives a Recomposer through test cycles.
type Harness struct {
	rt     *compose.Recomposer
	bridge *RecordingBridge
	log    *editLog
}

// New creates a harness with a recording bridge and default options.
func New(t *testing.T) *Harness {
	t.Helper()
	return NewWithOptions(t, compose.Options{})
}

// NewWithOptions creates a harness overriding runtime options. The bridge
// and observer are always the harness's recording instances.
func NewWithOptions(t *testing.T, opts compose.Options) *Harness {
	t.Helper()
	bridge := &RecordingBridge{}
	log := &editLog{}
	opts.Bridge = bridge
	opts.Observer = log
	return &Harness{
		rt:     compose.NewRecomposer(opts),
		bridge: bridge,
		log:    log,
	}
}

// Recomposer returns the runtime under test.
func (h *Harness) Recomposer() *compose.Recomposer { return h.rt }

// Bridge returns the recording bridge.
func (h *Harness) Bridge() *RecordingBridge { return h.bridge }

// Tree returns the composition tree.
func (h *Harness) Tree() *compose.Tree { return h.rt.Tree() }

// SetContent installs the root composable.
func (h *Harness) SetContent(body compose.BodyFunc) {
	h.rt.SetContent(body)
}

// Pump runs one cycle.
func (h *Harness) Pump() error {
	return h.rt.RunCycle()
}

// MustPump runs one cycle and fails the test on error.
func (h *Harness) MustPump(t *testing.T) {
	t.Helper()
	if err := h.rt.RunCycle(); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
}

// Edits returns every edit recorded since the last reset, in emission order.
func (h *Harness) Edits() []compose.Edit {
	return append([]compose.Edit(nil), h.log.edits...)
}

// EditStrings returns the recorded edits formatted one per line, prefixed
// with the reconciled parent.
func (h *Harness) EditStrings() []string {
	return append([]string(nil), h.log.lines...)
}

// ResetEdits clears the recorded edit log, typically between pumps.
func (h *Harness) ResetEdits() {
	h.log.edits = nil
	h.log.lines = nil
}

// EditCounts tallies recorded edits by operation.
func (h *Harness) EditCounts() map[compose.EditOp]int {
	counts := make(map[compose.EditOp]int)
	for _, e := range h.log.edits {
		counts[e.Op]++
	}
	return counts
}
