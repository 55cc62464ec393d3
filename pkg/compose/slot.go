package compose

// slotEntry is one positional storage cell of a node. handler marks entries
// holding event handlers so the input subsystem can find them.
type slotEntry struct {
	value   any
	handler bool
}

// slotTable is the per-node positional slot store. Slots are allocated in
// the execution order of slot-requesting calls within one pass of the node's
// body; re-execution must request slots in the same order for identity to be
// preserved. Divergent call order (a slot request inside a branch that only
// sometimes runs) is a caller-contract violation in the source model and is
// not patched here.
type slotTable struct {
	entries   []slotEntry
	cursor    int
	disposers []func()
}

// reset rewinds the cursor at the start of a pass over the owning node.
func (t *slotTable) reset() {
	t.cursor = 0
}

// onDispose registers cleanup to run when the owning node is destroyed.
func (t *slotTable) onDispose(fn func()) {
	if fn == nil {
		return
	}
	t.disposers = append(t.disposers, fn)
}

// dispose runs registered cleanups in reverse registration order and
// releases all slots.
func (t *slotTable) dispose() {
	for i := len(t.disposers) - 1; i >= 0; i-- {
		if t.disposers[i] != nil {
			t.disposers[i]()
		}
	}
	t.disposers = nil
	t.entries = nil
	t.cursor = 0
}
