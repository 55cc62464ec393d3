package compose

// Handle is an opaque reference to a presentation-layer object. The bridge
// owns it; the runtime only stores it on the node and hands it back on
// release.
type Handle any

// Bridge materializes composition nodes into presentation-layer objects.
// Materialize is called exactly once per created node, Release exactly once
// per deleted node.
type Bridge interface {
	Materialize(n *Node) (Handle, error)
	Release(h Handle)
}

// EditObserver receives the structural edit script produced for each parent
// whose children were reconciled during a cycle. A renderer can apply the
// edits to its own scene representation.
type EditObserver interface {
	ChildrenReconciled(parent NodeID, edits []Edit)
}

// NopBridge is a Bridge that materializes nothing. Useful for hosts that
// consume edit scripts only.
type NopBridge struct{}

// Materialize returns a nil handle.
func (NopBridge) Materialize(*Node) (Handle, error) { return nil, nil }

// Release does nothing.
func (NopBridge) Release(Handle) {}
