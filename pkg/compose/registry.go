package compose

// registry is the dependency registry: for each node it remembers which
// state sources the node read during its latest execution, so the node can
// be pruned from those sources' subscriber sets when it re-executes or is
// destroyed. Subscriptions are always a snapshot of the most recent read,
// never accumulated across executions.
type registry struct {
	reads map[NodeID]map[*dependencySet]struct{}
}

func newRegistry() *registry {
	return &registry{reads: make(map[NodeID]map[*dependencySet]struct{})}
}

func (r *registry) recordRead(id NodeID, deps *dependencySet) {
	set := r.reads[id]
	if set == nil {
		set = make(map[*dependencySet]struct{})
		r.reads[id] = set
	}
	set[deps] = struct{}{}
}

// pruneNode removes the node from every source it subscribed to and forgets
// its read set. Called before the node re-executes and when it is destroyed.
func (r *registry) pruneNode(id NodeID) {
	for deps := range r.reads[id] {
		deps.removeNode(id)
	}
	delete(r.reads, id)
}
