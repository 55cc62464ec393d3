package compose

// dependencySet records who observes a state source: node identities
// subscribed during composition, and derived states that used the source as
// an input. Both sets are snapshots of the most recent read; a change drains
// them, and observers re-register on their next read.
type dependencySet struct {
	nodes   map[NodeID]struct{}
	derived map[derivedObserver]struct{}
}

// derivedObserver is implemented by derived states so input changes can
// reach them without the scheduler knowing their value type.
type derivedObserver interface {
	sourceChanged(rt *Recomposer)
}

// source is any versioned observable a derived computation can track.
type source interface {
	depSet() *dependencySet
	currentVersion() uint64
}

func (d *dependencySet) addNode(id NodeID) {
	if d.nodes == nil {
		d.nodes = make(map[NodeID]struct{})
	}
	d.nodes[id] = struct{}{}
}

func (d *dependencySet) removeNode(id NodeID) {
	delete(d.nodes, id)
}

func (d *dependencySet) addDerived(o derivedObserver) {
	if d.derived == nil {
		d.derived = make(map[derivedObserver]struct{})
	}
	d.derived[o] = struct{}{}
}

func (d *dependencySet) removeDerived(o derivedObserver) {
	delete(d.derived, o)
}

func (d *dependencySet) empty() bool {
	return len(d.nodes) == 0 && len(d.derived) == 0
}

// MutableState is a versioned, equality-compared mutable value. Reading it
// during composition subscribes the reading node; changing it invalidates
// exactly the current subscribers for the next recomposition pass.
//
// MutableState is not safe for concurrent use. Asynchronous work must hand
// results back through Set from the host's cycle thread; the change is
// observed on the next cycle.
type MutableState[T any] struct {
	rt      *Recomposer
	value   T
	version uint64
	eq      func(a, b T) bool
	deps    dependencySet
}

// NewMutableState creates a state cell compared with ==.
func NewMutableState[T comparable](rt *Recomposer, initial T) *MutableState[T] {
	return NewMutableStateFunc(rt, initial, func(a, b T) bool { return a == b })
}

// NewMutableStateFunc creates a state cell with a custom equality
// comparison, for value types that are not comparable with ==.
func NewMutableStateFunc[T any](rt *Recomposer, initial T, eq func(a, b T) bool) *MutableState[T] {
	return &MutableState[T]{rt: rt, value: initial, eq: eq}
}

// Get returns the current value. When called during an active composition it
// registers the composing node as a subscriber; pass nil outside composition.
func (s *MutableState[T]) Get(c *Composer) T {
	if c != nil {
		c.recordRead(&s.deps)
	}
	return s.value
}

// Peek returns the current value without subscribing.
func (s *MutableState[T]) Peek() T { return s.value }

// Version returns the cell's monotonically increasing version counter.
func (s *MutableState[T]) Version() uint64 { return s.version }

// Set replaces the value if it differs under the cell's equality comparison.
// A changed value bumps the version and enqueues every current subscriber
// for the next recomposition pass, then clears the subscriber set so
// subscriptions reflect only the latest read. Setting an equal value does
// nothing: no version bump, no notification.
func (s *MutableState[T]) Set(v T) {
	if s.eq(s.value, v) {
		return
	}
	s.value = v
	s.version++
	s.rt.stateChanged(&s.deps)
}

// Update applies a transformation to the current value via Set.
func (s *MutableState[T]) Update(f func(T) T) {
	s.Set(f(s.value))
}

// SubscriberCount reports how many nodes currently subscribe to the cell.
func (s *MutableState[T]) SubscriberCount() int { return len(s.deps.nodes) }

func (s *MutableState[T]) depSet() *dependencySet { return &s.deps }
func (s *MutableState[T]) currentVersion() uint64 { return s.version }
