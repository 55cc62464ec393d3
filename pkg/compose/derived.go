package compose

// DerivedState is a read-only cell computed from other state. The
// computation runs lazily on the first read after any tracked input's
// version moved, and the input set is re-captured on every recomputation.
// The result is compared by equality before the derived cell bumps its own
// version and notifies its subscribers, so a recomputation that lands on an
// equal value causes no downstream recomposition.
type DerivedState[T any] struct {
	rt      *Recomposer
	calc    func(*Tracker) T
	value   T
	version uint64
	valid   bool
	eq      func(a, b T) bool
	inputs  []trackedInput
	deps    dependencySet
}

type trackedInput struct {
	src  source
	seen uint64
}

// Tracker records which state sources a derived computation reads, and at
// which versions.
type Tracker struct {
	owner  derivedObserver
	inputs []trackedInput
}

func (t *Tracker) record(src source) {
	src.depSet().addDerived(t.owner)
	t.inputs = append(t.inputs, trackedInput{src: src, seen: src.currentVersion()})
}

// Track reads a mutable state cell inside a derived computation, registering
// it as an input.
func Track[T any](t *Tracker, s *MutableState[T]) T {
	t.record(s)
	return s.value
}

// TrackDerived reads another derived state inside a derived computation,
// registering it as an input.
func TrackDerived[T any](t *Tracker, d *DerivedState[T]) T {
	d.refreshIfStale()
	t.record(d)
	return d.value
}

// NewDerivedState creates a derived cell compared with ==.
func NewDerivedState[T comparable](rt *Recomposer, calc func(*Tracker) T) *DerivedState[T] {
	return NewDerivedStateFunc(rt, calc, func(a, b T) bool { return a == b })
}

// NewDerivedStateFunc creates a derived cell with a custom equality
// comparison.
func NewDerivedStateFunc[T any](rt *Recomposer, calc func(*Tracker) T, eq func(a, b T) bool) *DerivedState[T] {
	return &DerivedState[T]{rt: rt, calc: calc, eq: eq}
}

// DerivedStateOf returns a remembered derived cell, created once per node
// lifetime.
func DerivedStateOf[T comparable](c *Composer, calc func(*Tracker) T) *DerivedState[T] {
	rt := c.rt
	return Remember(c, func() *DerivedState[T] {
		return NewDerivedState(rt, calc)
	})
}

// Get returns the derived value, recomputing first if any input changed.
// When called during an active composition it registers the composing node
// as a subscriber; pass nil outside composition.
func (d *DerivedState[T]) Get(c *Composer) T {
	d.refreshIfStale()
	if c != nil {
		c.recordRead(&d.deps)
	}
	return d.value
}

// Peek returns the derived value, recomputing if stale, without subscribing.
func (d *DerivedState[T]) Peek() T {
	d.refreshIfStale()
	return d.value
}

// Version returns the derived cell's version counter. It moves only when a
// recomputation produces a value unequal to the previous one.
func (d *DerivedState[T]) Version() uint64 {
	d.refreshIfStale()
	return d.version
}

func (d *DerivedState[T]) stale() bool {
	if !d.valid {
		return true
	}
	for _, in := range d.inputs {
		if in.src.currentVersion() != in.seen {
			return true
		}
	}
	return false
}

func (d *DerivedState[T]) refreshIfStale() {
	if !d.stale() {
		return
	}
	for _, in := range d.inputs {
		in.src.depSet().removeDerived(d)
	}
	tr := &Tracker{owner: d}
	v := d.calc(tr)
	d.inputs = tr.inputs
	changed := !d.valid || !d.eq(d.value, v)
	d.value = v
	d.valid = true
	if changed {
		d.version++
	}
}

// sourceChanged is called when a tracked input's value changed. If nothing
// observes the derived cell it stays lazy: staleness is detected by version
// polling on the next read. With live observers the refresh happens now so
// subscriber invalidation is exact.
func (d *DerivedState[T]) sourceChanged(rt *Recomposer) {
	if d.deps.empty() {
		return
	}
	before := d.version
	d.refreshIfStale()
	if d.version != before {
		rt.stateChanged(&d.deps)
	}
}

func (d *DerivedState[T]) depSet() *dependencySet { return &d.deps }

func (d *DerivedState[T]) currentVersion() uint64 {
	d.refreshIfStale()
	return d.version
}
