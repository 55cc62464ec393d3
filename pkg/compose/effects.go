package compose

import "reflect"

// effectSlot is the remembered backing of one effect call site.
type effectSlot struct {
	armed      bool
	key        any
	cleanup    func()
	registered bool
}

func keysEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// LaunchedEffect runs effect when the node first composes and again whenever
// key changes between passes. The effect runs synchronously during the
// body; work that outlives the pass should hand results back through
// MutableState.Set, which is observed on the next cycle.
func LaunchedEffect(c *Composer, key any, effect func()) {
	sl := Remember(c, func() *effectSlot { return &effectSlot{} })
	if sl.armed && keysEqual(sl.key, key) {
		return
	}
	sl.armed = true
	sl.key = key
	effect()
}

// DisposableEffect is LaunchedEffect with cleanup: effect returns a cleanup
// function that runs when key changes (before the effect re-runs) and when
// the node is destroyed.
func DisposableEffect(c *Composer, key any, effect func() func()) {
	sl := Remember(c, func() *effectSlot { return &effectSlot{} })
	if !sl.registered {
		sl.registered = true
		c.OnDispose(func() {
			if sl.cleanup != nil {
				sl.cleanup()
				sl.cleanup = nil
			}
		})
	}
	if sl.armed && keysEqual(sl.key, key) {
		return
	}
	if sl.cleanup != nil {
		sl.cleanup()
	}
	sl.armed = true
	sl.key = key
	sl.cleanup = effect()
}

// SideEffect queues effect to run after the current node's body has
// completed and its children have been reconciled. Side effects from a
// failed pass never run.
func SideEffect(c *Composer, effect func()) {
	if effect == nil {
		return
	}
	f := c.topFrame("compose.SideEffect")
	f.sideEffects = append(f.sideEffects, effect)
}
