package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-compose/compose/pkg/compose"
	"github.com/go-compose/compose/pkg/composetest"
)

func TestLaunchedEffect_RunsOncePerKey(t *testing.T) {
	h := composetest.New(t)
	rt := h.Recomposer()
	tick := compose.NewMutableState(rt, 0)
	userID := compose.NewMutableState(rt, "alice")
	var loads []string

	h.SetContent(func(c *compose.Composer) {
		tick.Get(c)
		id := userID.Get(c)
		compose.LaunchedEffect(c, id, func() {
			loads = append(loads, id)
		})
	})
	h.MustPump(t)
	assert.Equal(t, []string{"alice"}, loads)

	// Recomposition with an unchanged key does not re-run the effect.
	tick.Set(1)
	h.MustPump(t)
	assert.Equal(t, []string{"alice"}, loads)

	userID.Set("bob")
	h.MustPump(t)
	assert.Equal(t, []string{"alice", "bob"}, loads)
}

func TestDisposableEffect_CleanupRunsBeforeRerun(t *testing.T) {
	h := composetest.New(t)
	rt := h.Recomposer()
	topic := compose.NewMutableState(rt, "news")
	var events []string

	h.SetContent(func(c *compose.Composer) {
		tp := topic.Get(c)
		compose.DisposableEffect(c, tp, func() func() {
			events = append(events, "subscribe "+tp)
			return func() { events = append(events, "unsubscribe "+tp) }
		})
	})
	h.MustPump(t)

	topic.Set("sports")
	h.MustPump(t)

	assert.Equal(t, []string{
		"subscribe news",
		"unsubscribe news",
		"subscribe sports",
	}, events)
}

func TestDisposableEffect_CleanupRunsOnDestroy(t *testing.T) {
	h := composetest.New(t)
	rt := h.Recomposer()
	show := compose.NewMutableState(rt, true)
	var events []string

	h.SetContent(func(c *compose.Composer) {
		if !show.Get(c) {
			return
		}
		c.Emit("leaf", nil, nil, func(c *compose.Composer) {
			compose.DisposableEffect(c, nil, func() func() {
				events = append(events, "up")
				return func() { events = append(events, "down") }
			})
		})
	})
	h.MustPump(t)

	show.Set(false)
	h.MustPump(t)
	assert.Equal(t, []string{"up", "down"}, events)

	// Destroy runs the cleanup exactly once.
	show.Set(true)
	h.MustPump(t)
	show.Set(false)
	h.MustPump(t)
	assert.Equal(t, []string{"up", "down", "up", "down"}, events)
}

func TestSideEffect_SkippedWhenBodyFails(t *testing.T) {
	installHandler(t)
	h := composetest.New(t)
	rt := h.Recomposer()
	explode := compose.NewMutableState(rt, false)
	effects := 0

	h.SetContent(func(c *compose.Composer) {
		compose.Boundary(c, func(c *compose.Composer, err error) {}, func(c *compose.Composer) {
			compose.SideEffect(c, func() { effects++ })
			if explode.Get(c) {
				panic("after side effect")
			}
		})
	})
	h.MustPump(t)
	require.Equal(t, 1, effects)

	explode.Set(true)
	h.MustPump(t)
	assert.Equal(t, 1, effects, "effects queued by a failed pass never run")
}
