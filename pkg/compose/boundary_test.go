package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-compose/compose/pkg/compose"
	"github.com/go-compose/compose/pkg/composetest"
	composeerrors "github.com/go-compose/compose/pkg/errors"
)

// capturingHandler records reported errors instead of logging them.
type capturingHandler struct {
	errs   []*composeerrors.ComposeError
	bodies []*composeerrors.BodyError
}

func (h *capturingHandler) HandleError(err *composeerrors.ComposeError) {
	h.errs = append(h.errs, err)
}

func (h *capturingHandler) HandleBodyError(err *composeerrors.BodyError) {
	h.bodies = append(h.bodies, err)
}

func installHandler(t *testing.T) *capturingHandler {
	t.Helper()
	handler := &capturingHandler{}
	composeerrors.SetHandler(handler)
	t.Cleanup(func() { composeerrors.SetHandler(nil) })
	return handler
}

type boundaryApp struct {
	explode     *compose.MutableState[bool]
	siblingRuns int
	failures    []error
}

func (a *boundaryApp) body(c *compose.Composer) {
	compose.Boundary(c, func(c *compose.Composer, err error) {
		a.failures = append(a.failures, err)
		c.Emit("fallback", nil, nil, nil)
	}, func(c *compose.Composer) {
		c.Emit("child", nil, nil, func(c *compose.Composer) {
			if a.explode.Get(c) {
				panic("kaboom")
			}
		})
	})
	c.Emit("sibling", nil, nil, func(c *compose.Composer) {
		a.siblingRuns++
	})
}

func TestBoundary_FallbackComposedWithinSameCycle(t *testing.T) {
	handler := installHandler(t)
	h := composetest.New(t)
	app := &boundaryApp{explode: compose.NewMutableState(h.Recomposer(), false)}
	h.SetContent(app.body)
	h.MustPump(t)

	require.Len(t, h.FindAll("child"), 1)
	require.Empty(t, h.FindAll("fallback"))

	app.explode.Set(true)
	h.MustPump(t)

	assert.Empty(t, h.FindAll("child"), "failed subtree is replaced")
	require.Len(t, h.FindAll("fallback"), 1)
	require.Len(t, app.failures, 1)
	var berr *composeerrors.BodyError
	require.ErrorAs(t, app.failures[0], &berr)
	assert.Equal(t, "kaboom", berr.Recovered)

	boundaries := h.FindAll(compose.BoundaryType)
	require.Len(t, boundaries, 1)
	assert.Error(t, boundaries[0].Failed())

	require.Len(t, handler.bodies, 1)
	assert.Equal(t, "child", handler.bodies[0].TypeTag)
}

func TestBoundary_SiblingUnaffectedByFailure(t *testing.T) {
	installHandler(t)
	h := composetest.New(t)
	app := &boundaryApp{explode: compose.NewMutableState(h.Recomposer(), false)}
	h.SetContent(app.body)
	h.MustPump(t)
	require.Equal(t, 1, app.siblingRuns)

	app.explode.Set(true)
	h.MustPump(t)

	// Only the failing subtree recomposed; its sibling was never re-executed.
	assert.Equal(t, 1, app.siblingRuns)
	require.Len(t, h.FindAll("sibling"), 1)
}

func TestBoundary_FailureSticksForNodeLifetime(t *testing.T) {
	installHandler(t)
	h := composetest.New(t)
	app := &boundaryApp{explode: compose.NewMutableState(h.Recomposer(), false)}
	h.SetContent(app.body)
	h.MustPump(t)

	app.explode.Set(true)
	h.MustPump(t)
	require.Len(t, h.FindAll("fallback"), 1)

	// Recomposing the boundary again keeps showing the fallback; the failed
	// body is not retried.
	boundary := h.FindAll(compose.BoundaryType)[0]
	h.Recomposer().Invalidate(boundary.ID())
	h.MustPump(t)

	assert.Len(t, h.FindAll("fallback"), 1)
	assert.Empty(t, h.FindAll("child"))
	assert.Len(t, app.failures, 2, "fallback composed with the same captured failure")
	assert.Same(t, app.failures[0].(*composeerrors.BodyError), app.failures[1].(*composeerrors.BodyError))
}

func TestBoundary_NearestAncestorWins(t *testing.T) {
	installHandler(t)
	h := composetest.New(t)
	rt := h.Recomposer()
	explode := compose.NewMutableState(rt, false)

	h.SetContent(func(c *compose.Composer) {
		compose.Boundary(c, func(c *compose.Composer, err error) {
			c.Emit("outer-fallback", nil, nil, nil)
		}, func(c *compose.Composer) {
			compose.Boundary(c, func(c *compose.Composer, err error) {
				c.Emit("inner-fallback", nil, nil, nil)
			}, func(c *compose.Composer) {
				if explode.Get(c) {
					panic("inner failure")
				}
			})
		})
	})
	h.MustPump(t)

	explode.Set(true)
	h.MustPump(t)

	assert.Len(t, h.FindAll("inner-fallback"), 1)
	assert.Empty(t, h.FindAll("outer-fallback"))
}

func TestBoundary_NoBoundaryFailsCycle(t *testing.T) {
	handler := installHandler(t)
	h := composetest.New(t)
	rt := h.Recomposer()
	explode := compose.NewMutableState(rt, false)

	h.SetContent(func(c *compose.Composer) {
		c.Emit("child", nil, nil, func(c *compose.Composer) {
			if explode.Get(c) {
				panic("unhandled")
			}
		})
	})
	h.MustPump(t)

	explode.Set(true)
	err := h.Pump()
	require.Error(t, err)

	var cerr *composeerrors.ComposeError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, composeerrors.KindBody, cerr.Kind)
	var berr *composeerrors.BodyError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "unhandled", berr.Recovered)
	assert.Len(t, handler.bodies, 1)
}

func TestBoundary_PanicWithErrorValue(t *testing.T) {
	installHandler(t)
	h := composetest.New(t)
	rt := h.Recomposer()
	explode := compose.NewMutableState(rt, false)
	var captured error

	h.SetContent(func(c *compose.Composer) {
		compose.Boundary(c, func(c *compose.Composer, err error) {
			captured = err
		}, func(c *compose.Composer) {
			if explode.Get(c) {
				panic(assert.AnError)
			}
		})
	})
	h.MustPump(t)

	explode.Set(true)
	h.MustPump(t)

	var berr *composeerrors.BodyError
	require.ErrorAs(t, captured, &berr)
	assert.Equal(t, assert.AnError, berr.Recovered)
}
