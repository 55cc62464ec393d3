package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-compose/compose/pkg/compose"
	"github.com/go-compose/compose/pkg/composetest"
	composeerrors "github.com/go-compose/compose/pkg/errors"
)

func TestRemember_PositionalIdentity(t *testing.T) {
	h := composetest.New(t)
	rt := h.Recomposer()
	tick := compose.NewMutableState(rt, 0)
	inits := 0
	var values []int

	h.SetContent(func(c *compose.Composer) {
		c.Emit("holder", nil, nil, func(c *compose.Composer) {
			tick.Get(c)
			first := compose.Remember(c, func() int { inits++; return 11 })
			second := compose.Remember(c, func() int { inits++; return 22 })
			values = append(values, first, second)
		})
	})
	h.MustPump(t)
	tick.Set(1)
	h.MustPump(t)

	assert.Equal(t, 2, inits, "initializers run once per node lifetime")
	assert.Equal(t, []int{11, 22, 11, 22}, values)
}

func TestRemember_TypeMismatchAbortsPass(t *testing.T) {
	installHandler(t)
	h := composetest.New(t)
	rt := h.Recomposer()
	asString := compose.NewMutableState(rt, false)

	h.SetContent(func(c *compose.Composer) {
		c.Emit("holder", nil, nil, func(c *compose.Composer) {
			// Divergent slot types across passes violate the positional
			// contract and must fail loudly, not cast silently.
			if asString.Get(c) {
				compose.Remember(c, func() string { return "oops" })
			} else {
				compose.Remember(c, func() int { return 1 })
			}
		})
	})
	h.MustPump(t)

	asString.Set(true)
	err := h.Pump()
	require.Error(t, err)
	var cerr *composeerrors.ComposeError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, composeerrors.KindContract, cerr.Kind)
}

func TestEmit_OutsideOpenScopePanics(t *testing.T) {
	h := composetest.New(t)
	var leaked *compose.Composer
	h.SetContent(func(c *compose.Composer) {
		leaked = c
	})
	h.MustPump(t)

	require.NotNil(t, leaked)
	assert.PanicsWithError(t,
		"contract violation in Composer.Emit: no open scope",
		func() { leaked.Emit("text", nil, nil, nil) })
}

func TestScope_CloseTwiceFailsCycle(t *testing.T) {
	installHandler(t)
	h := composetest.New(t)
	h.SetContent(func(c *compose.Composer) {
		scope, err := c.OpenScope(c.Node().ID())
		if err != nil {
			panic(err)
		}
		scope.Close()
		scope.Close()
	})
	err := h.Pump()
	require.Error(t, err)
	var cerr *composeerrors.ComposeError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, composeerrors.KindContract, cerr.Kind)
}

func TestOpenScope_UnknownIdentityFails(t *testing.T) {
	h := composetest.New(t)
	var openErr error
	h.SetContent(func(c *compose.Composer) {
		_, openErr = c.OpenScope(compose.NodeID(9999))
	})
	h.MustPump(t)

	var cerr *composeerrors.ContractError
	require.ErrorAs(t, openErr, &cerr)
}

func TestHandler_RefreshedEveryPassAndQueryable(t *testing.T) {
	h := composetest.New(t)
	rt := h.Recomposer()
	tick := compose.NewMutableState(rt, 0)
	clicks := 0

	h.SetContent(func(c *compose.Composer) {
		generation := tick.Get(c)
		c.Emit("button", nil, nil, func(c *compose.Composer) {
			tick.Get(c)
			compose.Handler(c, func() { clicks += generation + 1 })
		})
	})
	h.MustPump(t)

	buttons := h.FindAll("button")
	require.Len(t, buttons, 1)
	handlers := buttons[0].Handlers()
	require.Len(t, handlers, 1)
	handlers[0]()
	assert.Equal(t, 1, clicks)

	tick.Set(4)
	h.MustPump(t)
	handlers = h.FindAll("button")[0].Handlers()
	require.Len(t, handlers, 1)
	handlers[0]()
	assert.Equal(t, 6, clicks, "handler closes over current state after recomposition")
}

func TestAmbient_ProvideAndLookup(t *testing.T) {
	h := composetest.New(t)
	accent := compose.NewAmbient("accent", "blue")
	var inner, outer, fallback string

	h.SetContent(func(c *compose.Composer) {
		fallback = accent.Get(c)
		accent.Provide(c, "red")
		c.Emit("panel", nil, nil, func(c *compose.Composer) {
			outer = accent.Get(c)
			accent.Provide(c, "green")
			c.Emit("leaf", nil, nil, func(c *compose.Composer) {
				inner = accent.Get(c)
			})
		})
	})
	h.MustPump(t)

	assert.Equal(t, "blue", fallback, "default before any provider")
	assert.Equal(t, "red", outer, "nearest ancestor provider wins")
	assert.Equal(t, "green", inner, "nested provider overrides")
}
