// Package foundation provides the basic composable vocabulary: layout
// containers, leaves, and control-flow helpers built on the compose runtime.
// Each helper emits one node with a well-known type tag; the presentation
// layer decides what the tags mean visually.
package foundation

import (
	"github.com/go-compose/compose/pkg/compose"
	"github.com/go-compose/compose/pkg/modifier"
)

// Type tags emitted by this package.
const (
	TypeColumn compose.TypeTag = "column"
	TypeRow    compose.TypeTag = "row"
	TypeBox    compose.TypeTag = "box"
	TypeText   compose.TypeTag = "text"
	TypeSpacer compose.TypeTag = "spacer"
	TypeButton compose.TypeTag = "button"
)

// Column emits a vertical container whose children come from body.
func Column(c *compose.Composer, chain modifier.Chain, body compose.BodyFunc) {
	c.Emit(TypeColumn, nil, chain, body)
}

// Row emits a horizontal container whose children come from body.
func Row(c *compose.Composer, chain modifier.Chain, body compose.BodyFunc) {
	c.Emit(TypeRow, nil, chain, body)
}

// Box emits a stacking container whose children come from body.
func Box(c *compose.Composer, chain modifier.Chain, body compose.BodyFunc) {
	c.Emit(TypeBox, nil, chain, body)
}

// KeyedBox is Box with an explicit reconciliation key, for children whose
// identity should survive reordering.
func KeyedBox(c *compose.Composer, key any, chain modifier.Chain, body compose.BodyFunc) {
	c.Emit(TypeBox, key, chain, body)
}

// Text emits a text leaf.
func Text(c *compose.Composer, content string, mods ...modifier.Modifier) {
	chain := modifier.NewChain(mods...).Then(modifier.Content(content))
	c.Emit(TypeText, nil, chain, nil)
}

// KeyedText is Text with an explicit reconciliation key.
func KeyedText(c *compose.Composer, key any, content string, mods ...modifier.Modifier) {
	chain := modifier.NewChain(mods...).Then(modifier.Content(content))
	c.Emit(TypeText, key, chain, nil)
}

// Spacer emits an empty leaf of a fixed size.
func Spacer(c *compose.Composer, width, height float64) {
	c.Emit(TypeSpacer, nil, modifier.NewChain(modifier.Size(width, height)), nil)
}

// Button emits a tappable leaf with a label. The click handler is kept in a
// remembered handler slot so the input subsystem can find it on the node,
// and is refreshed every pass so it closes over current state.
func Button(c *compose.Composer, label string, onClick func(), mods ...modifier.Modifier) {
	chain := modifier.NewChain(mods...).
		Then(modifier.Content(label)).
		Then(modifier.Clickable(onClick))
	c.Emit(TypeButton, nil, chain, func(c *compose.Composer) {
		compose.Handler(c, onClick)
	})
}

// ForEach emits one keyed child per item, so items keep their identity,
// slots, and presentation handles when the list reorders. key must return a
// comparable value unique within the list; content composes the item inside
// its keyed scope.
func ForEach[T any](c *compose.Composer, items []T, key func(T) any, content func(*compose.Composer, T)) {
	for _, item := range items {
		item := item
		c.Emit(TypeBox, key(item), nil, func(c *compose.Composer) {
			content(c, item)
		})
	}
}

// If composes body only when cond is true. The branch lives in its own
// keyed child so toggling the condition never disturbs sibling slot order.
func If(c *compose.Composer, cond bool, body compose.BodyFunc) {
	if cond {
		c.Emit(TypeBox, "if:then", nil, body)
	}
}

// IfElse composes then when cond is true and otherwise when false. The two
// branches are distinct keyed children, so each keeps its own slots and the
// inactive branch's subtree is destroyed.
func IfElse(c *compose.Composer, cond bool, then compose.BodyFunc, otherwise compose.BodyFunc) {
	if cond {
		c.Emit(TypeBox, "if:then", nil, then)
	} else {
		c.Emit(TypeBox, "if:else", nil, otherwise)
	}
}
