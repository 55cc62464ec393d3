package composetest

import (
	"github.com/go-compose/compose/pkg/compose"
)

// FindAll returns every node with the given type tag, in tree order.
func (h *Harness) FindAll(tag compose.TypeTag) []*compose.Node {
	var out []*compose.Node
	tree := h.rt.Tree()
	tree.Walk(tree.Root(), func(n *compose.Node) bool {
		if n.Type() == tag {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindByKey returns the first node with the given key, or nil.
func (h *Harness) FindByKey(key any) *compose.Node {
	var found *compose.Node
	tree := h.rt.Tree()
	tree.Walk(tree.Root(), func(n *compose.Node) bool {
		if n.Key() == key {
			found = n
			return false
		}
		return true
	})
	return found
}

// Texts returns the content payload of every text node, in tree order.
func (h *Harness) Texts() []string {
	var out []string
	for _, n := range h.FindAll("text") {
		out = append(out, n.Modifiers().Content())
	}
	return out
}
