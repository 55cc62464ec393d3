package compose

// Ambient is a typed value channel flowing down the tree: an ancestor
// provides a value during its body, and any descendant can read it without
// threading it through parameters. Lookup walks the parent chain and falls
// back to the ambient's default when no ancestor provided a value.
//
// Reading an ambient does not subscribe the reader; a provider that wants
// readers to react to changes should put a state cell in the ambient value.
type Ambient[T any] struct {
	name string
	def  T
}

// NewAmbient creates an ambient with a debug name and a default value.
func NewAmbient[T any](name string, def T) *Ambient[T] {
	return &Ambient[T]{name: name, def: def}
}

// Name returns the ambient's debug name.
func (a *Ambient[T]) Name() string { return a.name }

// Provide attaches value to the node currently being composed, making it
// visible to the node's subtree for this pass.
func (a *Ambient[T]) Provide(c *Composer, value T) {
	f := c.topFrame("Ambient.Provide")
	if f.node.ambients == nil {
		f.node.ambients = make(map[any]any)
	}
	f.node.ambients[a] = value
}

// Get returns the nearest provided value, walking from the current node up
// the parent chain, or the ambient's default if no ancestor provided one.
func (a *Ambient[T]) Get(c *Composer) T {
	f := c.topFrame("Ambient.Get")
	tree := c.rt.tree
	for n := f.node; n != nil; {
		if v, ok := n.ambients[a]; ok {
			return v.(T)
		}
		if n.parent == 0 {
			break
		}
		n = tree.Node(n.parent)
	}
	return a.def
}
