package compose

// BoundaryType is the type tag of nodes emitted by Boundary.
const BoundaryType TypeTag = "boundary"

// Boundary emits a failure boundary: if composing body (or anything in its
// subtree) fails, the failure stops here instead of propagating to sibling
// subtrees or ancestors. The boundary node's pre-failure children are
// retained for the failing pass; on the following pass the boundary
// composes fallback with the failure in place of its normal content.
//
// A captured failure sticks for the boundary node's lifetime. Re-creating
// the boundary (for example under a new key) starts fresh.
func Boundary(c *Composer, fallback FallbackFunc, body BodyFunc) {
	c.emitSpec(childSpec{
		tag:      BoundaryType,
		body:     body,
		fallback: fallback,
	})
}
