package compose

import (
	"fmt"

	"github.com/go-compose/compose/pkg/errors"
)

// EditOp identifies one kind of structural edit.
type EditOp int

const (
	// OpCreate inserts a freshly created node at Index.
	OpCreate EditOp = iota + 1
	// OpUpdate refreshes a matched node's payload in place.
	OpUpdate
	// OpMove relocates a surviving node to Index.
	OpMove
	// OpDelete removes a node and its subtree.
	OpDelete
)

func (op EditOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpMove:
		return "move"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Edit is one entry of the structural edit script emitted by reconciling a
// parent's children.
type Edit struct {
	Op    EditOp
	Node  NodeID
	Type  TypeTag
	Index int
}

func (e Edit) String() string {
	if e.Op == OpDelete {
		return fmt.Sprintf("delete %s#%d", e.Type, e.Node)
	}
	return fmt.Sprintf("%s %s#%d @%d", e.Op, e.Type, e.Node, e.Index)
}

// keyedRef identifies a keyed old child for lookup. Keys match only within
// the same type tag.
type keyedRef struct {
	tag TypeTag
	key any
}

// reconcileChildren diffs the parent's previous children against the
// children emitted this pass and applies the result: matched nodes keep
// their identity and get their payload and body refreshed, unmatched
// emissions become fresh nodes (materialized through the bridge), and
// unmatched old children are destroyed recursively.
//
// Matching walks the new list left to right. Keyed entries match by
// (type tag, key); unkeyed entries match the next unconsumed old entry with
// the same type tag at or after the scan position. Move detection compares
// relative order among the surviving set, not absolute index, so insertions
// and removals elsewhere in the list do not produce spurious moves.
func (r *Recomposer) reconcileChildren(parent *Node, specs []childSpec) ([]Edit, error) {
	type oldEntry struct {
		id       NodeID
		tag      TypeTag
		key      any
		consumed bool
	}
	oldEntries := make([]oldEntry, 0, len(parent.children))
	for _, id := range parent.children {
		n := r.tree.Node(id)
		if n == nil {
			continue
		}
		oldEntries = append(oldEntries, oldEntry{id: id, tag: n.typeTag, key: n.key})
	}

	keyed := make(map[keyedRef]int)
	for i, e := range oldEntries {
		if e.key != nil {
			keyed[keyedRef{e.tag, e.key}] = i
		}
	}

	// First walk: match new entries against old.
	matched := make([]int, len(specs))
	scan := 0
	for j, sp := range specs {
		idx := -1
		if sp.key != nil {
			if i, ok := keyed[keyedRef{sp.tag, sp.key}]; ok && !oldEntries[i].consumed {
				idx = i
				delete(keyed, keyedRef{sp.tag, sp.key})
			}
		} else {
			for i := scan; i < len(oldEntries); i++ {
				e := &oldEntries[i]
				if !e.consumed && e.key == nil && e.tag == sp.tag {
					idx = i
					scan = i + 1
					break
				}
			}
		}
		if idx >= 0 {
			oldEntries[idx].consumed = true
		}
		matched[j] = idx
	}

	// Second walk: build the new child list and the edit script.
	var edits []Edit
	newIDs := make([]NodeID, 0, len(specs))
	lastPlaced := -1
	for j, sp := range specs {
		if idx := matched[j]; idx >= 0 {
			n := r.tree.Node(oldEntries[idx].id)
			n.chain = sp.chain
			n.body = sp.body
			n.fallback = sp.fallback
			if idx < lastPlaced {
				edits = append(edits, Edit{Op: OpMove, Node: n.id, Type: n.typeTag, Index: j})
			} else {
				lastPlaced = idx
				edits = append(edits, Edit{Op: OpUpdate, Node: n.id, Type: n.typeTag, Index: j})
			}
			newIDs = append(newIDs, n.id)
			continue
		}
		n := r.tree.allocate(sp.tag, sp.key, sp.chain, sp.body)
		n.parent = parent.id
		n.depth = parent.depth + 1
		n.fallback = sp.fallback
		h, err := r.bridge.Materialize(n)
		if err != nil {
			return nil, &errors.ComposeError{
				Op:   "Bridge.Materialize",
				Kind: errors.KindBridge,
				Err:  err,
			}
		}
		n.handle = h
		n.hasHandle = true
		edits = append(edits, Edit{Op: OpCreate, Node: n.id, Type: n.typeTag, Index: j})
		newIDs = append(newIDs, n.id)
	}

	for _, e := range oldEntries {
		if !e.consumed {
			edits = append(edits, Edit{Op: OpDelete, Node: e.id, Type: e.tag})
			r.destroySubtree(e.id)
		}
	}

	parent.children = newIDs
	return edits, nil
}
