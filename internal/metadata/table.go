package metadata

import (
	"fmt"

	"fortio.org/safecast"
)

// Table stores all allocated nodes in a compact slice-based arena and owns
// the indirection map that redirects replaced nodes. Index 0 is reserved
// for NoNode.
type Table struct {
	data    []Node
	forward map[NodeID]NodeID
}

// NewTable creates a table with an optional capacity hint.
func NewTable(capacity uint32) *Table {
	if capacity == 0 {
		capacity = 64
	}
	return &Table{
		data:    make([]Node, 1, capacity+1),
		forward: make(map[NodeID]NodeID, 8),
	}
}

// New allocates a node of the given kind and returns a pointer into the
// arena for the caller to fill in. The pointer is only valid until the next
// allocation; persist the ID, not the pointer.
func (t *Table) New(kind Kind) *Node {
	value, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("metadata: node arena overflow: %w", err))
	}
	id := NodeID(value)
	t.data = append(t.data, Node{ID: id, Kind: kind})
	return &t.data[id]
}

// Resolve follows replacement links to the current identity of id. Holders
// must resolve before use: a raw ID may name a node that has since been
// replaced.
func (t *Table) Resolve(id NodeID) NodeID {
	if !id.IsValid() {
		return NoNode
	}
	cur := id
	for {
		next, ok := t.forward[cur]
		if !ok {
			break
		}
		cur = next
	}
	if cur != id {
		// Path compression keeps long replacement chains amortised flat.
		t.forward[id] = cur
	}
	return cur
}

// Node returns the node currently designated by id, following replacements,
// or nil for an invalid ID.
func (t *Table) Node(id NodeID) *Node {
	id = t.Resolve(id)
	if !id.IsValid() || int(id) >= len(t.data) {
		return nil
	}
	return &t.data[id]
}

// Replace redirects old to new. Every holder of old observes new on its
// next Resolve. Replacing a node twice or introducing a cycle is a
// programming error.
func (t *Table) Replace(old, new NodeID) {
	if !old.IsValid() || !new.IsValid() || int(old) >= len(t.data) || int(new) >= len(t.data) {
		panic(fmt.Sprintf("metadata: replace with invalid node ids %d -> %d", old, new))
	}
	if old == new {
		panic("metadata: replace node with itself")
	}
	if _, ok := t.forward[old]; ok {
		panic(fmt.Sprintf("metadata: node %d already replaced", old))
	}
	if t.Resolve(new) == old {
		panic("metadata: replacement cycle")
	}
	t.forward[old] = new
}

// Replaced reports whether id has been redirected elsewhere.
func (t *Table) Replaced(id NodeID) bool {
	_, ok := t.forward[id]
	return ok
}

// Len reports the number of allocated nodes excluding the sentinel,
// including replaced ones.
func (t *Table) Len() int { return len(t.data) - 1 }

// CountKind counts live (non-replaced) nodes of the given kind.
func (t *Table) CountKind(kind Kind) int {
	n := 0
	for i := 1; i < len(t.data); i++ {
		if t.data[i].Kind != kind {
			continue
		}
		if t.Replaced(t.data[i].ID) {
			continue
		}
		n++
	}
	return n
}

// Live iterates the non-replaced nodes in allocation order.
func (t *Table) Live(fn func(*Node)) {
	for i := 1; i < len(t.data); i++ {
		if t.Replaced(t.data[i].ID) {
			continue
		}
		fn(&t.data[i])
	}
}
