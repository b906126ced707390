package debuginfo

import "glint/internal/metadata"

// cache is one identity-keyed entity cache. Values are stored as raw node
// IDs and resolved through the sink's indirection table on every lookup,
// which is what makes node replacement transparent to cache holders: a
// cached forward declaration reconciled later is observed as the completed
// node, never as a stale handle.
type cache[K comparable] struct {
	sink metadata.Builder
	m    map[K]metadata.NodeID
}

func newCache[K comparable](sink metadata.Builder) *cache[K] {
	return &cache[K]{sink: sink, m: make(map[K]metadata.NodeID, 32)}
}

func (c *cache[K]) lookup(key K) (metadata.NodeID, bool) {
	id, ok := c.m[key]
	if !ok {
		return metadata.NoNode, false
	}
	return c.sink.Resolve(id), true
}

func (c *cache[K]) put(key K, id metadata.NodeID) {
	c.m[key] = id
}

// getOrCreate returns the cached node for key or invokes build to make one.
// build must not re-enter getOrCreate with the same key; the type builder
// guarantees that structurally via its forward-declaration protocol.
func (c *cache[K]) getOrCreate(key K, build func() metadata.NodeID) metadata.NodeID {
	if id, ok := c.lookup(key); ok {
		return id
	}
	id := build()
	// build may have cached the key itself (forward declarations do);
	// keep the first registration in that case.
	if _, ok := c.m[key]; !ok {
		c.m[key] = id
	}
	return c.sink.Resolve(id)
}

func (c *cache[K]) len() int { return len(c.m) }
