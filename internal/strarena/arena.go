// Package strarena provides a bump allocator for debug-info name strings.
//
// Metadata nodes reference names without taking ownership, so every string
// handed to the sink must stay valid for the whole compilation. The arena
// copies bytes into append-only chunks and returns views over them; chunks
// are never reallocated or reused, so a returned string can be held for the
// arena's entire lifetime. The arena never deduplicates: callers that need
// identity belong in the entity caches, not here.
package strarena

import "unsafe"

const chunkSize = 1 << 16

// Arena owns the chunk storage. Not safe for concurrent use; each emitter
// owns exactly one arena.
type Arena struct {
	chunks [][]byte
	total  int
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{}
}

// Intern copies b into the arena and returns a stable string view of it.
func (a *Arena) Intern(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	chunk := a.grab(len(b))
	off := len(*chunk)
	*chunk = append(*chunk, b...)
	a.total += len(b)
	return unsafe.String(&(*chunk)[off], len(b))
}

// InternString copies s into the arena and returns a stable view.
func (a *Arena) InternString(s string) string {
	if s == "" {
		return ""
	}
	return a.Intern([]byte(s))
}

// Len reports the total number of interned bytes.
func (a *Arena) Len() int {
	return a.total
}

// grab returns a chunk with capacity for n more bytes. Appending within
// capacity never moves the backing array, which is what keeps previously
// returned views stable.
func (a *Arena) grab(n int) *[]byte {
	if len(a.chunks) > 0 {
		cur := &a.chunks[len(a.chunks)-1]
		if cap(*cur)-len(*cur) >= n {
			return cur
		}
	}
	size := chunkSize
	if n > size {
		size = n
	}
	a.chunks = append(a.chunks, make([]byte, 0, size))
	return &a.chunks[len(a.chunks)-1]
}
