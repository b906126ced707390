// Package typeident tracks retained type identifiers across compilation
// units. A composite type described once carries a mangled identifier; any
// later unit that retains the same identifier emits a declaration-only
// reference instead of re-describing the members. The map is the one piece
// of emitter state shared between per-unit emitters, so it is
// goroutine-safe; everything else in the emitter is single-threaded by
// contract.
package typeident

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Schema version for the on-disk payload - increment when the format changes.
const schemaVersion uint16 = 1

// Map assigns dense IDs to mangled type identifiers and remembers which
// identifiers were already present when the map was loaded.
type Map struct {
	mu     sync.Mutex
	ids    map[string]uint32
	order  []string
	seeded int // entries present at load time occupy order[:seeded]
}

// NewMap creates an empty identifier map.
func NewMap() *Map {
	return &Map{ids: make(map[string]uint32, 64)}
}

// Retain registers mangled and returns its ID. first is true when this call
// introduced the identifier in this process, i.e. no earlier unit (or
// loaded cache) has described the type yet.
func (m *Map) Retain(mangled string) (id uint32, first bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.ids[mangled]; ok {
		return id, false
	}
	id = uint32(len(m.order))
	m.ids[mangled] = id
	m.order = append(m.order, mangled)
	return id, true
}

// Contains reports whether mangled has been retained.
func (m *Map) Contains(mangled string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[mangled]
	return ok
}

// Len reports the number of retained identifiers.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

type payload struct {
	Schema uint16
	Names  []string
}

// Load reads a map previously written by Save. A missing file yields an
// empty map, so first runs need no setup.
func Load(path string) (*Map, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewMap(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("typeident: read %s: %w", path, err)
	}
	var p payload
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("typeident: decode %s: %w", path, err)
	}
	if p.Schema != schemaVersion {
		// Stale schema: start over rather than misread old layouts.
		return NewMap(), nil
	}
	m := NewMap()
	for _, name := range p.Names {
		m.ids[name] = uint32(len(m.order))
		m.order = append(m.order, name)
	}
	m.seeded = len(m.order)
	return m, nil
}

// Save writes the map atomically (temp file + rename) so a crashed run
// never leaves a truncated payload behind.
func (m *Map) Save(path string) error {
	m.mu.Lock()
	p := payload{Schema: schemaVersion, Names: append([]string(nil), m.order...)}
	m.mu.Unlock()

	raw, err := msgpack.Marshal(&p)
	if err != nil {
		return fmt.Errorf("typeident: encode: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("typeident: mkdir %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "typeident-*")
	if err != nil {
		return fmt.Errorf("typeident: temp file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("typeident: write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("typeident: close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("typeident: rename %s: %w", path, err)
	}
	return nil
}
