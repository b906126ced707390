// Package unitfile loads TOML descriptions of compilation units and replays
// them through the debug emitter. A unit file is the serialized view of what
// a frontend would hand the emitter: declared types, functions with their
// arguments and locals, globals, and imports.
package unitfile

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Unit is one parsed unit description.
type Unit struct {
	Unit      Header     `toml:"unit"`
	Types     []TypeDecl `toml:"types"`
	Imports   []Import   `toml:"imports"`
	Functions []Function `toml:"functions"`
	Globals   []Global   `toml:"globals"`
}

// Header carries the unit-wide settings.
type Header struct {
	File      string `toml:"file"`
	Dir       string `toml:"dir"`
	Producer  string `toml:"producer"`
	Optimized bool   `toml:"optimized"`
	Target    string `toml:"target"`
}

// TypeDecl declares a named type. Sizes and alignments are in bits; zero
// means "derive from the members".
type TypeDecl struct {
	Name     string `toml:"name"`
	Kind     string `toml:"kind"` // struct, tuple, enum, alias, scalar
	Mangled  string `toml:"mangled"`
	Size     uint64 `toml:"size"`
	Align    uint64 `toml:"align"`
	Line     int    `toml:"line"`
	Encoding string `toml:"encoding"` // scalars: signed, unsigned, float, bool, address
	Target   string `toml:"target"`   // aliases: the aliased spelling

	Fields []FieldDecl `toml:"fields"`
	Cases  []CaseDecl  `toml:"cases"`
}

// FieldDecl is one struct or tuple member.
type FieldDecl struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

// CaseDecl is one enumerator.
type CaseDecl struct {
	Name  string `toml:"name"`
	Value int64  `toml:"value"`
}

// Import records one imported module path, dotted.
type Import struct {
	Path string `toml:"path"`
	Line int    `toml:"line"`
}

// Function describes one function, its formals, and its stack slots.
type Function struct {
	Name     string `toml:"name"`
	Linkage  string `toml:"linkage"`
	File     string `toml:"file"` // defaults to the unit file
	Line     int    `toml:"line"`
	Internal bool   `toml:"internal"`
	Context  string `toml:"context"` // dotted declaration namespace
	Returns  string `toml:"returns"` // empty means no result

	Args   []Arg   `toml:"args"`
	Locals []Local `toml:"locals"`
}

// Arg is one formal argument, in declaration order.
type Arg struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Storage  string `toml:"storage"`
	Line     int    `toml:"line"`
	Col      int    `toml:"col"`
	Indirect bool   `toml:"indirect"`
}

// Local is one stack variable.
type Local struct {
	Name       string `toml:"name"`
	Type       string `toml:"type"`
	Storage    string `toml:"storage"`
	Line       int    `toml:"line"`
	Col        int    `toml:"col"`
	Indirect   bool   `toml:"indirect"`
	Artificial bool   `toml:"artificial"`
}

// Global is one module-level variable.
type Global struct {
	Name     string `toml:"name"`
	Linkage  string `toml:"linkage"`
	Storage  string `toml:"storage"`
	Type     string `toml:"type"`
	File     string `toml:"file"`
	Line     int    `toml:"line"`
	Internal bool   `toml:"internal"`
}

// Error describes a unit file rejected by validation.
type Error struct {
	Path   string
	Detail string
}

func (e *Error) Error() string {
	return e.Path + ": " + e.Detail
}

func badUnit(path, format string, args ...any) error {
	return &Error{Path: path, Detail: fmt.Sprintf(format, args...)}
}

// Load reads and validates a unit file.
func Load(path string) (*Unit, error) {
	var u Unit
	meta, err := toml.DecodeFile(path, &u)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := validate(path, &u, meta); err != nil {
		return nil, err
	}
	return &u, nil
}

// Parse is Load for in-memory data; used by tests and the stdin path.
func Parse(name, data string) (*Unit, error) {
	var u Unit
	meta, err := toml.Decode(data, &u)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	if err := validate(name, &u, meta); err != nil {
		return nil, err
	}
	return &u, nil
}

func validate(path string, u *Unit, meta toml.MetaData) error {
	if !meta.IsDefined("unit") {
		return badUnit(path, "missing [unit]")
	}
	if strings.TrimSpace(u.Unit.File) == "" {
		return badUnit(path, "missing [unit].file")
	}
	seen := make(map[string]struct{}, len(u.Types))
	for i, t := range u.Types {
		if strings.TrimSpace(t.Name) == "" {
			return badUnit(path, "[[types]] #%d: missing name", i+1)
		}
		if _, ok := seen[t.Name]; ok {
			return badUnit(path, "duplicate type %q", t.Name)
		}
		seen[t.Name] = struct{}{}
		switch t.Kind {
		case "struct", "tuple", "enum", "alias", "scalar":
		case "":
			return badUnit(path, "type %q: missing kind", t.Name)
		default:
			return badUnit(path, "type %q: unknown kind %q", t.Name, t.Kind)
		}
		if t.Kind == "alias" && strings.TrimSpace(t.Target) == "" {
			return badUnit(path, "type %q: alias without target", t.Name)
		}
		if t.Kind == "scalar" && t.Size == 0 {
			return badUnit(path, "type %q: scalar without size", t.Name)
		}
	}
	for i, f := range u.Functions {
		if strings.TrimSpace(f.Name) == "" {
			return badUnit(path, "[[functions]] #%d: missing name", i+1)
		}
		for _, a := range f.Args {
			if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Type) == "" {
				return badUnit(path, "function %q: argument needs name and type", f.Name)
			}
		}
		for _, l := range f.Locals {
			if strings.TrimSpace(l.Name) == "" || strings.TrimSpace(l.Type) == "" {
				return badUnit(path, "function %q: local needs name and type", f.Name)
			}
		}
	}
	for i, g := range u.Globals {
		if strings.TrimSpace(g.Name) == "" || strings.TrimSpace(g.Type) == "" {
			return badUnit(path, "[[globals]] #%d: needs name and type", i+1)
		}
	}
	return nil
}
