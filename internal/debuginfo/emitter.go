package debuginfo

import (
	"path/filepath"
	"strings"

	"glint/internal/dbgtype"
	"glint/internal/layout"
	"glint/internal/metadata"
	"glint/internal/source"
	"glint/internal/strarena"
	"glint/internal/typeident"
)

// Options configures an Emitter for one compilation unit.
type Options struct {
	// Producer is recorded verbatim on the compile unit.
	Producer string
	// Optimized marks the unit as built with optimizations.
	Optimized bool
	// MainFile is the unit's primary source file; relative paths are
	// resolved against WorkingDir.
	MainFile string
	// WorkingDir anchors relative filenames. Defaults to ".".
	WorkingDir string
	// TypeIDs is the cross-unit retained-identifier map. Optional; when
	// nil the emitter keeps a private map and every composite is described
	// in full.
	TypeIDs *typeident.Map
}

// Emitter turns IR handles into debug metadata through a Builder sink.
//
// The emitter is stateful in two ways. The entity caches (scopes, files,
// types, namespaces) guarantee at most one node per distinct entity and
// survive for the whole unit. The emission context (current location and
// scope, plus the explicit save stack) is transient and follows the code
// generator through the function bodies it visits.
type Emitter struct {
	target layout.Target
	sink   metadata.Builder
	lay    *layout.Engine
	arena  *strarena.Arena

	scopes     *cache[*Scope]
	files      *cache[string]
	types      *cache[dbgtype.Fingerprint]
	namespaces *cache[string]

	// functions maps linkage names to subprogram nodes. A scope resolved
	// before its function is emitted registers a declaration-only
	// placeholder here; EmitFunction reconciles it.
	functions map[string]metadata.NodeID

	typeIDs *typeident.Map

	cu           metadata.NodeID
	mainFile     metadata.NodeID
	mainFilename string
	cwd          string

	// Emission context.
	lastLoc    source.FullLocation
	lastScope  *Scope
	curLocNode metadata.NodeID
	locStack   []savedContext

	// Argument-numbering memo, see ArgNo.
	lastFn    *Func
	argCursor int

	finalized bool
}

type savedContext struct {
	loc     source.FullLocation
	scope   *Scope
	locNode metadata.NodeID
}

// New creates an emitter for one compilation unit and records its
// compile-unit and main-file nodes on the sink.
func New(target layout.Target, sink metadata.Builder, opts Options) *Emitter {
	e := &Emitter{
		target:     target,
		sink:       sink,
		lay:        layout.New(target),
		arena:      strarena.New(),
		scopes:     newCache[*Scope](sink),
		files:      newCache[string](sink),
		types:      newCache[dbgtype.Fingerprint](sink),
		namespaces: newCache[string](sink),
		functions:  make(map[string]metadata.NodeID, 16),
		typeIDs:    opts.TypeIDs,
	}
	if e.typeIDs == nil {
		e.typeIDs = typeident.NewMap()
	}
	e.cwd = opts.WorkingDir
	if e.cwd == "" {
		e.cwd = "."
	}
	main := opts.MainFile
	if main == "" {
		main = "<unknown>"
	}
	if filepath.IsAbs(main) {
		e.mainFilename = main
	} else {
		e.mainFilename = filepath.Join(e.cwd, main)
	}
	e.mainFile = e.getOrCreateFile(e.mainFilename)
	e.cu = sink.CreateCompileUnit(e.mainFile, opts.Producer, opts.Optimized)
	return e
}

// MainFilename returns the resolved path of the unit's primary source file.
func (e *Emitter) MainFilename() string { return e.mainFilename }

// Sink returns the builder the emitter drives.
func (e *Emitter) Sink() metadata.Builder { return e.sink }

// CompileUnit returns the unit's compile-unit node.
func (e *Emitter) CompileUnit() metadata.NodeID { return e.sink.Resolve(e.cu) }

// Finalize closes the unit. Any emission after Finalize is a driver bug
// and panics.
func (e *Emitter) Finalize() error {
	e.ensureLive()
	e.finalized = true
	return e.sink.Finalize()
}

func (e *Emitter) ensureLive() {
	if e.finalized {
		panic("debuginfo: emission after Finalize")
	}
}

// getOrCreateFile returns the file node for filename, creating it on first
// use. Empty filenames fall back to the unit's main file.
func (e *Emitter) getOrCreateFile(filename string) metadata.NodeID {
	if filename == "" {
		return e.mainFile
	}
	return e.files.getOrCreate(filename, func() metadata.NodeID {
		dir, base := filepath.Split(filename)
		dir = strings.TrimRight(dir, string(filepath.Separator))
		if dir == "" {
			dir = e.cwd
		}
		return e.sink.CreateFile(e.arena.InternString(base), e.arena.InternString(dir))
	})
}

// resolveScopeChain maps an IR scope handle to its metadata node, creating
// the chain up to the compile unit as needed. A nil scope is the unit
// itself.
func (e *Emitter) resolveScopeChain(s *Scope) metadata.NodeID {
	if s == nil {
		return e.sink.Resolve(e.cu)
	}
	return e.scopes.getOrCreate(s, func() metadata.NodeID {
		parent := e.resolveScopeChain(s.Parent)
		if s.Kind == ScopeFunction {
			return e.subprogramFor(s, parent)
		}
		file := e.getOrCreateFile(s.Loc.Filename)
		return e.sink.CreateLexicalBlock(parent, file, s.Loc.Line, s.Loc.Col)
	})
}

// subprogramFor returns the subprogram node backing a function scope. When
// the scope is reached before EmitFunction ran (imports, nested types), a
// declaration-only placeholder is registered; EmitFunction later replaces
// it with the real definition.
func (e *Emitter) subprogramFor(s *Scope, parent metadata.NodeID) metadata.NodeID {
	key := s.FnLinkageName
	if key == "" {
		key = s.FnName
	}
	if id, ok := e.functions[key]; ok {
		return e.sink.Resolve(id)
	}
	file := e.getOrCreateFile(s.Loc.Filename)
	id := e.sink.CreateSubprogram(parent, file,
		e.arena.InternString(s.FnName), e.arena.InternString(s.FnLinkageName),
		s.Loc.Line, metadata.NoNode, false, false, s.Loc.Line, false)
	e.functions[key] = id
	return id
}

// getOrCreateNamespace maps a dotted module path to a namespace chain
// hanging off the compile unit. Each prefix gets exactly one node.
func (e *Emitter) getOrCreateNamespace(path string) metadata.NodeID {
	parent := e.sink.Resolve(e.cu)
	prefix := ""
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		if prefix == "" {
			prefix = seg
		} else {
			prefix += "." + seg
		}
		p := parent
		name := seg
		parent = e.namespaces.getOrCreate(prefix, func() metadata.NodeID {
			return e.sink.CreateNamespace(p, e.arena.InternString(name))
		})
	}
	return parent
}
