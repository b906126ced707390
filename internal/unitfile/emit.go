package unitfile

import (
	"fmt"
	"path/filepath"
	"strings"

	"glint/internal/debuginfo"
	"glint/internal/layout"
	"glint/internal/metadata"
	"glint/internal/source"
	"glint/internal/typeident"
)

// EmitOptions configures one replay run.
type EmitOptions struct {
	// TypeIDs shares retained type identifiers between units; nil keeps
	// them per-unit.
	TypeIDs *typeident.Map
	// Producer overrides the unit's recorded producer when non-empty.
	Producer string
}

// Emit replays the unit through a fresh emitter and returns the finalized
// sink. The graph is rendered by the caller; keeping the two apart lets
// tests inspect nodes instead of strings.
func Emit(u *Unit, opts EmitOptions) (*metadata.Graph, error) {
	target := layout.ByName(u.Unit.Target)
	g := metadata.NewGraph()

	producer := u.Unit.Producer
	if opts.Producer != "" {
		producer = opts.Producer
	}
	e := debuginfo.New(target, g, debuginfo.Options{
		Producer:   producer,
		Optimized:  u.Unit.Optimized,
		MainFile:   u.Unit.File,
		WorkingDir: u.Unit.Dir,
		TypeIDs:    opts.TypeIDs,
	})

	res, err := newResolver(u, target.PtrSizeBits, e.MainFilename())
	if err != nil {
		return nil, err
	}

	for i := range u.Imports {
		imp := &u.Imports[i]
		e.EmitImport(&debuginfo.ImportDecl{
			Path: splitDotted(imp.Path),
			Loc:  source.Location{Line: imp.Line, Filename: e.MainFilename()},
		})
	}

	// Declared types are described up front, in declaration order so the
	// output is stable, and so the unit carries them even when no variable
	// uses them yet.
	for i := range u.Types {
		e.GetOrCreateType(res.named[u.Types[i].Name], e.CompileUnit())
	}

	for i := range u.Functions {
		if err := emitFunction(e, res, &u.Functions[i]); err != nil {
			return nil, err
		}
	}

	for i := range u.Globals {
		gv := &u.Globals[i]
		ty, err := res.resolve(gv.Type)
		if err != nil {
			return nil, fmt.Errorf("global %q: %w", gv.Name, err)
		}
		var loc *source.Location
		if gv.Line > 0 {
			loc = &source.Location{Line: gv.Line, Filename: fileOr(gv.File, e.MainFilename())}
		}
		storage := gv.Storage
		if storage == "" {
			storage = "@" + gv.Name
		}
		e.EmitGlobalVariable(&debuginfo.Value{Name: storage}, ty,
			gv.Name, gv.Linkage, gv.Internal, loc)
	}

	if err := e.Finalize(); err != nil {
		return nil, err
	}
	return g, nil
}

func emitFunction(e *debuginfo.Emitter, res *resolver, f *Function) error {
	file := fileOr(f.File, e.MainFilename())
	fnLoc := source.Location{Line: f.Line, Filename: file}

	sig := &debuginfo.Signature{}
	ret, err := res.resolve(f.Returns)
	if err != nil {
		return fmt.Errorf("function %q: %w", f.Name, err)
	}
	sig.Return = ret

	fn := &debuginfo.Func{
		Name:        f.Name,
		LinkageName: f.Linkage,
		Loc:         fnLoc,
		Internal:    f.Internal,
	}
	for _, a := range f.Args {
		ty, err := res.resolve(a.Type)
		if err != nil {
			return fmt.Errorf("function %q, argument %q: %w", f.Name, a.Name, err)
		}
		sig.Params = append(sig.Params, ty)
		storage := a.Storage
		if storage == "" {
			storage = "%" + a.Name
		}
		fn.Args = append(fn.Args, &debuginfo.Value{Name: storage})
	}

	scope := &debuginfo.Scope{
		Kind:          debuginfo.ScopeFunction,
		FnName:        f.Name,
		FnLinkageName: f.Linkage,
		Loc:           fnLoc,
	}
	e.EmitFunction(scope, fn, debuginfo.CallConvNormal, sig, f.Context)

	for i, a := range f.Args {
		ty := sig.Params[i]
		loc := source.Location{Line: lineOr(a.Line, f.Line), Col: a.Col, Filename: file}
		e.SetLocation(scope, &loc)
		ind := debuginfo.DirectValue
		if a.Indirect {
			ind = debuginfo.IndirectValue
		}
		e.EmitArgVariable(fn.Args[i], ty, a.Name, i+1, ind)
	}

	for _, l := range f.Locals {
		ty, err := res.resolve(l.Type)
		if err != nil {
			return fmt.Errorf("function %q, local %q: %w", f.Name, l.Name, err)
		}
		loc := source.Location{Line: lineOr(l.Line, f.Line), Col: l.Col, Filename: file}
		e.SetLocation(scope, &loc)
		storage := l.Storage
		if storage == "" {
			storage = "%" + l.Name
		}
		e.EmitStackVariable(&debuginfo.Value{Name: storage}, ty, l.Name, &debuginfo.Instruction{
			Loc:        loc,
			Artificial: l.Artificial,
			Indirect:   l.Indirect,
		})
	}
	e.ClearLocation()
	return nil
}

func splitDotted(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, ".") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func fileOr(file, fallback string) string {
	if file == "" {
		return fallback
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(filepath.Dir(fallback), file)
}

func lineOr(line, fallback int) int {
	if line > 0 {
		return line
	}
	return fallback
}
