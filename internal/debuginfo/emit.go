package debuginfo

import (
	"glint/internal/dbgtype"
	"glint/internal/metadata"
	"glint/internal/source"
)

// EmitFunction records the subprogram for fn and reconciles any placeholder
// registered for it by an earlier scope resolution. scope is the function's
// own scope handle; declContext, when non-empty, is a dotted module path
// the function is declared under instead of its lexical parent.
func (e *Emitter) EmitFunction(scope *Scope, fn *Func, cc CallingConv, sig *Signature, declContext string) metadata.NodeID {
	e.ensureLive()

	loc := fn.Loc
	if !loc.Known() && scope != nil {
		loc = scope.Loc
	}
	file := e.getOrCreateFile(loc.Filename)
	fnType := e.subroutineType(sig, cc)

	var parent metadata.NodeID
	switch {
	case declContext != "":
		parent = e.getOrCreateNamespace(declContext)
	case scope != nil && scope.Parent != nil:
		parent = e.resolveScopeChain(scope.Parent)
	default:
		parent = e.sink.Resolve(e.cu)
	}

	name := e.arena.InternString(fn.Name)
	linkage := e.arena.InternString(fn.LinkageName)
	// Functions with no source attribution are compiler-generated.
	artificial := !loc.Known()

	sp := e.sink.CreateSubprogram(parent, file, name, linkage, loc.Line,
		fnType, fn.Internal, true, loc.Line, artificial)

	key := fn.LinkageName
	if key == "" {
		key = fn.Name
	}
	if old, ok := e.functions[key]; ok {
		if resolved := e.sink.Resolve(old); resolved != sp {
			e.sink.Replace(resolved, sp)
		}
	}
	e.functions[key] = sp
	if scope != nil {
		e.scopes.put(scope, sp)
	}
	return sp
}

// EmitArtificialFunction records a compiler-generated function (thunks,
// accessors, runtime glue) and makes it the current emission context under
// an artificial location.
func (e *Emitter) EmitArtificialFunction(fn *Func, sig *Signature) metadata.NodeID {
	e.ensureLive()
	scope := &Scope{
		Kind:          ScopeFunction,
		FnName:        fn.Name,
		FnLinkageName: fn.LinkageName,
		Loc:           fn.Loc,
	}
	sp := e.EmitFunction(scope, fn, CallConvNormal, sig, "")
	e.SetLocation(scope, nil)
	return sp
}

// subroutineType builds the subroutine type node for sig. The first entry
// is the result (absent means void), the rest are parameters in order.
// Parameter and result descriptors go through the type cache; the
// subroutine node itself is cheap enough to build per function.
func (e *Emitter) subroutineType(sig *Signature, cc CallingConv) metadata.NodeID {
	cu := e.sink.Resolve(e.cu)
	if sig == nil {
		return e.sink.CreateSubroutineType(cc.String(), []metadata.NodeID{metadata.NoNode})
	}
	types := make([]metadata.NodeID, 0, len(sig.Params)+1)
	types = append(types, e.GetOrCreateType(sig.Return, cu))
	for _, p := range sig.Params {
		types = append(types, e.GetOrCreateType(p, cu))
	}
	return e.sink.CreateSubroutineType(cc.String(), types)
}

// EmitImport records an import of the named module on the compile unit,
// building the namespace chain for its path.
func (e *Emitter) EmitImport(decl *ImportDecl) metadata.NodeID {
	e.ensureLive()
	path := ""
	for i, seg := range decl.Path {
		if i > 0 {
			path += "."
		}
		path += seg
	}
	ns := e.getOrCreateNamespace(path)
	file := e.getOrCreateFile(decl.Loc.Filename)
	return e.sink.CreateImportedModule(e.sink.Resolve(e.cu), ns, file, decl.Loc.Line)
}

// EmitVariable declares a local variable or argument in the current
// emission context and attaches it to its storage. tag selects the DWARF
// variable class; argNo is 1-based and only meaningful with TagArgVariable.
func (e *Emitter) EmitVariable(storage *Value, d *dbgtype.Descriptor, name string,
	tag Tag, argNo int, ind IndirectionKind, art ArtificialKind, ik IntrinsicKind) metadata.NodeID {
	e.ensureLive()
	if tag == TagArgVariable && argNo < 1 {
		panic("debuginfo: argument variable without a 1-based argument number")
	}
	if tag == TagAutoVariable {
		argNo = 0
	}

	scopeNode := e.resolveScopeChain(e.lastScope)
	loc := e.lastLoc.Loc
	file := e.getOrCreateFile(loc.Filename)
	ty := e.GetOrCreateType(d, scopeNode)

	v := e.sink.CreateLocalVariable(scopeNode, e.arena.InternString(name),
		file, loc.Line, ty, argNo, bool(art))

	var expr metadata.NodeID
	if ind == IndirectValue {
		expr = e.sink.CreateExpression("DW_OP_deref")
	} else {
		expr = e.sink.CreateExpression()
	}
	locNode := e.curLocNode
	if !locNode.IsValid() {
		locNode = e.sink.CreateLocation(loc.Line, loc.Col, scopeNode)
	}
	if ik == IntrinsicValue {
		e.sink.InsertValue(storage.Name, v, expr, locNode)
	} else {
		e.sink.InsertDeclare(storage.Name, v, expr, locNode)
	}
	return v
}

// EmitStackVariable declares a stack slot, deriving the artificial and
// indirection flags from the originating instruction when one is given.
func (e *Emitter) EmitStackVariable(storage *Value, d *dbgtype.Descriptor, name string,
	origin *Instruction) metadata.NodeID {
	art := RealValue
	ind := DirectValue
	if origin != nil {
		if origin.Artificial {
			art = ArtificialValue
		}
		if origin.Indirect {
			ind = IndirectValue
		}
	}
	return e.EmitVariable(storage, d, name, TagAutoVariable, 0, ind, art, IntrinsicDeclare)
}

// EmitArgVariable declares a formal argument. argNo is 1-based.
func (e *Emitter) EmitArgVariable(storage *Value, d *dbgtype.Descriptor, name string,
	argNo int, ind IndirectionKind) metadata.NodeID {
	return e.EmitVariable(storage, d, name, TagArgVariable, argNo, ind, RealValue, IntrinsicDeclare)
}

// EmitGlobalVariable records a module-level variable on the compile unit.
// loc may be nil for globals with no source attribution.
func (e *Emitter) EmitGlobalVariable(storage *Value, d *dbgtype.Descriptor,
	name, linkageName string, internal bool, loc *source.Location) metadata.NodeID {
	e.ensureLive()
	cu := e.sink.Resolve(e.cu)
	file := e.mainFile
	line := 0
	if loc != nil && loc.Known() {
		file = e.getOrCreateFile(loc.Filename)
		line = loc.Line
	}
	ty := e.GetOrCreateType(d, cu)
	return e.sink.CreateGlobalVariable(cu, e.arena.InternString(name),
		e.arena.InternString(linkageName), file, line, ty, internal)
}

// EmitTypeMetadata marks a runtime type-metadata value so debuggers can
// recover dynamic types. The marker variable is artificial; when no
// context is current, fn's scope is entered first.
func (e *Emitter) EmitTypeMetadata(fn *Func, md *Value, name string) metadata.NodeID {
	e.ensureLive()
	if e.lastScope == nil && fn != nil {
		scope := &Scope{
			Kind:          ScopeFunction,
			FnName:        fn.Name,
			FnLinkageName: fn.LinkageName,
			Loc:           fn.Loc,
		}
		e.SetLocation(scope, nil)
	}
	desc := dbgtype.PointerTo(nil, e.target.PtrSizeBits)
	desc.Name = "$meta"
	var out metadata.NodeID
	e.WithArtificialLocation(func() {
		out = e.EmitVariable(md, desc, "$meta."+name,
			TagAutoVariable, 0, DirectValue, ArtificialValue, IntrinsicDeclare)
	})
	return out
}
