package debuginfo

import (
	"fmt"

	"glint/internal/dbgtype"
	"glint/internal/metadata"
)

// GetOrCreateType returns the metadata node describing d, creating it on
// first use. Aliases are unwrapped before the cache lookup, so every
// spelling of a type shares one node. A nil descriptor is the void type
// and maps to no node, which is how subroutine types spell it.
//
// Composite types take the forward-declaration protocol: the cache is
// seeded with a declaration node before the members are built, so a
// self-referential member resolves to the declaration instead of
// recursing, and the declaration is replaced by the completed node once
// all members exist.
func (e *Emitter) GetOrCreateType(d *dbgtype.Descriptor, scope metadata.NodeID) metadata.NodeID {
	e.ensureLive()
	if d == nil {
		return metadata.NoNode
	}
	canon := d.Canonical()
	fp := canon.Fingerprint()
	if id, ok := e.types.lookup(fp); ok {
		return id
	}
	id := e.createType(canon, fp, scope)
	if _, ok := e.types.lookup(fp); !ok {
		e.types.put(fp, id)
	}
	return e.sink.Resolve(id)
}

func (e *Emitter) createType(d *dbgtype.Descriptor, fp dbgtype.Fingerprint, scope metadata.NodeID) metadata.NodeID {
	switch d.Kind {
	case dbgtype.KindScalar:
		lay := e.lay.Of(d)
		return e.sink.CreateBasicType(e.arena.InternString(d.Name),
			lay.SizeBits, lay.AlignBits, d.Encoding.String())

	case dbgtype.KindPointer:
		lay := e.lay.Of(d)
		elem := e.GetOrCreateType(d.Elem, scope)
		return e.sink.CreatePointerType(elem, lay.SizeBits, lay.AlignBits)

	case dbgtype.KindFunction:
		types := make([]metadata.NodeID, 0, len(d.Params)+1)
		types = append(types, e.GetOrCreateType(d.Return, scope))
		for _, p := range d.Params {
			types = append(types, e.GetOrCreateType(p, scope))
		}
		return e.sink.CreateSubroutineType("", types)

	case dbgtype.KindStruct, dbgtype.KindTuple:
		return e.createCompositeType(d, fp, scope)

	case dbgtype.KindEnum:
		return e.createEnumType(d, fp, scope)

	default:
		// Unknown descriptor kind: degrade to an opaque placeholder of
		// the right size instead of dropping the variable that uses it.
		name := d.Name
		if name == "" {
			name = "<unknown>"
		}
		lay := e.lay.Of(d)
		return e.sink.CreateBasicType(e.arena.InternString(name),
			lay.SizeBits, lay.AlignBits, "")
	}
}

func (e *Emitter) createCompositeType(d *dbgtype.Descriptor, fp dbgtype.Fingerprint, scope metadata.NodeID) metadata.NodeID {
	lay := e.lay.Of(d)
	name := e.arena.InternString(e.compositeName(d))
	file := e.getOrCreateFile(d.DeclLoc.Filename)
	line := d.DeclLoc.Line
	identifier := e.arena.InternString(d.MangledName)

	if identifier != "" {
		if _, first := e.typeIDs.Retain(identifier); !first {
			// Already described by an earlier unit (or a loaded cache):
			// a declaration referencing the identifier is enough.
			return e.sink.CreateCompositeType(metadata.KindCompositeType, scope, name,
				file, line, lay.SizeBits, lay.AlignBits, nil, identifier, true)
		}
	}

	fwd := e.sink.CreateCompositeType(metadata.KindCompositeType, scope, name,
		file, line, lay.SizeBits, lay.AlignBits, nil, identifier, true)
	e.types.put(fp, fwd)

	members := make([]metadata.NodeID, 0, len(d.Fields))
	for i, f := range d.Fields {
		ft := e.GetOrCreateType(f.Type, fwd)
		flay := e.lay.Of(f.Type)
		fname := f.Name
		if fname == "" {
			fname = fmt.Sprintf("__%d", i)
		}
		members = append(members, e.sink.CreateMemberType(fwd,
			e.arena.InternString(fname), file, line,
			flay.SizeBits, flay.AlignBits, lay.FieldOffsets[i], ft))
	}

	done := e.sink.CreateCompositeType(metadata.KindCompositeType, scope, name,
		file, line, lay.SizeBits, lay.AlignBits, members, identifier, false)
	e.sink.Replace(fwd, done)
	e.sink.RetainType(done)
	return done
}

func (e *Emitter) createEnumType(d *dbgtype.Descriptor, fp dbgtype.Fingerprint, scope metadata.NodeID) metadata.NodeID {
	lay := e.lay.Of(d)
	name := e.arena.InternString(d.Name)
	file := e.getOrCreateFile(d.DeclLoc.Filename)
	line := d.DeclLoc.Line
	identifier := e.arena.InternString(d.MangledName)

	if identifier != "" {
		if _, first := e.typeIDs.Retain(identifier); !first {
			return e.sink.CreateCompositeType(metadata.KindEnumType, scope, name,
				file, line, lay.SizeBits, lay.AlignBits, nil, identifier, true)
		}
	}

	fwd := e.sink.CreateCompositeType(metadata.KindEnumType, scope, name,
		file, line, lay.SizeBits, lay.AlignBits, nil, identifier, true)
	e.types.put(fp, fwd)

	elems := make([]metadata.NodeID, 0, len(d.Cases))
	for _, c := range d.Cases {
		elems = append(elems, e.sink.CreateEnumerator(e.arena.InternString(c.Name), c.Value))
	}

	done := e.sink.CreateCompositeType(metadata.KindEnumType, scope, name,
		file, line, lay.SizeBits, lay.AlignBits, elems, identifier, false)
	e.sink.Replace(fwd, done)
	e.sink.RetainType(done)
	return done
}

// compositeName spells the display name: structs use their own, anonymous
// tuples get a parenthesized element list.
func (e *Emitter) compositeName(d *dbgtype.Descriptor) string {
	if d.Name != "" || d.Kind != dbgtype.KindTuple {
		return d.Name
	}
	s := "("
	for i, f := range d.Fields {
		if i > 0 {
			s += ", "
		}
		if f.Type != nil {
			s += f.Type.Name
		}
	}
	return s + ")"
}
