// Package layout computes member offsets for composite debug types.
//
// Fields are laid out in declaration order: each field is placed at the next
// offset satisfying its alignment, and the total size is rounded up to the
// overall alignment. All quantities are in bits, matching the units debug
// metadata records.
package layout

import "glint/internal/dbgtype"

// TypeLayout is the computed layout of one descriptor.
type TypeLayout struct {
	SizeBits  uint64
	AlignBits uint64

	// Composite-only: one offset per field, declaration order.
	FieldOffsets []uint64
}

// Engine computes layouts against a fixed target.
type Engine struct {
	Target Target

	// busy holds the composites currently being laid out, so a struct
	// that contains itself by value terminates instead of recursing.
	busy map[*dbgtype.Descriptor]struct{}
}

// New creates an Engine for the given target.
func New(target Target) *Engine {
	return &Engine{Target: target}
}

// Of computes the layout of d. Descriptors with explicit sizes keep them
// when they are at least as large as the computed packing; pointer-like and
// scalar kinds take their width from the descriptor or, failing that, the
// target.
func (e *Engine) Of(d *dbgtype.Descriptor) TypeLayout {
	if d == nil {
		return TypeLayout{SizeBits: 0, AlignBits: 8}
	}
	d = d.Canonical()

	switch d.Kind {
	case dbgtype.KindScalar:
		return scalarLayout(d.SizeBits, d.AlignBits)

	case dbgtype.KindPointer, dbgtype.KindFunction:
		size := d.SizeBits
		align := d.AlignBits
		if size == 0 {
			size = e.Target.PtrSizeBits
		}
		if align == 0 {
			align = e.Target.PtrAlignBits
		}
		return TypeLayout{SizeBits: size, AlignBits: align}

	case dbgtype.KindStruct, dbgtype.KindTuple:
		if _, ok := e.busy[d]; ok {
			// A by-value cycle has no finite layout; degrade the inner
			// occurrence to its declared size rather than abort.
			return TypeLayout{SizeBits: d.SizeBits, AlignBits: max64(d.AlignBits, 8)}
		}
		if e.busy == nil {
			e.busy = make(map[*dbgtype.Descriptor]struct{}, 4)
		}
		e.busy[d] = struct{}{}
		l := e.fieldsLayout(d)
		delete(e.busy, d)
		return l

	case dbgtype.KindEnum:
		size := d.SizeBits
		if size == 0 {
			size = 32 // default enum base: uint32
		}
		align := d.AlignBits
		if align == 0 {
			align = size
		}
		return TypeLayout{SizeBits: size, AlignBits: align}

	default:
		return scalarLayout(d.SizeBits, d.AlignBits)
	}
}

func (e *Engine) fieldsLayout(d *dbgtype.Descriptor) TypeLayout {
	if len(d.Fields) == 0 {
		return TypeLayout{SizeBits: d.SizeBits, AlignBits: max64(d.AlignBits, 8)}
	}
	offsets := make([]uint64, len(d.Fields))
	var size, align uint64 = 0, 8
	for i, f := range d.Fields {
		fl := e.Of(f.Type)
		fAlign := fl.AlignBits
		if fAlign == 0 {
			fAlign = 8
		}
		size = roundUp(size, fAlign)
		offsets[i] = size
		size += fl.SizeBits
		align = max64(align, fAlign)
	}
	size = roundUp(size, align)
	if d.SizeBits > size {
		size = d.SizeBits
	}
	if d.AlignBits > align {
		align = d.AlignBits
		size = roundUp(size, align)
	}
	return TypeLayout{SizeBits: size, AlignBits: align, FieldOffsets: offsets}
}

func scalarLayout(size, align uint64) TypeLayout {
	if align == 0 {
		align = size
	}
	if align == 0 {
		align = 8
	}
	return TypeLayout{SizeBits: size, AlignBits: align}
}

func roundUp(n, align uint64) uint64 {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
