// Package dbgtype models the semantic type descriptions handed to the debug
// emitter. A Descriptor says what a type looks like for debugging purposes:
// kind, size and alignment in bits, and kind-specific children. Descriptors
// are plain data; deduplication happens in the emitter's type cache keyed by
// Fingerprint.
package dbgtype

import (
	"glint/internal/source"
)

// Kind enumerates the supported descriptor kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindScalar
	KindPointer
	KindStruct
	KindEnum
	KindTuple
	KindFunction
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindScalar:
		return "scalar"
	case KindPointer:
		return "pointer"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindTuple:
		return "tuple"
	case KindFunction:
		return "function"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Encoding is the DWARF base-type encoding of a scalar descriptor.
type Encoding uint8

const (
	EncodingNone Encoding = iota
	EncodingAddress
	EncodingBool
	EncodingFloat
	EncodingSigned
	EncodingUnsigned
)

// String returns the DWARF attribute spelling used by the textual sink.
func (e Encoding) String() string {
	switch e {
	case EncodingAddress:
		return "DW_ATE_address"
	case EncodingBool:
		return "DW_ATE_boolean"
	case EncodingFloat:
		return "DW_ATE_float"
	case EncodingSigned:
		return "DW_ATE_signed"
	case EncodingUnsigned:
		return "DW_ATE_unsigned"
	default:
		return ""
	}
}

// Field is a named member of a struct. Tuple elements use Field with an
// empty name.
type Field struct {
	Name string
	Type *Descriptor
}

// Case is one enumerator of an enum descriptor.
type Case struct {
	Name  string
	Value int64
}

// Descriptor describes one type. Size and alignment are in bits throughout,
// matching what the sink records on its nodes.
type Descriptor struct {
	Kind        Kind
	Name        string
	MangledName string
	SizeBits    uint64
	AlignBits   uint64

	Encoding Encoding      // KindScalar
	Elem     *Descriptor   // KindPointer pointee, KindAlias target
	Fields   []Field       // KindStruct, KindTuple
	Cases    []Case        // KindEnum
	Params   []*Descriptor // KindFunction parameters
	Return   *Descriptor   // KindFunction result, nil for none

	DeclLoc source.Location
}

// Canonical unwraps alias chains to the underlying definition, so two
// spellings of the same type share one identity. Alias cycles terminate at
// the first repeated descriptor.
func (d *Descriptor) Canonical() *Descriptor {
	if d == nil {
		return nil
	}
	seen := make(map[*Descriptor]struct{}, 4)
	for d.Kind == KindAlias && d.Elem != nil {
		if _, ok := seen[d]; ok {
			return d
		}
		seen[d] = struct{}{}
		d = d.Elem
	}
	return d
}

// Composite reports whether the kind takes the forward-declaration protocol
// during metadata construction.
func (k Kind) Composite() bool {
	return k == KindStruct || k == KindEnum || k == KindTuple
}

// Scalar is a convenience constructor for basic types.
func Scalar(name string, sizeBits uint64, enc Encoding) *Descriptor {
	return &Descriptor{
		Kind:      KindScalar,
		Name:      name,
		SizeBits:  sizeBits,
		AlignBits: sizeBits,
		Encoding:  enc,
	}
}

// PointerTo builds a pointer descriptor of the given width.
func PointerTo(elem *Descriptor, sizeBits uint64) *Descriptor {
	name := ""
	if elem != nil {
		name = "*" + elem.Name
	}
	return &Descriptor{
		Kind:      KindPointer,
		Name:      name,
		SizeBits:  sizeBits,
		AlignBits: sizeBits,
		Elem:      elem,
	}
}
