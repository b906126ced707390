// Package debuginfo translates IR locations, lexical scopes, and type
// descriptions into debug metadata. One Emitter serves one compilation
// unit: it owns the entity caches, the name arena, and the current emission
// context, and drives a metadata.Builder sink. Emitters are single-threaded
// by contract; parallel code generation needs one emitter per unit.
package debuginfo

import (
	"glint/internal/dbgtype"
	"glint/internal/source"
)

// ScopeKind classifies a lexical scope handle.
type ScopeKind uint8

const (
	ScopeFunction ScopeKind = iota + 1
	ScopeBlock
)

// Scope is the IR-side handle for a lexical scope. Identity is pointer
// identity: distinct Scope values are distinct scopes even when their
// fields agree, and the scope cache guarantees one metadata node per
// distinct handle.
type Scope struct {
	Kind   ScopeKind
	Parent *Scope
	Loc    source.Location

	// Function scopes only.
	FnName        string
	FnLinkageName string
}

// Value is an opaque IR value handle: a storage slot, a function argument,
// or a runtime metadata value.
type Value struct {
	Name string
}

// Func is the IR-side handle for a function and its formal arguments.
type Func struct {
	Name        string
	LinkageName string
	Loc         source.Location
	Internal    bool
	Args        []*Value
}

// Instruction carries the properties of an originating IR instruction that
// stack-variable emission derives its flags from.
type Instruction struct {
	Loc        source.Location
	Artificial bool
	Indirect   bool
}

// ImportDecl describes one import to record in debug info.
type ImportDecl struct {
	Path []string // module path segments, outermost first
	Loc  source.Location
}

// Signature is the debug view of a function signature.
type Signature struct {
	Params []*dbgtype.Descriptor
	Return *dbgtype.Descriptor // nil means no result
}

// CallingConv selects the DWARF calling convention recorded on a
// subroutine type.
type CallingConv uint8

const (
	CallConvNormal CallingConv = iota
	CallConvProgram
	CallConvNoCall
)

func (c CallingConv) String() string {
	switch c {
	case CallConvProgram:
		return "DW_CC_program"
	case CallConvNoCall:
		return "DW_CC_nocall"
	default:
		return ""
	}
}

// IndirectionKind says whether the debug-visible value sits in the storage
// directly or behind one level of indirection.
type IndirectionKind bool

const (
	DirectValue   IndirectionKind = false
	IndirectValue IndirectionKind = true
)

// ArtificialKind marks compiler-introduced variables.
type ArtificialKind bool

const (
	RealValue       ArtificialKind = false
	ArtificialValue ArtificialKind = true
)

// IntrinsicKind selects the attachment intrinsic for a variable.
type IntrinsicKind bool

const (
	IntrinsicDeclare IntrinsicKind = false
	IntrinsicValue   IntrinsicKind = true
)

// Tag is the DWARF tag a variable declaration is emitted under.
type Tag uint8

const (
	TagAutoVariable Tag = iota + 1
	TagArgVariable
)
