// Package metadata is the debug-metadata sink: it allocates metadata nodes,
// links them into a graph, and renders the finished graph as LLVM-IR-style
// textual metadata. Node identity is indirect by design: holders keep
// NodeIDs and resolve them through the owning Table, so a node replaced
// after creation (forward-declaration reconciliation) is observed
// transparently by every holder.
package metadata

// NodeID identifies a node inside a Table. The zero value means "no node".
type NodeID uint32

// NoNode marks the absence of a node.
const NoNode NodeID = 0

// IsValid reports whether the ID refers to a node.
func (id NodeID) IsValid() bool { return id != NoNode }

// Kind enumerates the node kinds the sink produces.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFile
	KindCompileUnit
	KindSubprogram
	KindLexicalBlock
	KindNamespace
	KindBasicType
	KindPointerType
	KindMemberType
	KindCompositeType
	KindEnumType
	KindEnumerator
	KindSubroutineType
	KindLocalVariable
	KindGlobalVariable
	KindImportedModule
	KindLocation
	KindExpression
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "DIFile"
	case KindCompileUnit:
		return "DICompileUnit"
	case KindSubprogram:
		return "DISubprogram"
	case KindLexicalBlock:
		return "DILexicalBlock"
	case KindNamespace:
		return "DINamespace"
	case KindBasicType:
		return "DIBasicType"
	case KindPointerType:
		return "DIDerivedType"
	case KindMemberType:
		return "DIDerivedType"
	case KindCompositeType:
		return "DICompositeType"
	case KindEnumType:
		return "DICompositeType"
	case KindEnumerator:
		return "DIEnumerator"
	case KindSubroutineType:
		return "DISubroutineType"
	case KindLocalVariable:
		return "DILocalVariable"
	case KindGlobalVariable:
		return "DIGlobalVariable"
	case KindImportedModule:
		return "DIImportedEntity"
	case KindLocation:
		return "DILocation"
	case KindExpression:
		return "DIExpression"
	default:
		return "invalid"
	}
}

// Node is one metadata entity. A single record covers every kind; unused
// fields stay zero, the same way the textual form omits absent attributes.
type Node struct {
	ID   NodeID
	Kind Kind

	Name        string
	LinkageName string

	Scope NodeID
	File  NodeID
	Line  int
	Col   int

	SizeBits   uint64
	AlignBits  uint64
	OffsetBits uint64

	Encoding string // basic types: DW_ATE_* spelling
	BaseType NodeID // pointer pointee, member type, enum base

	Elements []NodeID // composite members, subroutine types, expression-free lists

	Value     int64 // enumerator value
	ArgNo     int   // parameter variables, 1-based
	ScopeLine int   // subprograms: first line of the body

	Identifier string // retained cross-unit type identifier
	CC         string // subroutine types: DW_CC_* spelling, empty for normal

	// Compile unit only.
	Producer  string
	Optimized bool

	// File only.
	Filename  string
	Directory string

	Entity NodeID // imported module target

	Ops []string // expression opcodes, e.g. DW_OP_deref

	ForwardDecl  bool
	Artificial   bool
	IsLocal      bool
	IsDefinition bool
}
