package metadata

// Builder is the sink surface the debug emitter drives. All node creation
// funnels through it; returned NodeIDs are indirect references that must be
// resolved through the same builder before structural use.
//
// The shape mirrors the DIBuilder family of debug-info builders: one create
// operation per node kind, replace-all-uses for reconciling forward
// declarations, and a single finalize that closes the graph.
type Builder interface {
	CreateFile(filename, directory string) NodeID
	CreateCompileUnit(file NodeID, producer string, optimized bool) NodeID

	CreateSubprogram(scope, file NodeID, name, linkageName string, line int,
		typ NodeID, isLocal, isDefinition bool, scopeLine int, artificial bool) NodeID
	CreateLexicalBlock(scope, file NodeID, line, col int) NodeID
	CreateNamespace(scope NodeID, name string) NodeID

	CreateBasicType(name string, sizeBits, alignBits uint64, encoding string) NodeID
	CreatePointerType(base NodeID, sizeBits, alignBits uint64) NodeID
	CreateMemberType(scope NodeID, name string, file NodeID, line int,
		sizeBits, alignBits, offsetBits uint64, base NodeID) NodeID
	CreateCompositeType(kind Kind, scope NodeID, name string, file NodeID, line int,
		sizeBits, alignBits uint64, elements []NodeID, identifier string, forwardDecl bool) NodeID
	CreateEnumerator(name string, value int64) NodeID
	CreateSubroutineType(cc string, types []NodeID) NodeID

	CreateLocalVariable(scope NodeID, name string, file NodeID, line int,
		typ NodeID, argNo int, artificial bool) NodeID
	CreateGlobalVariable(scope NodeID, name, linkageName string, file NodeID,
		line int, typ NodeID, isLocal bool) NodeID
	CreateImportedModule(scope, entity, file NodeID, line int) NodeID

	CreateLocation(line, col int, scope NodeID) NodeID
	CreateExpression(ops ...string) NodeID

	// InsertDeclare and InsertValue record the variable intrinsics that
	// attach a variable node to its storage.
	InsertDeclare(storage string, variable, expr, loc NodeID)
	InsertValue(storage string, variable, expr, loc NodeID)

	// RetainType keeps a type node alive on the compile unit even if nothing
	// else references it yet.
	RetainType(id NodeID)

	// Replace redirects every reference to old so it resolves to new.
	Replace(old, new NodeID)
	// Resolve returns the current identity of id.
	Resolve(id NodeID) NodeID

	Finalize() error
}

// Attachment is one recorded dbg.declare / dbg.value intrinsic.
type Attachment struct {
	Intrinsic string // "declare" or "value"
	Storage   string
	Variable  NodeID
	Expr      NodeID
	Loc       NodeID
}

// Graph is the concrete in-process sink. It implements Builder over a Table
// and renders the result as textual metadata once finalized.
type Graph struct {
	table       *Table
	cu          NodeID
	retained    []NodeID
	attachments []Attachment
	finalized   bool
}

var _ Builder = (*Graph)(nil)

// NewGraph creates an empty metadata graph.
func NewGraph() *Graph {
	return &Graph{table: NewTable(256)}
}

// Table exposes the node store for inspection (tests, rendering).
func (g *Graph) Table() *Table { return g.table }

// CompileUnit returns the compile-unit node, if one was created.
func (g *Graph) CompileUnit() NodeID { return g.table.Resolve(g.cu) }

func (g *Graph) CreateFile(filename, directory string) NodeID {
	n := g.table.New(KindFile)
	n.Filename = filename
	n.Directory = directory
	return n.ID
}

func (g *Graph) CreateCompileUnit(file NodeID, producer string, optimized bool) NodeID {
	n := g.table.New(KindCompileUnit)
	n.File = file
	n.Producer = producer
	n.Optimized = optimized
	g.cu = n.ID
	return n.ID
}

func (g *Graph) CreateSubprogram(scope, file NodeID, name, linkageName string, line int,
	typ NodeID, isLocal, isDefinition bool, scopeLine int, artificial bool) NodeID {
	n := g.table.New(KindSubprogram)
	n.Scope = scope
	n.File = file
	n.Name = name
	n.LinkageName = linkageName
	n.Line = line
	n.BaseType = typ
	n.IsLocal = isLocal
	n.IsDefinition = isDefinition
	n.ScopeLine = scopeLine
	n.Artificial = artificial
	return n.ID
}

func (g *Graph) CreateLexicalBlock(scope, file NodeID, line, col int) NodeID {
	n := g.table.New(KindLexicalBlock)
	n.Scope = scope
	n.File = file
	n.Line = line
	n.Col = col
	return n.ID
}

func (g *Graph) CreateNamespace(scope NodeID, name string) NodeID {
	n := g.table.New(KindNamespace)
	n.Scope = scope
	n.Name = name
	return n.ID
}

func (g *Graph) CreateBasicType(name string, sizeBits, alignBits uint64, encoding string) NodeID {
	n := g.table.New(KindBasicType)
	n.Name = name
	n.SizeBits = sizeBits
	n.AlignBits = alignBits
	n.Encoding = encoding
	return n.ID
}

func (g *Graph) CreatePointerType(base NodeID, sizeBits, alignBits uint64) NodeID {
	n := g.table.New(KindPointerType)
	n.BaseType = base
	n.SizeBits = sizeBits
	n.AlignBits = alignBits
	return n.ID
}

func (g *Graph) CreateMemberType(scope NodeID, name string, file NodeID, line int,
	sizeBits, alignBits, offsetBits uint64, base NodeID) NodeID {
	n := g.table.New(KindMemberType)
	n.Scope = scope
	n.Name = name
	n.File = file
	n.Line = line
	n.SizeBits = sizeBits
	n.AlignBits = alignBits
	n.OffsetBits = offsetBits
	n.BaseType = base
	return n.ID
}

func (g *Graph) CreateCompositeType(kind Kind, scope NodeID, name string, file NodeID, line int,
	sizeBits, alignBits uint64, elements []NodeID, identifier string, forwardDecl bool) NodeID {
	if kind != KindCompositeType && kind != KindEnumType {
		panic("metadata: composite create with non-composite kind")
	}
	n := g.table.New(kind)
	n.Scope = scope
	n.Name = name
	n.File = file
	n.Line = line
	n.SizeBits = sizeBits
	n.AlignBits = alignBits
	n.Elements = elements
	n.Identifier = identifier
	n.ForwardDecl = forwardDecl
	return n.ID
}

func (g *Graph) CreateEnumerator(name string, value int64) NodeID {
	n := g.table.New(KindEnumerator)
	n.Name = name
	n.Value = value
	return n.ID
}

func (g *Graph) CreateSubroutineType(cc string, types []NodeID) NodeID {
	n := g.table.New(KindSubroutineType)
	n.CC = cc
	n.Elements = types
	return n.ID
}

func (g *Graph) CreateLocalVariable(scope NodeID, name string, file NodeID, line int,
	typ NodeID, argNo int, artificial bool) NodeID {
	n := g.table.New(KindLocalVariable)
	n.Scope = scope
	n.Name = name
	n.File = file
	n.Line = line
	n.BaseType = typ
	n.ArgNo = argNo
	n.Artificial = artificial
	return n.ID
}

func (g *Graph) CreateGlobalVariable(scope NodeID, name, linkageName string, file NodeID,
	line int, typ NodeID, isLocal bool) NodeID {
	n := g.table.New(KindGlobalVariable)
	n.Scope = scope
	n.Name = name
	n.LinkageName = linkageName
	n.File = file
	n.Line = line
	n.BaseType = typ
	n.IsLocal = isLocal
	n.IsDefinition = true
	return n.ID
}

func (g *Graph) CreateImportedModule(scope, entity, file NodeID, line int) NodeID {
	n := g.table.New(KindImportedModule)
	n.Scope = scope
	n.Entity = entity
	n.File = file
	n.Line = line
	return n.ID
}

func (g *Graph) CreateLocation(line, col int, scope NodeID) NodeID {
	n := g.table.New(KindLocation)
	n.Line = line
	n.Col = col
	n.Scope = scope
	return n.ID
}

func (g *Graph) CreateExpression(ops ...string) NodeID {
	n := g.table.New(KindExpression)
	n.Ops = ops
	return n.ID
}

func (g *Graph) InsertDeclare(storage string, variable, expr, loc NodeID) {
	g.attachments = append(g.attachments, Attachment{
		Intrinsic: "declare", Storage: storage, Variable: variable, Expr: expr, Loc: loc,
	})
}

func (g *Graph) InsertValue(storage string, variable, expr, loc NodeID) {
	g.attachments = append(g.attachments, Attachment{
		Intrinsic: "value", Storage: storage, Variable: variable, Expr: expr, Loc: loc,
	})
}

func (g *Graph) RetainType(id NodeID) {
	g.retained = append(g.retained, id)
}

func (g *Graph) Replace(old, new NodeID) {
	g.table.Replace(old, new)
}

func (g *Graph) Resolve(id NodeID) NodeID {
	return g.table.Resolve(id)
}

// Attachments returns the recorded variable intrinsics.
func (g *Graph) Attachments() []Attachment { return g.attachments }

// Finalize links retained types onto the compile unit and freezes the graph.
// Calling it twice is a driver bug.
func (g *Graph) Finalize() error {
	if g.finalized {
		panic("metadata: finalize called twice")
	}
	g.finalized = true
	if cu := g.table.Node(g.cu); cu != nil {
		seen := make(map[NodeID]struct{}, len(g.retained))
		for _, id := range g.retained {
			id = g.table.Resolve(id)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			cu.Elements = append(cu.Elements, id)
		}
	}
	return nil
}

// Finalized reports whether Finalize has run.
func (g *Graph) Finalized() bool { return g.finalized }
