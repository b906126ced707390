package metadata

import (
	"fmt"
	"strings"
)

// Render writes the live graph as LLVM-IR-style textual metadata, one node
// per line in allocation order, followed by the recorded variable
// intrinsics. Replaced nodes are skipped; references always print the
// resolved identity, so the output never mentions a stale node.
func (g *Graph) Render() string {
	var buf strings.Builder
	g.table.Live(func(n *Node) {
		g.renderNode(&buf, n)
	})
	for _, at := range g.attachments {
		fmt.Fprintf(&buf, "  #dbg_%s(%s, !%d, !%d, !%d)\n",
			at.Intrinsic, at.Storage,
			g.table.Resolve(at.Variable), g.table.Resolve(at.Expr), g.table.Resolve(at.Loc))
	}
	return buf.String()
}

func (g *Graph) renderNode(buf *strings.Builder, n *Node) {
	fmt.Fprintf(buf, "!%d = !%s(", n.ID, n.Kind)
	var attrs []string
	add := func(format string, args ...any) {
		attrs = append(attrs, fmt.Sprintf(format, args...))
	}
	ref := func(name string, id NodeID) {
		if id.IsValid() {
			add("%s: !%d", name, g.table.Resolve(id))
		}
	}

	switch n.Kind {
	case KindFile:
		add("filename: %q", n.Filename)
		add("directory: %q", n.Directory)

	case KindCompileUnit:
		ref("file", n.File)
		add("producer: %q", n.Producer)
		add("isOptimized: %t", n.Optimized)
		if len(n.Elements) > 0 {
			add("retainedTypes: %s", g.renderList(n.Elements))
		}

	case KindSubprogram:
		add("name: %q", n.Name)
		if n.LinkageName != "" {
			add("linkageName: %q", n.LinkageName)
		}
		ref("scope", n.Scope)
		ref("file", n.File)
		if n.Line > 0 {
			add("line: %d", n.Line)
		}
		ref("type", n.BaseType)
		if n.ScopeLine > 0 {
			add("scopeLine: %d", n.ScopeLine)
		}
		add("isLocal: %t", n.IsLocal)
		add("isDefinition: %t", n.IsDefinition)
		if n.Artificial {
			add("flags: DIFlagArtificial")
		}
		if n.ForwardDecl {
			add("spFlags: DISPFlagFwdDecl")
		}

	case KindLexicalBlock:
		ref("scope", n.Scope)
		ref("file", n.File)
		add("line: %d", n.Line)
		add("column: %d", n.Col)

	case KindNamespace:
		add("name: %q", n.Name)
		ref("scope", n.Scope)

	case KindBasicType:
		add("name: %q", n.Name)
		add("size: %d", n.SizeBits)
		add("align: %d", n.AlignBits)
		if n.Encoding != "" {
			add("encoding: %s", n.Encoding)
		}

	case KindPointerType:
		add("tag: DW_TAG_pointer_type")
		ref("baseType", n.BaseType)
		add("size: %d", n.SizeBits)
		add("align: %d", n.AlignBits)

	case KindMemberType:
		add("tag: DW_TAG_member")
		add("name: %q", n.Name)
		ref("scope", n.Scope)
		ref("file", n.File)
		if n.Line > 0 {
			add("line: %d", n.Line)
		}
		ref("baseType", n.BaseType)
		add("size: %d", n.SizeBits)
		add("align: %d", n.AlignBits)
		add("offset: %d", n.OffsetBits)

	case KindCompositeType, KindEnumType:
		if n.Kind == KindEnumType {
			add("tag: DW_TAG_enumeration_type")
		} else {
			add("tag: DW_TAG_structure_type")
		}
		add("name: %q", n.Name)
		ref("scope", n.Scope)
		ref("file", n.File)
		if n.Line > 0 {
			add("line: %d", n.Line)
		}
		add("size: %d", n.SizeBits)
		add("align: %d", n.AlignBits)
		if n.ForwardDecl {
			add("flags: DIFlagFwdDecl")
		} else {
			add("elements: %s", g.renderList(n.Elements))
		}
		if n.Identifier != "" {
			add("identifier: %q", n.Identifier)
		}

	case KindEnumerator:
		add("name: %q", n.Name)
		add("value: %d", n.Value)

	case KindSubroutineType:
		if n.CC != "" {
			add("cc: %s", n.CC)
		}
		add("types: %s", g.renderList(n.Elements))

	case KindLocalVariable:
		add("name: %q", n.Name)
		if n.ArgNo > 0 {
			add("arg: %d", n.ArgNo)
		}
		ref("scope", n.Scope)
		ref("file", n.File)
		if n.Line > 0 {
			add("line: %d", n.Line)
		}
		ref("type", n.BaseType)
		if n.Artificial {
			add("flags: DIFlagArtificial")
		}

	case KindGlobalVariable:
		add("name: %q", n.Name)
		if n.LinkageName != "" {
			add("linkageName: %q", n.LinkageName)
		}
		ref("scope", n.Scope)
		ref("file", n.File)
		if n.Line > 0 {
			add("line: %d", n.Line)
		}
		ref("type", n.BaseType)
		add("isLocal: %t", n.IsLocal)
		add("isDefinition: %t", n.IsDefinition)

	case KindImportedModule:
		add("tag: DW_TAG_imported_module")
		ref("scope", n.Scope)
		ref("entity", n.Entity)
		ref("file", n.File)
		if n.Line > 0 {
			add("line: %d", n.Line)
		}

	case KindLocation:
		add("line: %d", n.Line)
		add("column: %d", n.Col)
		ref("scope", n.Scope)

	case KindExpression:
		attrs = append(attrs, n.Ops...)
	}

	buf.WriteString(strings.Join(attrs, ", "))
	buf.WriteString(")\n")
}

func (g *Graph) renderList(ids []NodeID) string {
	if len(ids) == 0 {
		return "!{}"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("!%d", g.table.Resolve(id))
	}
	return "!{" + strings.Join(parts, ", ") + "}"
}
