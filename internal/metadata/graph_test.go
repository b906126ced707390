package metadata

import (
	"strconv"
	"strings"
	"testing"
)

func TestGraphRenderBasicShape(t *testing.T) {
	g := NewGraph()
	file := g.CreateFile("main.gl", "/src/app")
	cu := g.CreateCompileUnit(file, "glint test", false)
	st := g.CreateSubroutineType("", []NodeID{NoNode})
	sp := g.CreateSubprogram(cu, file, "main", "_main", 3, st, false, true, 3, false)
	loc := g.CreateLocation(4, 2, sp)
	_ = loc
	if err := g.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	out := g.Render()
	for _, want := range []string{
		`!DIFile(filename: "main.gl", directory: "/src/app")`,
		`producer: "glint test"`,
		`!DISubprogram(name: "main", linkageName: "_main"`,
		`!DILocation(line: 4, column: 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestGraphRenderResolvesReplacedReferences(t *testing.T) {
	g := NewGraph()
	file := g.CreateFile("t.gl", "/src")
	cu := g.CreateCompileUnit(file, "glint", false)
	fwd := g.CreateCompositeType(KindCompositeType, cu, "Node", file, 1, 128, 64, nil, "", true)
	ptr := g.CreatePointerType(fwd, 64, 64)
	member := g.CreateMemberType(fwd, "next", file, 2, 64, 64, 0, ptr)
	done := g.CreateCompositeType(KindCompositeType, cu, "Node", file, 1, 128, 64, []NodeID{member}, "", false)
	g.Replace(fwd, done)
	if err := g.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	out := g.Render()
	if strings.Contains(out, "DIFlagFwdDecl") {
		t.Fatalf("render still mentions the forward declaration:\n%s", out)
	}
	// The pointer's baseType must print the completed node's ID.
	wantRef := "!" + strconv.Itoa(int(g.Resolve(fwd)))
	ptrLine := lineContaining(out, "DW_TAG_pointer_type")
	if !strings.Contains(ptrLine, "baseType: "+wantRef) {
		t.Fatalf("pointer line %q does not reference completed node %s", ptrLine, wantRef)
	}
}

func TestGraphFinalizeTwicePanics(t *testing.T) {
	g := NewGraph()
	g.CreateCompileUnit(g.CreateFile("a.gl", "/"), "glint", false)
	if err := g.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second finalize")
		}
	}()
	_ = g.Finalize()
}

func TestGraphRetainedTypesDeduplicated(t *testing.T) {
	g := NewGraph()
	file := g.CreateFile("a.gl", "/")
	g.CreateCompileUnit(file, "glint", false)
	ty := g.CreateBasicType("int64", 64, 64, "DW_ATE_signed")
	g.RetainType(ty)
	g.RetainType(ty)
	if err := g.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	cu := g.Table().Node(g.CompileUnit())
	if len(cu.Elements) != 1 {
		t.Fatalf("retained list = %v, want exactly one entry", cu.Elements)
	}
}

func TestGraphAttachments(t *testing.T) {
	g := NewGraph()
	file := g.CreateFile("a.gl", "/")
	cu := g.CreateCompileUnit(file, "glint", false)
	ty := g.CreateBasicType("int64", 64, 64, "DW_ATE_signed")
	v := g.CreateLocalVariable(cu, "x", file, 5, ty, 0, false)
	expr := g.CreateExpression()
	loc := g.CreateLocation(5, 9, cu)
	g.InsertDeclare("%x.addr", v, expr, loc)
	if len(g.Attachments()) != 1 {
		t.Fatalf("attachments = %d, want 1", len(g.Attachments()))
	}
	out := g.Render()
	if !strings.Contains(out, "#dbg_declare(%x.addr") {
		t.Fatalf("render missing declare intrinsic:\n%s", out)
	}
}

func lineContaining(s, sub string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, sub) {
			return line
		}
	}
	return ""
}
