package unitfile

import (
	"errors"
	"strings"
	"testing"

	"glint/internal/metadata"
	"glint/internal/typeident"
)

const sampleUnit = `
[unit]
file = "main.gl"
dir = "/src/app"
producer = "glintc 0.1"

[[types]]
name = "Node"
kind = "struct"
mangled = "4Node"
line = 7

  [[types.fields]]
  name = "val"
  type = "int64"

  [[types.fields]]
  name = "next"
  type = "*Node"

[[types]]
name = "Color"
kind = "enum"
size = 8
line = 12

  [[types.cases]]
  name = "red"
  value = 0

  [[types.cases]]
  name = "blue"
  value = 1

[[imports]]
path = "core.text"
line = 1

[[functions]]
name = "main"
linkage = "_main"
line = 3
returns = "int64"

  [[functions.args]]
  name = "argc"
  type = "int64"
  line = 3
  col = 10

  [[functions.locals]]
  name = "head"
  type = "*Node"
  line = 5
  col = 3

[[globals]]
name = "version"
linkage = "_version"
type = "int64"
line = 2
internal = true
`

func TestParseSampleUnit(t *testing.T) {
	u, err := Parse("sample", sampleUnit)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(u.Types) != 2 || len(u.Functions) != 1 || len(u.Globals) != 1 {
		t.Fatalf("unexpected shape: %d types, %d functions, %d globals",
			len(u.Types), len(u.Functions), len(u.Globals))
	}
	if u.Types[0].Fields[1].Type != "*Node" {
		t.Fatalf("field spelling = %q", u.Types[0].Fields[1].Type)
	}
}

func TestParseRejectsBadUnits(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"no header", `[[types]]
name = "T"
kind = "struct"`, "missing [unit]"},
		{"no file", `[unit]
producer = "x"`, "missing [unit].file"},
		{"bad kind", `[unit]
file = "a.gl"
[[types]]
name = "T"
kind = "union"`, "unknown kind"},
		{"alias without target", `[unit]
file = "a.gl"
[[types]]
name = "T"
kind = "alias"`, "alias without target"},
		{"duplicate type", `[unit]
file = "a.gl"
[[types]]
name = "T"
kind = "struct"
[[types]]
name = "T"
kind = "enum"`, "duplicate type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.name, tc.data)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
			var ue *Error
			if !errors.As(err, &ue) {
				t.Fatalf("validation error has type %T, want *Error", err)
			}
		})
	}
}

func TestResolverSpellings(t *testing.T) {
	u, err := Parse("sample", sampleUnit)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r, err := newResolver(u, 64, "/src/app/main.gl")
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	node, err := r.resolve("Node")
	if err != nil {
		t.Fatalf("resolve Node: %v", err)
	}
	// The recursive field points back at the same descriptor.
	if node.Fields[1].Type.Elem != node {
		t.Fatal("self-referential field did not close the cycle")
	}
	pp, err := r.resolve("**Node")
	if err != nil {
		t.Fatalf("resolve **Node: %v", err)
	}
	if pp.Elem.Elem != node {
		t.Fatal("double pointer did not unwrap to Node")
	}
	if _, err := r.resolve("Missing"); err == nil {
		t.Fatal("unknown spelling must fail")
	}
}

func TestEmitSampleUnit(t *testing.T) {
	u, err := Parse("sample", sampleUnit)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	g, err := Emit(u, EmitOptions{})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	out := g.Render()
	for _, want := range []string{
		`producer: "glintc 0.1"`,
		`!DIFile(filename: "main.gl", directory: "/src/app")`,
		`name: "Node"`,
		`identifier: "4Node"`,
		`tag: DW_TAG_enumeration_type`,
		`!DISubprogram(name: "main"`,
		`!DILocalVariable(name: "argc", arg: 1`,
		`!DILocalVariable(name: "head"`,
		`!DIGlobalVariable(name: "version"`,
		`tag: DW_TAG_imported_module`,
		`#dbg_declare(%argc`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
	if g.Table().CountKind(metadata.KindCompositeType) != 1 {
		t.Fatalf("composite count wrong:\n%s", out)
	}
}

func TestEmitReportsArgumentTypeErrors(t *testing.T) {
	const bad = `
[unit]
file = "a.gl"

[[functions]]
name = "f"

  [[functions.args]]
  name = "x"
  type = "Missing"
`
	u, err := Parse("bad", bad)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Emit(u, EmitOptions{})
	if err == nil || !strings.Contains(err.Error(), `function "f", argument "x"`) {
		t.Fatalf("err = %v, want the argument named", err)
	}
}

func TestEmitSelfContainingStruct(t *testing.T) {
	// A field of type "Node" (not "*Node") inside Node passes validation;
	// emission must degrade the layout, not crash.
	const cyclic = `
[unit]
file = "main.gl"
dir = "/src/app"

[[types]]
name = "Node"
kind = "struct"
line = 3

  [[types.fields]]
  name = "val"
  type = "int64"

  [[types.fields]]
  name = "next"
  type = "Node"
`
	u, err := Parse("cyclic", cyclic)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	g, err := Emit(u, EmitOptions{})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	out := g.Render()
	if !strings.Contains(out, `name: "Node"`) {
		t.Fatalf("render missing the cyclic struct:\n%s", out)
	}
	if g.Table().CountKind(metadata.KindCompositeType) != 1 {
		t.Fatalf("composite count wrong:\n%s", out)
	}
}

func TestEmitSharesTypeIdentifiers(t *testing.T) {
	shared := typeident.NewMap()
	u, err := Parse("sample", sampleUnit)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Emit(u, EmitOptions{TypeIDs: shared}); err != nil {
		t.Fatalf("first emit: %v", err)
	}
	g, err := Emit(u, EmitOptions{TypeIDs: shared})
	if err != nil {
		t.Fatalf("second emit: %v", err)
	}
	// The second unit must reference Node by identifier, not re-describe it.
	if n := g.Table().CountKind(metadata.KindMemberType); n != 0 {
		t.Fatalf("second unit re-described %d members", n)
	}
	if !strings.Contains(g.Render(), "DIFlagFwdDecl") {
		t.Fatal("second unit is missing the declaration-only reference")
	}
}
