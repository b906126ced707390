package source

import "testing"

func TestLocationKnown(t *testing.T) {
	if (Location{}).Known() {
		t.Fatal("zero location must be unknown")
	}
	if !(Location{Line: 3, Filename: "a.gl"}).Known() {
		t.Fatal("located line must be known")
	}
	if !(Location{Filename: "a.gl"}).Known() {
		t.Fatal("artificial location still names a file, must be known")
	}
}

func TestLocationAsArtificial(t *testing.T) {
	l := Location{Line: 12, Col: 7, Filename: "pkg/main.gl"}
	a := l.AsArtificial()
	if a.Line != 0 || a.Col != 0 {
		t.Fatalf("artificial location must be 0:0, got %d:%d", a.Line, a.Col)
	}
	if a.Filename != l.Filename {
		t.Fatalf("artificial location must keep the file, got %q", a.Filename)
	}
	if !a.Artificial() {
		t.Fatal("expected Artificial() to report true")
	}
	if l.Artificial() {
		t.Fatal("real location must not report artificial")
	}
}

func TestFullLocationHalves(t *testing.T) {
	expansion := Location{Line: 4, Col: 1, Filename: "use.gl"}
	body := Location{Line: 90, Col: 2, Filename: "macro.gl"}
	f := FullLocation{LineTable: expansion, Loc: body}
	if f.LineTable == f.Loc {
		t.Fatal("halves must stay independent")
	}
	a := f.AsArtificial()
	if a.LineTable.Line != 0 || a.Loc.Line != 0 {
		t.Fatal("AsArtificial must zero both halves")
	}
	if a.LineTable.Filename != "use.gl" || a.Loc.Filename != "macro.gl" {
		t.Fatal("AsArtificial must keep both files")
	}
}

func TestLocationString(t *testing.T) {
	if got := (Location{}).String(); got != "<unknown>" {
		t.Fatalf("unknown location string = %q", got)
	}
	if got := (Location{Line: 2, Col: 5, Filename: "m.gl"}).String(); got != "m.gl:2:5" {
		t.Fatalf("location string = %q", got)
	}
}
