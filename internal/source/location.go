package source

import "fmt"

// Location is a point in a source file as recorded in debug info.
// The zero value is the unknown location: no file, no line. Line 0 with a
// known file is the artificial location DWARF reserves for compiler-generated
// code that belongs to a scope but not to any source line.
type Location struct {
	Line     int
	Col      int
	Filename string
}

// Known reports whether the location carries any source attribution.
func (l Location) Known() bool {
	return l.Filename != "" || l.Line > 0
}

// Artificial reports whether the location is the reserved line-0 marker.
func (l Location) Artificial() bool {
	return l.Filename != "" && l.Line == 0
}

// AsArtificial keeps the file but drops the line/column attribution.
func (l Location) AsArtificial() Location {
	return Location{Filename: l.Filename}
}

func (l Location) String() string {
	if !l.Known() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Col)
}

// FullLocation pairs the location used for the line-number table with the
// location used for scope attribution. The two usually coincide; they diverge
// for expanded code, where the line table should point at the expansion site
// while scoping follows the expanded body.
type FullLocation struct {
	LineTable Location
	Loc       Location
}

// At builds a FullLocation whose two halves agree.
func At(loc Location) FullLocation {
	return FullLocation{LineTable: loc, Loc: loc}
}

// Known reports whether either half carries source attribution.
func (f FullLocation) Known() bool {
	return f.LineTable.Known() || f.Loc.Known()
}

// AsArtificial zeroes the line attribution on both halves, keeping the files.
func (f FullLocation) AsArtificial() FullLocation {
	return FullLocation{
		LineTable: f.LineTable.AsArtificial(),
		Loc:       f.Loc.AsArtificial(),
	}
}
