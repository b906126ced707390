package unitfile

import (
	"fmt"
	"strings"

	"glint/internal/dbgtype"
	"glint/internal/source"
)

// builtinScalars are the type spellings every unit gets for free. All are
// immutable after construction, so sharing the descriptors is safe.
var builtinScalars = map[string]*dbgtype.Descriptor{
	"bool":    dbgtype.Scalar("bool", 8, dbgtype.EncodingBool),
	"int8":    dbgtype.Scalar("int8", 8, dbgtype.EncodingSigned),
	"int16":   dbgtype.Scalar("int16", 16, dbgtype.EncodingSigned),
	"int32":   dbgtype.Scalar("int32", 32, dbgtype.EncodingSigned),
	"int64":   dbgtype.Scalar("int64", 64, dbgtype.EncodingSigned),
	"uint8":   dbgtype.Scalar("uint8", 8, dbgtype.EncodingUnsigned),
	"uint16":  dbgtype.Scalar("uint16", 16, dbgtype.EncodingUnsigned),
	"uint32":  dbgtype.Scalar("uint32", 32, dbgtype.EncodingUnsigned),
	"uint64":  dbgtype.Scalar("uint64", 64, dbgtype.EncodingUnsigned),
	"float32": dbgtype.Scalar("float32", 32, dbgtype.EncodingFloat),
	"float64": dbgtype.Scalar("float64", 64, dbgtype.EncodingFloat),
}

// resolver turns type spellings into descriptors. Named types are built in
// two passes so members may reference types declared later in the file, or
// the type itself.
type resolver struct {
	named    map[string]*dbgtype.Descriptor
	ptrBits  uint64
	unitFile string
}

func newResolver(u *Unit, ptrBits uint64, unitFile string) (*resolver, error) {
	r := &resolver{
		named:    make(map[string]*dbgtype.Descriptor, len(u.Types)),
		ptrBits:  ptrBits,
		unitFile: unitFile,
	}
	// Pass one: shells, so spellings resolve regardless of declaration order.
	for i := range u.Types {
		t := &u.Types[i]
		r.named[t.Name] = &dbgtype.Descriptor{
			Kind:        kindOf(t.Kind),
			Name:        t.Name,
			MangledName: t.Mangled,
			SizeBits:    t.Size,
			AlignBits:   t.Align,
			DeclLoc:     source.Location{Line: t.Line, Filename: unitFile},
		}
	}
	// Pass two: members.
	for i := range u.Types {
		t := &u.Types[i]
		d := r.named[t.Name]
		switch t.Kind {
		case "struct", "tuple":
			d.Fields = make([]dbgtype.Field, 0, len(t.Fields))
			for _, f := range t.Fields {
				ft, err := r.resolve(f.Type)
				if err != nil {
					return nil, fmt.Errorf("type %q, field %q: %w", t.Name, f.Name, err)
				}
				d.Fields = append(d.Fields, dbgtype.Field{Name: f.Name, Type: ft})
			}
		case "enum":
			d.Cases = make([]dbgtype.Case, 0, len(t.Cases))
			for _, c := range t.Cases {
				d.Cases = append(d.Cases, dbgtype.Case{Name: c.Name, Value: c.Value})
			}
		case "alias":
			target, err := r.resolve(t.Target)
			if err != nil {
				return nil, fmt.Errorf("type %q: %w", t.Name, err)
			}
			d.Elem = target
		case "scalar":
			d.Encoding = encodingOf(t.Encoding)
			if d.AlignBits == 0 {
				d.AlignBits = d.SizeBits
			}
		}
	}
	return r, nil
}

// resolve maps a spelling to its descriptor. "*T" is a pointer to T, with
// any number of stars; everything else is a builtin or declared name.
func (r *resolver) resolve(spelling string) (*dbgtype.Descriptor, error) {
	s := strings.TrimSpace(spelling)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "*") {
		elem, err := r.resolve(s[1:])
		if err != nil {
			return nil, err
		}
		return dbgtype.PointerTo(elem, r.ptrBits), nil
	}
	if d, ok := builtinScalars[s]; ok {
		return d, nil
	}
	if d, ok := r.named[s]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("unknown type %q", s)
}

func kindOf(kind string) dbgtype.Kind {
	switch kind {
	case "struct":
		return dbgtype.KindStruct
	case "tuple":
		return dbgtype.KindTuple
	case "enum":
		return dbgtype.KindEnum
	case "alias":
		return dbgtype.KindAlias
	case "scalar":
		return dbgtype.KindScalar
	default:
		return dbgtype.KindInvalid
	}
}

func encodingOf(enc string) dbgtype.Encoding {
	switch enc {
	case "signed":
		return dbgtype.EncodingSigned
	case "unsigned":
		return dbgtype.EncodingUnsigned
	case "float":
		return dbgtype.EncodingFloat
	case "bool":
		return dbgtype.EncodingBool
	case "address":
		return dbgtype.EncodingAddress
	default:
		return dbgtype.EncodingNone
	}
}
