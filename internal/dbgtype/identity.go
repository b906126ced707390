package dbgtype

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Fingerprint is the stable identity of a type across one compilation. It is
// derived from the canonical definition, not the syntactic spelling, so alias
// spellings and repeated structural definitions hash equal.
type Fingerprint uint64

// Fingerprint computes the identity of d. Recursive descriptors terminate:
// a type already on the encoding path is written as a back-reference to its
// position instead of being descended into again.
func (d *Descriptor) Fingerprint() Fingerprint {
	enc := fpEncoder{index: make(map[*Descriptor]uint32, 8)}
	enc.writeType(d.Canonical())
	return Fingerprint(xxh3.Hash(enc.buf))
}

type fpEncoder struct {
	buf   []byte
	index map[*Descriptor]uint32 // descriptor -> DFS position
	next  uint32
}

func (e *fpEncoder) writeByte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *fpEncoder) writeU64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *fpEncoder) writeString(s string) {
	e.writeU64(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *fpEncoder) writeType(d *Descriptor) {
	if d == nil {
		e.writeByte(0xff)
		return
	}
	d = d.Canonical()
	if pos, ok := e.index[d]; ok {
		// Back-reference: positional, so structurally equal graphs encode
		// identically regardless of descriptor addresses.
		e.writeByte(0xfe)
		e.writeU64(uint64(pos))
		return
	}
	e.index[d] = e.next
	e.next++

	e.writeByte(byte(d.Kind))
	e.writeU64(d.SizeBits)
	e.writeU64(d.AlignBits)

	if d.MangledName != "" {
		// A mangled name is a nominal identity on its own.
		e.writeByte(1)
		e.writeString(d.MangledName)
		return
	}
	e.writeByte(0)
	e.writeString(d.Name)

	switch d.Kind {
	case KindScalar:
		e.writeByte(byte(d.Encoding))
	case KindPointer:
		e.writeType(d.Elem)
	case KindStruct, KindTuple:
		e.writeU64(uint64(len(d.Fields)))
		for _, f := range d.Fields {
			e.writeString(f.Name)
			e.writeType(f.Type)
		}
	case KindEnum:
		e.writeU64(uint64(len(d.Cases)))
		for _, c := range d.Cases {
			e.writeString(c.Name)
			e.writeU64(uint64(c.Value))
		}
	case KindFunction:
		e.writeType(d.Return)
		e.writeU64(uint64(len(d.Params)))
		for _, p := range d.Params {
			e.writeType(p)
		}
	}
}
