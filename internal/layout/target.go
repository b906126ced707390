package layout

// Target describes the properties of the code-generation target that matter
// for debug layout: pointer width and alignment, in bits.
type Target struct {
	Triple       string // e.g. "x86_64-linux-gnu"
	PtrSizeBits  uint64
	PtrAlignBits uint64
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:       "x86_64-linux-gnu",
		PtrSizeBits:  64,
		PtrAlignBits: 64,
	}
}

func AArch64LinuxGNU() Target {
	return Target{
		Triple:       "aarch64-linux-gnu",
		PtrSizeBits:  64,
		PtrAlignBits: 64,
	}
}

// ByName resolves a target triple; unknown triples fall back to the x86-64
// layout, which is also the default for an empty name.
func ByName(triple string) Target {
	switch triple {
	case "", "x86_64-linux-gnu":
		return X86_64LinuxGNU()
	case "aarch64-linux-gnu":
		return AArch64LinuxGNU()
	default:
		t := X86_64LinuxGNU()
		t.Triple = triple
		return t
	}
}
