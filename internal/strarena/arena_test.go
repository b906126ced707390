package strarena

import (
	"fmt"
	"testing"
)

func TestInternStableAcrossGrowth(t *testing.T) {
	a := New()
	want := make([]string, 0, 5000)
	got := make([]string, 0, 5000)
	for i := 0; i < 5000; i++ {
		s := fmt.Sprintf("symbol_%d_with_some_padding_to_force_chunk_turnover", i)
		want = append(want, s)
		got = append(got, a.InternString(s))
	}
	// Every earlier view must survive all later allocations.
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("view %d corrupted: got %q want %q", i, got[i], want[i])
		}
	}
	if a.Len() == 0 {
		t.Fatal("arena reported zero interned bytes")
	}
}

func TestInternDoesNotAliasCaller(t *testing.T) {
	a := New()
	b := []byte("mutable")
	s := a.Intern(b)
	b[0] = 'X'
	if s != "mutable" {
		t.Fatalf("interned view aliases caller buffer: %q", s)
	}
}

func TestInternNoDedup(t *testing.T) {
	a := New()
	before := a.Len()
	s1 := a.InternString("dup")
	s2 := a.InternString("dup")
	if s1 != "dup" || s2 != "dup" {
		t.Fatalf("bad views %q %q", s1, s2)
	}
	// Interning the same text twice may allocate twice; it must never shrink.
	if a.Len() != before+6 {
		t.Fatalf("expected 6 bytes interned, got %d", a.Len()-before)
	}
}

func TestInternEmpty(t *testing.T) {
	a := New()
	if s := a.Intern(nil); s != "" {
		t.Fatalf("empty intern = %q", s)
	}
	if a.Len() != 0 {
		t.Fatal("empty intern must not allocate")
	}
}

func TestInternOversized(t *testing.T) {
	a := New()
	big := make([]byte, chunkSize*2)
	for i := range big {
		big[i] = byte('a' + i%26)
	}
	s := a.Intern(big)
	if len(s) != len(big) || s[0] != 'a' {
		t.Fatalf("oversized intern corrupted: len=%d", len(s))
	}
	// A small allocation after an oversized one must still work.
	if got := a.InternString("tail"); got != "tail" {
		t.Fatalf("tail intern = %q", got)
	}
}
