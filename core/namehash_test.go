package core

import (
	"encoding/hex"
	"testing"
)

func TestNamehashEmpty(t *testing.T) {
	got := Namehash("")
	if got != ([32]byte{}) {
		t.Fatalf("Namehash(\"\") = %x, want all-zero", got)
	}
}

func TestNamehashEth(t *testing.T) {
	// Well-known vector: namehash("eth") per the ENS reference implementation.
	got := Namehash("eth")
	want := "93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4b"
	if hex.EncodeToString(got[:]) != want {
		t.Fatalf("Namehash(\"eth\") = %x, want %s", got, want)
	}
}

func TestNamehashIsHierarchical(t *testing.T) {
	parent := Namehash("eth")
	child := Namehash("luc.eth")
	if parent == child {
		t.Fatalf("child namehash must differ from parent")
	}
	// Distinct leaf labels under the same parent must hash distinctly.
	other := Namehash("someoneelse.eth")
	if child == other {
		t.Fatalf("distinct names must hash distinctly")
	}
}
