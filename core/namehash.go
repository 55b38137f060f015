package core

import (
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Namehash computes the standard ENS namehash: Namehash("") = 0^32,
// Namehash("label.rest") = keccak256(Namehash(rest) || keccak256(label)).
// Input must already be lowercased; this performs no IDN normalization,
// matching EncodeDNSWire's byte-identical behavior (spec.md §4.1).
func Namehash(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256Hash(node[:], labelHash)
	}
	return node
}
