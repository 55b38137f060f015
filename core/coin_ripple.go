package core

import "github.com/mr-tron/base58"

// rippleAlphabet reorders the base58 symbol set relative to Bitcoin's;
// taken verbatim from original_source's ripple.rs comment.
var rippleAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

// rippleDecoder appends a double-SHA256 4-byte checksum and base58-encodes
// with the Ripple alphabet. Grounded on original_source's ripple.rs.
type rippleDecoder struct{}

func (rippleDecoder) decode(data []byte) (string, error) {
	checksum := doubleSHA256(data)[:4]
	full := append(append([]byte{}, data...), checksum...)
	return base58.EncodeAlphabet(full, rippleAlphabet), nil
}
