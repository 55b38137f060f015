package core

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// p2pkhDecoder validates and decodes a P2PKH (`76 a9 <len> <hash> 88 ac`)
// locking script into a base58check address, parameterized by the
// version byte for the target coin family. Grounded byte-for-byte on
// original_source's p2pkh.rs, which validates the OP_DUP/OP_HASH160 and
// OP_EQUALVERIFY/OP_CHECKSIG wrapper rather than just slicing bytes.
type p2pkhDecoder struct {
	version byte
}

func (d p2pkhDecoder) decode(data []byte) (string, error) {
	n := len(data)
	if n < 3 {
		return "", &DecodeError{Message: "p2pkh: length < 3"}
	}
	if data[0] != 0x76 || data[1] != 0xa9 {
		return "", &DecodeError{Message: "p2pkh: invalid header"}
	}
	hashLen := int(data[2])
	expected := 3 + hashLen + 2
	if n != expected {
		return "", &DecodeError{Message: fmt.Sprintf("p2pkh: invalid length (%d != %d)", n, expected)}
	}
	if data[n-2] != 0x88 || data[n-1] != 0xac {
		return "", &DecodeError{Message: "p2pkh: invalid end"}
	}

	pubKeyHash := data[3 : 3+hashLen]
	return base58CheckEncode(d.version, pubKeyHash), nil
}

// base58CheckEncode is version || payload || doubleSHA256(version||payload)[:4],
// base58 (Bitcoin alphabet) encoded. Shared by P2PKH and P2SH decoding.
func base58CheckEncode(version byte, payload []byte) string {
	full := make([]byte, 0, 1+len(payload)+4)
	full = append(full, version)
	full = append(full, payload...)
	full = append(full, doubleSHA256(full)[:4]...)
	return base58.Encode(full)
}

func doubleSHA256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}
