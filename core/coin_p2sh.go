package core

import "fmt"

// p2shDecoder validates and decodes a P2SH (`a9 <len> <hash> 87`) locking
// script, parameterized by the version byte for the target coin family.
// Grounded byte-for-byte on original_source's p2sh.rs.
type p2shDecoder struct {
	version byte
}

func (d p2shDecoder) decode(data []byte) (string, error) {
	n := len(data)
	if n < 2 {
		return "", &DecodeError{Message: "p2sh: length < 2"}
	}
	if data[0] != 0xa9 {
		return "", &DecodeError{Message: "p2sh: invalid header"}
	}
	hashLen := int(data[1])
	expected := 2 + hashLen + 1
	if n != expected {
		return "", &DecodeError{Message: fmt.Sprintf("p2sh: invalid length (%d != %d)", n, expected)}
	}
	if data[n-1] != 0x87 {
		return "", &DecodeError{Message: "p2sh: invalid end"}
	}

	scriptHash := data[2 : 2+hashLen]
	return base58CheckEncode(d.version, scriptHash), nil
}
