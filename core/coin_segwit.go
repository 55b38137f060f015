package core

import "github.com/btcsuite/btcd/btcutil/bech32"

// segwitDecoder bech32(m)-encodes a SegWit witness program: the first
// byte is the OP_n version byte (OP_0 or OP_1..OP_16), the second byte
// is the push length (skipped, not checked), and the remainder is the
// witness program. Version 0 uses bech32; versions 1-16 use bech32m,
// per BIP-350. Grounded on original_source's segwit.rs.
type segwitDecoder struct {
	hrp string
}

func (d segwitDecoder) decode(data []byte) (string, error) {
	if len(data) < 2 {
		return "", &DecodeError{Message: "segwit: length < 2"}
	}

	var version byte
	switch {
	case data[0] == 0x00:
		version = 0
	case data[0] >= 0x51 && data[0] <= 0x60:
		version = data[0] - 0x50
	default:
		return "", &DecodeError{Message: "segwit: invalid witness version byte"}
	}

	program := data[2:]
	converted, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", &DecodeError{Message: "segwit: failed to convert bits: " + err.Error()}
	}
	withVersion := append([]byte{version}, converted...)

	var encoded string
	if version == 0 {
		encoded, err = bech32.Encode(d.hrp, withVersion)
	} else {
		encoded, err = bech32.EncodeM(d.hrp, withVersion)
	}
	if err != nil {
		return "", &DecodeError{Message: "segwit: failed to bech32 encode: " + err.Error()}
	}
	return encoded, nil
}
