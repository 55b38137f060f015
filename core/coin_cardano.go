package core

import (
	"hash/crc32"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/fxamacker/cbor/v2"
	"github.com/mr-tron/base58"
)

// cardanoDecoder tries the legacy Byron CBOR/base58 address shape first;
// if that doesn't parse to a recognized Byron prefix, falls back to
// Shelley bech32. Grounded on original_source's cardano.rs.
type cardanoDecoder struct{}

func (cardanoDecoder) decode(data []byte) (string, error) {
	if addr, err := encodeCardanoByron(data); err == nil {
		return addr, nil
	}
	return encodeCardanoShelley(data)
}

// byronPayload mirrors the Rust `vec![Value::Tag(24, Bytes(data)),
// Value::Integer(checksum)]` CBOR structure: a 2-element array whose
// first element is a tag-24-wrapped byte string and whose second is the
// CRC32 checksum.
type byronPayload struct {
	_        struct{} `cbor:",toarray"`
	Root     cbor.Tag
	Checksum uint32
}

func encodeCardanoByron(data []byte) (string, error) {
	checksum := crc32.ChecksumIEEE(data)
	encoded, err := cbor.Marshal(byronPayload{
		Root:     cbor.Tag{Number: 24, Content: data},
		Checksum: checksum,
	})
	if err != nil {
		return "", &DecodeError{Message: "cardano: failed to cbor encode: " + err.Error()}
	}

	addr := base58.Encode(encoded)
	if len(addr) < 3 || (addr[:3] != "Ae2" && addr[:3] != "Ddz") {
		return "", &DecodeError{Message: "cardano: invalid byron address prefix"}
	}
	return addr, nil
}

func encodeCardanoShelley(data []byte) (string, error) {
	converted, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", &DecodeError{Message: "cardano: failed to convert bits: " + err.Error()}
	}
	encoded, err := bech32.Encode("addr", converted)
	if err != nil {
		return "", &DecodeError{Message: "cardano: failed to bech32 encode: " + err.Error()}
	}
	return encoded, nil
}
