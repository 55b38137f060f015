package core

import "github.com/mr-tron/base58"

// solanaDecoder base58 (Bitcoin alphabet) encodes the raw 32-byte
// account key, with no version byte or checksum. Grounded on
// original_source's solana.rs.
type solanaDecoder struct{}

func (solanaDecoder) decode(data []byte) (string, error) {
	return base58.Encode(data), nil
}
