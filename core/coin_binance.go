package core

import "github.com/btcsuite/btcd/btcutil/bech32"

// binanceDecoder bech32-encodes the raw address bytes with hrp "bnb".
// Grounded on original_source's binance.rs.
type binanceDecoder struct{}

func (binanceDecoder) decode(data []byte) (string, error) {
	converted, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", &DecodeError{Message: "binance: failed to convert bits: " + err.Error()}
	}
	encoded, err := bech32.Encode("bnb", converted)
	if err != nil {
		return "", &DecodeError{Message: "binance: failed to bech32 encode: " + err.Error()}
	}
	return encoded, nil
}
