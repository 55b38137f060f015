package core

import (
	"encoding/hex"
	"strconv"

	"github.com/ethereum/go-ethereum/crypto"
)

// RSKIPChain selects the preimage prefix used by EncodeRSKIP60: empty for
// Ethereum itself (plain EIP-55), "<chain_id>0x" for every RSKIP-60
// chain-scoped variant (Rootstock, and any other EVM chain id). Grounded on
// original_source/packages/shared/src/utils/eip55.rs's RSKIPChain enum.
type RSKIPChain struct {
	IsEthereum bool
	ChainID    uint64
}

// EncodeRSKIP60 lowercase-hex-encodes data and mixed-cases each nibble
// according to the high bit of the corresponding nibble of
// keccak256(prefix || lowercase_hex). prefix is empty for Ethereum and
// "<chain_id>0x" otherwise. Idempotent on already-checksummed strings
// supplied back through ParseAddress + Hex (spec.md §8).
func EncodeRSKIP60(data []byte, chain RSKIPChain) string {
	raw := hex.EncodeToString(data)
	if len(data) > 20 {
		return raw
	}

	var prefix string
	if !chain.IsEthereum {
		prefix = strconv.FormatUint(chain.ChainID, 10) + "0x"
	}
	hash := crypto.Keccak256([]byte(prefix + raw))

	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if hash[i>>1]<<((uint(i)&1)<<2) >= 0x80 {
			if c >= 'a' && c <= 'f' {
				c -= 'a' - 'A'
			}
		}
		out[i] = c
	}
	return string(out)
}
