package core

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// RecordKeyTag discriminates the RecordKey sum type.
type RecordKeyTag int

const (
	KeyAddr RecordKeyTag = iota
	KeyText
	KeyMulticoin
	KeyImage
	KeyContenthash
)

// RecordKey is a tagged union over the supported ENS record kinds:
// Addr, Text(key), Multicoin(coin), Image(key), Contenthash. It is a
// plain comparable struct so it can key Go maps directly, satisfying the
// structural-equality requirement of spec.md §3/§4.7 (adapted from
// original_source's RecordKey-equivalent capability objects into a
// data-first sum type, per spec.md §9's design note).
type RecordKey struct {
	Tag     RecordKeyTag
	Text    string // Text key or Image key ("avatar"/"header")
	Coin    CoinId
}

func AddrKey() RecordKey                { return RecordKey{Tag: KeyAddr} }
func TextKey(key string) RecordKey      { return RecordKey{Tag: KeyText, Text: key} }
func MulticoinKey(c CoinId) RecordKey   { return RecordKey{Tag: KeyMulticoin, Coin: c} }
func ImageKey(key string) RecordKey     { return RecordKey{Tag: KeyImage, Text: key} }
func ContenthashKey() RecordKey         { return RecordKey{Tag: KeyContenthash} }

// Name returns the human-readable error/record-map key for this record,
// per spec.md §4.7's stable key scheme ("addr", "records.<k>",
// "chains.<coin>", "avatar", "header", "contenthash").
func (k RecordKey) Name() string {
	switch k.Tag {
	case KeyAddr:
		return "addr"
	case KeyText:
		return "records." + k.Text
	case KeyMulticoin:
		return "chains." + k.Coin.Name()
	case KeyImage:
		return k.Text
	case KeyContenthash:
		return "contenthash"
	default:
		return "unknown"
	}
}

var (
	typeString, _  = abi.NewType("string", "", nil)
	typeBytes32, _ = abi.NewType("bytes32", "", nil)
	typeUint256, _ = abi.NewType("uint256", "", nil)
	typeBytes, _   = abi.NewType("bytes", "", nil)
	typeAddress, _ = abi.NewType("address", "", nil)
)

// Selectors for the four record-request function signatures (spec.md §4.2);
// Image records reuse the Text selector.
var (
	selectorAddr        = mustHex("3b3b57de")
	selectorText        = mustHex("59d1d43c")
	selectorMulticoin   = mustHex("f1cb7e06")
	selectorContenthash = mustHex("bc1c58d1")
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Calldata builds the (namehash, params) -> call-bytes encoding for k,
// selector-prefixed, ready to be placed in the universal resolver's
// wildcard `data` array (spec.md §4.2).
func (k RecordKey) Calldata(node [32]byte) []byte {
	switch k.Tag {
	case KeyAddr:
		return append(append([]byte{}, selectorAddr...), node[:]...)
	case KeyText, KeyImage:
		packed, err := abi.Arguments{{Type: typeBytes32}, {Type: typeString}}.Pack(node, k.Text)
		if err != nil {
			panic(err) // string args never fail to pack
		}
		return append(append([]byte{}, selectorText...), packed...)
	case KeyMulticoin:
		packed, err := abi.Arguments{{Type: typeBytes32}, {Type: typeUint256}}.Pack(node, k.Coin.CoinType())
		if err != nil {
			panic(err)
		}
		return append(append([]byte{}, selectorMulticoin...), packed...)
	case KeyContenthash:
		return append(append([]byte{}, selectorContenthash...), node[:]...)
	default:
		return nil
	}
}

// Decode interprets the raw ABI return-bytes for k. Empty or all-zero
// payloads decode to the empty (unset) string with no error, per
// spec.md §3/§4.2.
func (k RecordKey) Decode(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	switch k.Tag {
	case KeyAddr:
		return decodeAddrReturn(raw)
	case KeyText, KeyImage:
		return decodeStringReturn(raw)
	case KeyMulticoin:
		return decodeMulticoinReturn(k.Coin, raw)
	case KeyContenthash:
		return decodeContenthashReturn(raw)
	default:
		return "", &Unsupported{Message: "unknown record kind"}
	}
}

func decodeAddrReturn(raw []byte) (string, error) {
	values, err := abi.Arguments{{Type: typeAddress}}.Unpack(raw)
	if err != nil {
		return "", &DecodeError{Message: "addr: " + err.Error()}
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return "", &DecodeError{Message: "addr: unexpected return type"}
	}
	if addr == (common.Address{}) {
		return "", nil
	}
	var out Address
	copy(out[:], addr.Bytes())
	return out.Hex(), nil
}

func decodeStringReturn(raw []byte) (string, error) {
	values, err := abi.Arguments{{Type: typeString}}.Unpack(raw)
	if err != nil {
		return "", &DecodeError{Message: "text: " + err.Error()}
	}
	s, ok := values[0].(string)
	if !ok {
		return "", &DecodeError{Message: "text: unexpected return type"}
	}
	return s, nil
}

func decodeBytesReturn(raw []byte) ([]byte, error) {
	values, err := abi.Arguments{{Type: typeBytes}}.Unpack(raw)
	if err != nil {
		return nil, &DecodeError{Message: "bytes: " + err.Error()}
	}
	b, ok := values[0].([]byte)
	if !ok {
		return nil, &DecodeError{Message: "bytes: unexpected return type"}
	}
	return b, nil
}

// isEthereumCoin reports whether c is either SLIP-44 Ethereum or the
// ENSIP-11 Ethereum mainnet entry — the two cases that get the
// bytes-then-address fallback decode (spec.md §4.2).
func isEthereumCoin(c CoinId) bool {
	return c == CoinEthereumSlip44 || c == ChainEthereum
}

func decodeMulticoinReturn(coin CoinId, raw []byte) (string, error) {
	var payload []byte

	if isEthereumCoin(coin) {
		if b, err := decodeBytesReturn(raw); err == nil {
			payload = b
		} else {
			values, aerr := abi.Arguments{{Type: typeAddress}}.Unpack(raw)
			if aerr != nil {
				return "", &DecodeError{Message: "multicoin: " + err.Error()}
			}
			addr, ok := values[0].(common.Address)
			if !ok {
				return "", &DecodeError{Message: "multicoin: unexpected address return type"}
			}
			payload = addr.Bytes()
		}
	} else {
		b, err := decodeBytesReturn(raw)
		if err != nil {
			return "", err
		}
		payload = b
	}

	return DecodeMulticoin(coin, payload)
}
