package core

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

func TestRecordKeyName(t *testing.T) {
	cases := []struct {
		key  RecordKey
		want string
	}{
		{AddrKey(), "addr"},
		{TextKey("com.twitter"), "records.com.twitter"},
		{MulticoinKey(CoinBitcoin), "chains.btc"},
		{ImageKey("avatar"), "avatar"},
		{ContenthashKey(), "contenthash"},
	}
	for _, c := range cases {
		if got := c.key.Name(); got != c.want {
			t.Errorf("Name() = %q, want %q", got, c.want)
		}
	}
}

func TestRecordKeyCalldataSelectors(t *testing.T) {
	var node [32]byte
	node[0] = 0xAB

	cases := []struct {
		key  RecordKey
		want []byte
	}{
		{AddrKey(), selectorAddr},
		{TextKey("email"), selectorText},
		{MulticoinKey(CoinBitcoin), selectorMulticoin},
		{ContenthashKey(), selectorContenthash},
	}
	for _, c := range cases {
		got := c.key.Calldata(node)
		if !bytes.HasPrefix(got, c.want) {
			t.Errorf("Calldata() for %v does not start with expected selector", c.key)
		}
	}
}

func TestRecordKeyAddrRoundTrip(t *testing.T) {
	var addr common.Address
	addr[0] = 0x42
	packed, err := abi.Arguments{{Type: typeAddress}}.Pack(addr)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	got, err := AddrKey().Decode(packed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var want Address
	copy(want[:], addr.Bytes())
	if got != want.Hex() {
		t.Fatalf("got %q, want %q", got, want.Hex())
	}
}

func TestRecordKeyAddrZeroIsUnset(t *testing.T) {
	packed, err := abi.Arguments{{Type: typeAddress}}.Pack(common.Address{})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	got, err := AddrKey().Decode(packed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "" {
		t.Fatalf("zero address should decode to empty string, got %q", got)
	}
}

func TestRecordKeyTextRoundTrip(t *testing.T) {
	packed, err := abi.Arguments{{Type: typeString}}.Pack("hello@example.com")
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	got, err := TextKey("email").Decode(packed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "hello@example.com" {
		t.Fatalf("got %q", got)
	}
}

func TestRecordKeyDecodeEmptyIsUnset(t *testing.T) {
	got, err := TextKey("email").Decode(nil)
	if err != nil || got != "" {
		t.Fatalf("empty payload should decode to empty string, no error: %q, %v", got, err)
	}
}

func TestRecordKeyMulticoinRoundTrip(t *testing.T) {
	raw := make([]byte, 20)
	raw[0] = 0x11
	packed, err := abi.Arguments{{Type: typeBytes}}.Pack(raw)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	got, err := MulticoinKey(ChainEthereum).Decode(packed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var addr Address
	copy(addr[:], raw)
	if got != addr.Hex() {
		t.Fatalf("got %q, want %q", got, addr.Hex())
	}
}

func TestRecordKeyContenthashMalformedIPFS(t *testing.T) {
	payload := []byte{0xe3, 0x01, 0x02, 0x03} // malformed CID on purpose
	packed, err := abi.Arguments{{Type: typeBytes}}.Pack(payload)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	_, err = ContenthashKey().Decode(packed)
	if err == nil {
		t.Fatalf("expected a decode error for a malformed ipfs payload")
	}
}
