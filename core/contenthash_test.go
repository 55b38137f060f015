package core

import (
	"testing"

	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

func TestDecodeContenthashIPFS(t *testing.T) {
	// dag-pb + sha2-256 is the legacy CIDv0 hash family; ENS contenthash
	// records encode it as CIDv1, but every IPFS gateway and ENS's own
	// tooling renders it back out in CIDv0 ("Qm...") form (spec.md §4.4/§8
	// example 5), so the decoded URI must use the CIDv0 string, not the
	// CIDv1 multibase-prefixed one.
	hash, err := mh.Sum([]byte("hello world"), mh.SHA2_256, -1)
	if err != nil {
		t.Fatalf("failed to build multihash: %v", err)
	}
	testCid := cid.NewCidV1(cid.DagProtobuf, hash)

	payload := append([]byte{0xe3, 0x01}, testCid.Bytes()...)

	got, err := DecodeContenthash(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "ipfs://" + cid.NewCidV0(hash).String()
	if got != want {
		t.Fatalf("DecodeContenthash = %q, want %q", got, want)
	}
}

func TestDecodeContenthashIPFSSpecVector(t *testing.T) {
	payload := mustHex("e3010170122029f2d17be6139079dc48696d1f582a8530eb9805b561eda517e22a892c7e3f1f")
	got, err := DecodeContenthash(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "ipfs://QmRAQB6YaCyidP37UdDnjFY5vQuiBrcqdyoW1CuDgwxkD4"
	if got != want {
		t.Fatalf("DecodeContenthash = %q, want %q", got, want)
	}
}

func TestDecodeContenthashSwarmUnsupported(t *testing.T) {
	_, err := DecodeContenthash([]byte{0xe4, 1, 2, 3})
	if err == nil {
		t.Fatalf("expected an error for swarm contenthash")
	}
	if _, ok := err.(*Unsupported); !ok {
		t.Fatalf("expected *Unsupported, got %T", err)
	}
}

func TestDecodeContenthashUnknownProtocol(t *testing.T) {
	_, err := DecodeContenthash([]byte{0xff, 1, 2, 3})
	if _, ok := err.(*Unsupported); !ok {
		t.Fatalf("expected *Unsupported for unrecognized protocol, got %T", err)
	}
}

func TestDecodeContenthashEmpty(t *testing.T) {
	if _, err := DecodeContenthash(nil); err == nil {
		t.Fatalf("expected an error for empty payload")
	}
}
