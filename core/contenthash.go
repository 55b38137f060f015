package core

import (
	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

// Contenthash protocol codes per the ENSIP-7 contenthash encoding
// (a varint-encoded multicodec protocol code, e.g. e3 01 for IPFS,
// followed by the protocol payload). Only IPFS is decoded to a URI; Swarm and anything else is
// reported as Unsupported rather than silently dropped, per spec.md
// §4.4's explicit table.
const (
	contenthashIPFS  = 0xe3
	contenthashSwarm = 0xe4
)

// decodeContenthashReturn turns the raw `contenthash()` return bytes
// into a gateway-agnostic URI string ("ipfs://<cid>"). Grounded on the
// teacher's ipfs.go CID handling (orbas1-Synnergy/synnergy-network/core/ipfs.go),
// which already depends on ipfs/go-cid + multiformats/go-multihash for
// the same family of CIDv0/CIDv1 decisions.
func decodeContenthashReturn(raw []byte) (string, error) {
	payload, err := decodeBytesReturn(raw)
	if err != nil {
		return "", err
	}
	if len(payload) == 0 {
		return "", nil
	}
	return DecodeContenthash(payload)
}

// DecodeContenthash interprets a protocol-prefixed contenthash payload.
func DecodeContenthash(payload []byte) (string, error) {
	if len(payload) < 1 {
		return "", &DecodeError{Message: "contenthash: empty payload"}
	}

	switch payload[0] {
	case contenthashIPFS:
		// 0xe3 is varint-encoded as the two bytes e3 01; the CID follows.
		if len(payload) < 2 {
			return "", &DecodeError{Message: "contenthash: truncated ipfs payload"}
		}
		return decodeIPFSContenthash(payload[2:])
	case contenthashSwarm:
		return "", &Unsupported{Message: "contenthash: swarm protocol not supported"}
	default:
		return "", &Unsupported{Message: "contenthash: unrecognized protocol"}
	}
}

// decodeIPFSContenthash expects the binary CID that follows the e3 01
// protocol code (as emitted by the ENS contenthash encoder) and renders it
// back out as an ipfs:// URI. A CIDv1 whose codec is dag-pb and whose
// multihash is sha2-256 is downgraded to its legacy CIDv0 (bare
// base58btc "Qm..." multihash) string form, matching how ENS's own
// contenthash tooling and every IPFS gateway display that specific
// combination (spec.md §4.4 example 5).
func decodeIPFSContenthash(rest []byte) (string, error) {
	_, parsedCid, err := cid.CidFromBytes(rest)
	if err != nil {
		// Some legacy records store a bare multihash without the CIDv1
		// prefix bytes; fall back to treating it as CIDv0 (dag-pb, sha2-256).
		decoded, mherr := mh.Cast(rest)
		if mherr != nil {
			return "", &DecodeError{Message: "contenthash: invalid ipfs payload: " + err.Error()}
		}
		parsedCid = cid.NewCidV0(decoded)
	}

	if parsedCid.Version() == 1 && parsedCid.Type() == cid.DagProtobuf {
		if decoded, mherr := mh.Decode(parsedCid.Hash()); mherr == nil && decoded.Code == mh.SHA2_256 {
			parsedCid = cid.NewCidV0(parsedCid.Hash())
		}
	}

	return "ipfs://" + parsedCid.String(), nil
}
