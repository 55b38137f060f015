package core

import (
	"context"
	"errors"
)

// ErrCleanResolverRevert is the sentinel a Transport implementation
// returns (wrapped or bare, checked via errors.Is) when the underlying
// JSON-RPC error is the designated "wildcard call against a
// non-extended resolver" clean revert — the transport-observable signal
// the driver maps to NotFound rather than RPCError (spec.md §4.5).
var ErrCleanResolverRevert = errors.New("resolver reverted cleanly for a non-wildcard-extended name")

// CallRequest is a single eth_call-shaped request: a target contract and
// ABI-encoded calldata. Built by RecordKey.Calldata and the universal
// resolver driver, consumed by whichever Transport backs the resolver.
type CallRequest struct {
	To   Address
	Data []byte
}

// CCIPRequest records one offchain-lookup hop a Transport followed while
// satisfying a Call, carrying the calldata of the batched forwarding
// request the transport issued to the gateway. The driver never
// interprets this beyond harvesting gateway URLs from it (spec.md §4.5);
// it never drives the CCIP-Read protocol itself. Grounded on
// original_source's ethers_ccip_read::CCIPRequest shape, whose calldata
// ABI-decodes to `(address, string[] urls, bytes)[]`.
type CCIPRequest struct {
	Calldata []byte
}

// Transport abstracts the RPC/CCIP-Read transport so core stays free of
// any concrete JSON-RPC client, matching the teacher's habit of keeping
// core/ dependent on interfaces and pushing concrete clients into pkg/
// (orbas1-Synnergy/synnergy-network/core/storage.go takes a similar
// interface-first approach to its backing store).
type Transport interface {
	// Call performs an eth_call against req.To with req.Data, following
	// any OffchainLookup reverts transparently, and returns the final
	// decoded return bytes plus the trail of CCIP hops it followed.
	Call(ctx context.Context, req CallRequest) ([]byte, []CCIPRequest, error)

	// Fetch retrieves the bytes at an arbitrary HTTP(S)/gateway URL,
	// used by media dereferencing.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
