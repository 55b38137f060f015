package core

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// maxRecordKeysPerCall is the external protocol ceiling on the
// `resolve(bytes,bytes[])` call's calls array (spec.md §5).
const maxRecordKeysPerCall = 50

// offchainDNSResolver is the well-known OffchainDNSResolver contract
// address used by the not-found heuristic in resolveOnce: a wildcard
// DNS catch-all resolver returning a zero forward address means the
// name doesn't really exist. Grounded on original_source's
// shared/src/core/universal_resolver/mod.rs OFFCHAIN_DNS_RESOLVER const.
var offchainDNSResolver = mustParseAddress("0xF142B308cF687d4358410a4cB885513b30A42025")

func mustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

var (
	selectorResolve = mustHex("206c74c9")

	typeBytesArray     abi.Type
	typeTupleArray     abi.Type
	typeHarvestTuple   abi.Type
)

func init() {
	var err error
	typeBytesArray, err = abi.NewType("bytes[]", "", nil)
	if err != nil {
		panic(err)
	}
	typeTupleArray, err = abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "success", Type: "bool"},
		{Name: "data", Type: "bytes"},
	})
	if err != nil {
		panic(err)
	}
	typeHarvestTuple, err = abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "sender", Type: "address"},
		{Name: "urls", Type: "string[]"},
		{Name: "extraData", Type: "bytes"},
	})
	if err != nil {
		panic(err)
	}
}

// universalResultEntry is the decoded shape of one element of the
// resolve() results array, normalized across both the tuple-array and
// legacy plain-bytes[] return variants (spec.md §4.5's Open Question:
// only the tuple variant is emulated going forward; the plain variant
// is accepted on read for compatibility but treated as always-success).
type universalResultEntry struct {
	Success bool
	Data    []byte
}

// ResolvedBatch is the result of one or more chunked universal-resolver
// calls: the resolver contract that served the data, the deduplicated
// gateway URL trail, and the raw per-record-key return bytes in request
// order (spec.md §3's "Resolved batch").
type ResolvedBatch struct {
	Resolver Address
	Gateways []string
	Raw      [][]byte
}

// ResolveUniversal drives the wildcard universal-resolver protocol for
// name against keys, chunking into ≤50-key calls as required (spec.md
// §4.5). It always prepends an Addr key (the "forward-address shim") so
// the OffchainDNS not-found heuristic can run, and always strips that
// entry back out of the returned Raw slice, so Raw holds one entry per
// key in keys (an Addr key in keys is sent as its own call).
func ResolveUniversal(ctx context.Context, t Transport, resolverAddr Address, name string, keys []RecordKey) (*ResolvedBatch, error) {
	node := Namehash(name)
	dnsEncoded, err := EncodeDNSWire(name)
	if err != nil {
		return nil, NameParseError(err.Error())
	}

	callKeys := append([]RecordKey{AddrKey()}, keys...)

	var (
		resolver Address
		gateways []string
		raw      [][]byte
	)

	for chunkStart := 0; chunkStart < len(callKeys); chunkStart += maxRecordKeysPerCall {
		chunkEnd := chunkStart + maxRecordKeysPerCall
		if chunkEnd > len(callKeys) {
			chunkEnd = len(callKeys)
		}
		chunk := callKeys[chunkStart:chunkEnd]

		entries, chunkResolver, chunkGateways, err := resolveOnce(ctx, t, resolverAddr, node, dnsEncoded, chunk)
		if err != nil {
			return nil, err
		}

		if chunkStart == 0 {
			resolver = chunkResolver
			gateways = chunkGateways

			forwardAddr, decErr := AddrKey().Decode(entries[0].Data)
			if decErr == nil && resolver == offchainDNSResolver && (forwardAddr == "" || forwardAddr == AddressZero.Hex()) {
				return nil, NotFound("wildcard resolved against an offchain DNS catch-all")
			}
			// Drop the prepended forward-address shim; if the caller also
			// asked for Addr, its own entry remains in place.
			entries = entries[1:]
		}

		for _, e := range entries {
			if !e.Success {
				raw = append(raw, nil)
				continue
			}
			raw = append(raw, e.Data)
		}
	}

	if resolver.IsZero() {
		return nil, NotFound("universal resolver returned the zero address")
	}

	return &ResolvedBatch{Resolver: resolver, Gateways: gateways, Raw: raw}, nil
}

func resolveOnce(ctx context.Context, t Transport, resolverAddr Address, node [32]byte, dnsEncoded []byte, keys []RecordKey) ([]universalResultEntry, Address, []string, error) {
	calls := make([][]byte, len(keys))
	for i, k := range keys {
		calls[i] = k.Calldata(node)
	}

	packed, err := abi.Arguments{{Type: typeBytes}, {Type: typeBytesArray}}.Pack(dnsEncoded, calls)
	if err != nil {
		return nil, Address{}, nil, ImplementationError("failed to encode resolve() call", err)
	}
	calldata := append(append([]byte{}, selectorResolve...), packed...)

	raw, trail, err := t.Call(ctx, CallRequest{To: resolverAddr, Data: calldata})
	if err != nil {
		return nil, Address{}, nil, classifyTransportError(err)
	}

	entries, resolver, err := decodeResolveReturn(raw)
	if err != nil {
		return nil, Address{}, nil, err
	}

	return entries, resolver, harvestGatewayURLs(trail), nil
}

// classifyTransportError maps an opaque transport failure onto
// NotFound for the "wildcard on non-extended resolvers" clean revert,
// passes a ProfileError from the transport (such as CCIPTransportError)
// through unchanged, and returns RPCError otherwise. The transport is
// expected to return ErrCleanResolverRevert for the first case (see
// transport.go's sentinel).
func classifyTransportError(err error) error {
	if errors.Is(err, ErrCleanResolverRevert) {
		return NotFound("resolver reverted cleanly for a non-extended name")
	}
	var pe *ProfileError
	if errors.As(err, &pe) {
		return pe
	}
	return RPCError(err)
}

// decodeResolveReturn tries the tuple-array return variant first
// (the only variant new implementations should emulate per spec.md §9's
// Open Question), falling back to the legacy plain bytes[] shape so
// reads against older resolvers still succeed.
func decodeResolveReturn(raw []byte) ([]universalResultEntry, Address, error) {
	if entries, resolver, err := decodeTupleArrayReturn(raw); err == nil {
		return entries, resolver, nil
	}

	values, err := abi.Arguments{{Type: typeBytesArray}, {Type: typeAddress}}.Unpack(raw)
	if err != nil {
		return nil, Address{}, ImplementationError("ABI decode of resolve() return failed", err)
	}
	rawResults, ok := values[0].([][]byte)
	if !ok {
		return nil, Address{}, ImplementationError("resolve() return[0] was not bytes[]", nil)
	}
	resolverAddr, ok := values[1].(common.Address)
	if !ok {
		return nil, Address{}, ImplementationError("resolve() return[1] was not address", nil)
	}

	entries := make([]universalResultEntry, len(rawResults))
	for i, d := range rawResults {
		entries[i] = universalResultEntry{Success: true, Data: d}
	}
	return entries, toCoreAddress(resolverAddr), nil
}

func decodeTupleArrayReturn(raw []byte) ([]universalResultEntry, Address, error) {
	values, err := abi.Arguments{{Type: typeTupleArray}, {Type: typeAddress}}.Unpack(raw)
	if err != nil {
		return nil, Address{}, err
	}

	resolverAddr, ok := values[1].(common.Address)
	if !ok {
		return nil, Address{}, &DecodeError{Message: "resolve(): return[1] not an address"}
	}

	tuples, ok := values[0].([]struct {
		Success bool   `json:"success"`
		Data    []byte `json:"data"`
	})
	if !ok {
		return nil, Address{}, &DecodeError{Message: "resolve(): return[0] not a success/data tuple array"}
	}

	entries := make([]universalResultEntry, len(tuples))
	for i, tup := range tuples {
		entries[i] = universalResultEntry{Success: tup.Success, Data: tup.Data}
	}
	return entries, toCoreAddress(resolverAddr), nil
}

func toCoreAddress(a common.Address) Address {
	var out Address
	copy(out[:], a.Bytes())
	return out
}

// harvestGatewayURLs flattens and dedupes (first-seen order) the
// gateway URLs referenced across every CCIP hop the transport followed.
// Each hop's Calldata ABI-decodes to an array of (address sender,
// string[] urls, bytes extraData) tuples (spec.md §4.5).
func harvestGatewayURLs(trail []CCIPRequest) []string {
	var out []string
	seen := make(map[string]struct{})

	for _, req := range trail {
		if len(req.Calldata) < 4 {
			continue
		}
		values, err := abi.Arguments{{Type: typeHarvestTuple}}.Unpack(req.Calldata[4:])
		if err != nil {
			continue
		}
		tuples, ok := values[0].([]struct {
			Sender    common.Address `json:"sender"`
			Urls      []string       `json:"urls"`
			ExtraData []byte         `json:"extraData"`
		})
		if !ok {
			continue
		}
		for _, tup := range tuples {
			for _, u := range tup.Urls {
				if _, dup := seen[u]; dup {
					continue
				}
				seen[u] = struct{}{}
				out = append(out, u)
			}
		}
	}

	return out
}
