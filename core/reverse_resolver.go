package core

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ensBaseRegistry is the canonical ENS registry contract address used
// to resolve "<hex(address)>.addr.reverse" to its reverse resolver
// (spec.md §4.6).
var ensBaseRegistry = mustParseAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

var (
	selectorRegistryResolver = mustHex("0178b8bf") // resolver(bytes32)
	selectorReverseName      = mustHex("691f3431") // name(bytes32)
)

// ResolveReverse implements the address-to-primary-name direction:
// registry lookup of the reverse resolver, a name() read against it, and
// a forward-confirmation pass through the universal resolver. Grounded
// on original_source's src/models/profile/resolve_universal.rs reverse
// flow, adapted to the tuple-array driver in universal_resolver.go.
func ResolveReverse(ctx context.Context, t Transport, resolverAddr Address, addr Address) (string, error) {
	reverseName := strings.ToLower(addr.Hex()[2:]) + ".addr.reverse"
	node := Namehash(reverseName)

	resolverPacked, err := abi.Arguments{{Type: typeBytes32}}.Pack(node)
	if err != nil {
		return "", ImplementationError("failed to encode resolver() call", err)
	}
	resolverRaw, _, err := t.Call(ctx, CallRequest{
		To:   ensBaseRegistry,
		Data: append(append([]byte{}, selectorRegistryResolver...), resolverPacked...),
	})
	if err != nil {
		return "", classifyTransportError(err)
	}

	values, err := abi.Arguments{{Type: typeAddress}}.Unpack(resolverRaw)
	if err != nil {
		return "", ImplementationError("failed to decode resolver() return", err)
	}
	reverseResolver, ok := values[0].(common.Address)
	if !ok || reverseResolver == (common.Address{}) {
		return "", MissingPrimaryName()
	}

	namePacked, err := abi.Arguments{{Type: typeBytes32}}.Pack(node)
	if err != nil {
		return "", ImplementationError("failed to encode name() call", err)
	}
	nameRaw, _, err := t.Call(ctx, CallRequest{
		To:   toCoreAddress(reverseResolver),
		Data: append(append([]byte{}, selectorReverseName...), namePacked...),
	})
	if err != nil {
		return "", classifyTransportError(err)
	}

	primaryName, err := decodeStringReturn(nameRaw)
	if err != nil {
		return "", ImplementationError("failed to decode name() return", err)
	}
	if primaryName == "" {
		return "", MissingPrimaryName()
	}
	primaryName = NormalizeName(primaryName)

	batch, err := ResolveUniversal(ctx, t, resolverAddr, primaryName, []RecordKey{AddrKey()})
	if err != nil {
		return "", err
	}
	if len(batch.Raw) == 0 {
		return "", AddressMismatch()
	}

	forwardHex, err := AddrKey().Decode(batch.Raw[0])
	if err != nil || forwardHex == "" {
		return "", AddressMismatch()
	}
	forwardAddr, err := ParseAddress(forwardHex)
	if err != nil || forwardAddr != addr {
		return "", AddressMismatch()
	}

	return primaryName, nil
}
