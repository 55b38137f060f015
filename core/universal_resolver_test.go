package core

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// chunkCountingTransport emulates a universal resolver contract well
// enough to drive ResolveUniversal's chunking logic: every resolve()
// call gets a success=true/no-data response per requested record, so
// only the shape and count of calls matters, not per-field content.
type chunkCountingTransport struct {
	resolver  common.Address
	callSizes []int // len(calls) observed on each Call invocation, in order
}

func (c *chunkCountingTransport) Call(ctx context.Context, req CallRequest) ([]byte, []CCIPRequest, error) {
	values, err := abi.Arguments{{Type: typeBytes}, {Type: typeBytesArray}}.Unpack(req.Data[4:])
	if err != nil {
		return nil, nil, err
	}
	calls := values[1].([][]byte)
	c.callSizes = append(c.callSizes, len(calls))

	results := make([]struct {
		Success bool
		Data    []byte
	}, len(calls))
	for i := range results {
		results[i].Success = true
	}

	packed, err := abi.Arguments{{Type: typeTupleArray}, {Type: typeAddress}}.Pack(results, c.resolver)
	if err != nil {
		return nil, nil, err
	}
	return packed, nil, nil
}

func (c *chunkCountingTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	return nil, &ProfileError{Kind: ErrNotFound, Message: "fetch not used in this test"}
}

func fixedTestResolver() common.Address {
	var a common.Address
	a[19] = 0x01
	return a
}

func TestResolveUniversalSingleChunk(t *testing.T) {
	transport := &chunkCountingTransport{resolver: fixedTestResolver()}

	keys := make([]RecordKey, 49) // + the Addr shim = 50, exactly one chunk
	for i := range keys {
		keys[i] = TextKey(string(rune('a' + i%26)))
	}

	batch, err := ResolveUniversal(context.Background(), transport, Address{}, "luc.eth", keys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transport.callSizes) != 1 {
		t.Fatalf("expected exactly 1 chunked call, got %d", len(transport.callSizes))
	}
	if transport.callSizes[0] != 50 {
		t.Fatalf("expected 50 calls in the single chunk, got %d", transport.callSizes[0])
	}
	if len(batch.Raw) != len(keys) {
		t.Fatalf("expected %d raw entries (shim stripped), got %d", len(keys), len(batch.Raw))
	}
}

func TestResolveUniversalMultiChunk(t *testing.T) {
	transport := &chunkCountingTransport{resolver: fixedTestResolver()}

	keys := make([]RecordKey, 50) // + the Addr shim = 51, needs 2 chunks
	for i := range keys {
		keys[i] = TextKey(string(rune('a' + i%26)))
	}

	batch, err := ResolveUniversal(context.Background(), transport, Address{}, "luc.eth", keys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transport.callSizes) != 2 {
		t.Fatalf("expected exactly 2 chunked calls, got %d", len(transport.callSizes))
	}
	if transport.callSizes[0] != 50 || transport.callSizes[1] != 1 {
		t.Fatalf("expected chunk sizes [50,1], got %v", transport.callSizes)
	}
	if len(batch.Raw) != len(keys) {
		t.Fatalf("expected %d raw entries (shim stripped), got %d", len(keys), len(batch.Raw))
	}
}

func TestResolveUniversalZeroResolverIsNotFound(t *testing.T) {
	transport := &chunkCountingTransport{resolver: common.Address{}}
	_, err := ResolveUniversal(context.Background(), transport, Address{}, "luc.eth", nil)
	if err == nil {
		t.Fatalf("expected a not-found error for the zero resolver")
	}
	pe, ok := err.(*ProfileError)
	if !ok || pe.Kind != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
