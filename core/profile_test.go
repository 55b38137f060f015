package core

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// scriptedTransport is a small in-memory universal resolver stand-in:
// it decodes each inner call's selector and (for Text/Image calls) its
// key parameter, and answers from a canned table. Anything not in the
// table succeeds with an empty payload (decodes to "unset").
type scriptedTransport struct {
	resolver  common.Address
	addr      common.Address
	texts     map[string]string
	calls     int32
}

func (s *scriptedTransport) Call(ctx context.Context, req CallRequest) ([]byte, []CCIPRequest, error) {
	atomic.AddInt32(&s.calls, 1)

	values, err := abi.Arguments{{Type: typeBytes}, {Type: typeBytesArray}}.Unpack(req.Data[4:])
	if err != nil {
		return nil, nil, err
	}
	calls := values[1].([][]byte)

	results := make([]struct {
		Success bool
		Data    []byte
	}, len(calls))

	for i, c := range calls {
		results[i].Success = true
		if len(c) < 4 {
			continue
		}
		selector, params := c[:4], c[4:]
		switch string(selector) {
		case string(selectorAddr):
			packed, _ := abi.Arguments{{Type: typeAddress}}.Pack(s.addr)
			results[i].Data = packed
		case string(selectorText):
			argValues, uerr := abi.Arguments{{Type: typeBytes32}, {Type: typeString}}.Unpack(params)
			if uerr != nil {
				continue
			}
			key := argValues[1].(string)
			if text, ok := s.texts[key]; ok {
				packed, _ := abi.Arguments{{Type: typeString}}.Pack(text)
				results[i].Data = packed
			}
		case string(selectorMulticoin):
			packed, _ := abi.Arguments{{Type: typeBytes}}.Pack(s.addr.Bytes())
			results[i].Data = packed
		}
	}

	packed, err := abi.Arguments{{Type: typeTupleArray}, {Type: typeAddress}}.Pack(results, s.resolver)
	if err != nil {
		return nil, nil, err
	}
	return packed, nil, nil
}

func (s *scriptedTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	return nil, &ProfileError{Kind: ErrNotFound, Message: "fetch not used in this test"}
}

type memCache struct {
	store map[string]string
}

func newMemCache() *memCache { return &memCache{store: map[string]string{}} }

func (c *memCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := c.store[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key, value string, ttlSeconds int) error {
	c.store[key] = value
	return nil
}

func (c *memCache) Close() error { return nil }

func TestAssemblerResolveByName(t *testing.T) {
	var testAddr common.Address
	testAddr[19] = 0x42

	transport := &scriptedTransport{
		resolver: fixedTestResolver(),
		addr:     testAddr,
		texts:    map[string]string{"display": "Luc.eth", "com.twitter": "lucdev"},
	}
	assembler := &Assembler{
		Transport: transport,
		Cache:     newMemCache(),
		Config: AssemblerConfig{
			TextKeys: []string{"com.twitter"},
			CoinKeys: []CoinId{ChainEthereum},
		},
	}

	profile, err := assembler.Resolve(context.Background(), LookupByName("luc.eth"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.Display != "Luc.eth" {
		t.Errorf("Display = %q, want %q", profile.Display, "Luc.eth")
	}
	if profile.Address == nil || profile.Address.Hex() != toCoreAddress(testAddr).Hex() {
		t.Errorf("Address = %v, want %v", profile.Address, testAddr)
	}
	if profile.Records["com.twitter"] != "lucdev" {
		t.Errorf("Records[com.twitter] = %q, want lucdev", profile.Records["com.twitter"])
	}
	if profile.Chains["eth"] == "" {
		t.Errorf("expected a resolved eth chain address")
	}
	if profile.Resolver != toCoreAddress(transport.resolver) {
		t.Errorf("Resolver = %v, want %v", profile.Resolver, transport.resolver)
	}
}

func TestAssemblerResolveCacheHit(t *testing.T) {
	var testAddr common.Address
	testAddr[19] = 0x42

	transport := &scriptedTransport{
		resolver: fixedTestResolver(),
		addr:     testAddr,
		texts:    map[string]string{"display": "luc.eth"},
	}
	assembler := &Assembler{
		Transport: transport,
		Cache:     newMemCache(),
	}

	if _, err := assembler.Resolve(context.Background(), LookupByName("luc.eth"), false); err != nil {
		t.Fatalf("unexpected error on first resolve: %v", err)
	}
	firstCallCount := transport.calls

	if _, err := assembler.Resolve(context.Background(), LookupByName("luc.eth"), false); err != nil {
		t.Fatalf("unexpected error on cached resolve: %v", err)
	}
	if transport.calls != firstCallCount {
		t.Fatalf("expected no additional transport calls on a cache hit, went from %d to %d", firstCallCount, transport.calls)
	}
}

func TestAssemblerResolveFreshBypassesCache(t *testing.T) {
	var testAddr common.Address
	testAddr[19] = 0x42

	transport := &scriptedTransport{
		resolver: fixedTestResolver(),
		addr:     testAddr,
		texts:    map[string]string{"display": "luc.eth"},
	}
	assembler := &Assembler{Transport: transport, Cache: newMemCache()}

	if _, err := assembler.Resolve(context.Background(), LookupByName("luc.eth"), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstCallCount := transport.calls

	if _, err := assembler.Resolve(context.Background(), LookupByName("luc.eth"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transport.calls == firstCallCount {
		t.Fatalf("fresh=true must bypass the cache and issue a new transport call")
	}
}

type countingObserver struct {
	hits   int32
	misses int32
}

func (o *countingObserver) CacheHit()  { atomic.AddInt32(&o.hits, 1) }
func (o *countingObserver) CacheMiss() { atomic.AddInt32(&o.misses, 1) }

func TestAssemblerResolveNotifiesCacheObserver(t *testing.T) {
	var testAddr common.Address
	testAddr[19] = 0x42

	transport := &scriptedTransport{
		resolver: fixedTestResolver(),
		addr:     testAddr,
		texts:    map[string]string{"display": "luc.eth"},
	}
	observer := &countingObserver{}
	assembler := &Assembler{Transport: transport, Cache: newMemCache(), Observer: observer}

	if _, err := assembler.Resolve(context.Background(), LookupByName("luc.eth"), false); err != nil {
		t.Fatalf("unexpected error on first resolve: %v", err)
	}
	if atomic.LoadInt32(&observer.misses) != 1 {
		t.Fatalf("expected 1 cache miss after the first resolve, got %d", observer.misses)
	}

	if _, err := assembler.Resolve(context.Background(), LookupByName("luc.eth"), false); err != nil {
		t.Fatalf("unexpected error on cached resolve: %v", err)
	}
	if atomic.LoadInt32(&observer.hits) != 1 {
		t.Fatalf("expected 1 cache hit after the second resolve, got %d", observer.hits)
	}
}
