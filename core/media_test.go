package core

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// stubTransport answers Call with a fixed return payload regardless of
// request and Fetch by looking up the URL in a canned map, enough to
// exercise ResolveMediaURI's branches without a real RPC/HTTP backend.
type stubTransport struct {
	callReturn []byte
	callErr    error
	fetches    map[string][]byte
}

func (s *stubTransport) Call(ctx context.Context, req CallRequest) ([]byte, []CCIPRequest, error) {
	return s.callReturn, nil, s.callErr
}

func (s *stubTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	if body, ok := s.fetches[url]; ok {
		return body, nil
	}
	return nil, &ProfileError{Kind: ErrNotFound, Message: "no such fetch fixture: " + url}
}

func TestResolveMediaURIIPFS(t *testing.T) {
	got, err := ResolveMediaURI(context.Background(), &stubTransport{}, "ipfs://bafybeigdyrzt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := IPFSGatewayBase + "bafybeigdyrzt"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveMediaURIArweave(t *testing.T) {
	got, err := ResolveMediaURI(context.Background(), &stubTransport{}, "ar://abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ArweaveBase + "abc123"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveMediaURIDataURLPassthrough(t *testing.T) {
	raw := "data:image/png;base64,aGVsbG8="
	got, err := ResolveMediaURI(context.Background(), &stubTransport{}, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != raw {
		t.Fatalf("data: urls must pass through unchanged, got %q", got)
	}
}

func TestResolveMediaURIBareCID(t *testing.T) {
	got, err := ResolveMediaURI(context.Background(), &stubTransport{}, "QmSomeBareCID")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := IPFSGatewayBase + "QmSomeBareCID"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveMediaURIPlainPassthrough(t *testing.T) {
	raw := "https://example.com/avatar.png"
	got, err := ResolveMediaURI(context.Background(), &stubTransport{}, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != raw {
		t.Fatalf("got %q, want %q", got, raw)
	}
}

func TestResolveMediaURIEmpty(t *testing.T) {
	got, err := ResolveMediaURI(context.Background(), &stubTransport{}, "   ")
	if err != nil || got != "" {
		t.Fatalf("blank input should resolve to empty string, no error: %q, %v", got, err)
	}
}

func TestResolveMediaURIEIP155ERC721(t *testing.T) {
	metadataURI := "data:application/json;base64," +
		"eyJpbWFnZSI6ICJpcGZzOi8vYmFmeWJlaWdkeXJ6dCJ9" // {"image": "ipfs://bafybeigdyrzt"}

	packed, err := abi.Arguments{{Type: typeString}}.Pack(metadataURI)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	transport := &stubTransport{callReturn: packed}
	raw := "eip155:1/erc721:0x1234567890123456789012345678901234567890/7"
	got, err := ResolveMediaURI(context.Background(), transport, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := IPFSGatewayBase + "bafybeigdyrzt"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveMediaURIEIP155UnsupportedChain(t *testing.T) {
	raw := "eip155:137/erc721:0x1234567890123456789012345678901234567890/7"
	_, err := ResolveMediaURI(context.Background(), &stubTransport{}, raw)
	if err == nil {
		t.Fatalf("expected an unsupported-chain error")
	}
	if _, ok := err.(*Unsupported); !ok {
		t.Fatalf("expected *Unsupported, got %T", err)
	}
}
