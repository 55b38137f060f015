package core

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/url"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Gateway bases used to rewrite protocol-scheme URIs into plain
// fetchable HTTPS URLs. Kept as vars (not consts) so a deployment can
// override them via internal/config without touching this file.
var (
	IPFSGatewayBase = "https://ipfs.io/ipfs/"
	ArweaveBase     = "https://arweave.net/"
)

var (
	ipfsURIPattern  = regexp.MustCompile(`^ipfs://([0-9A-Za-z]+)$`)
	eip155URIPattern = regexp.MustCompile(`^eip155:(\d+)/(erc1155|erc721):0x([0-9a-fA-F]{40})/(\d+)$`)
)

var (
	selectorTokenURI   = mustHex("c87b56dd") // tokenURI(uint256), ERC-721
	selectorERC1155URI = mustHex("0e89341c") // uri(uint256), ERC-1155
)

// ResolveMediaURI normalizes a decoded avatar/header record value into a
// directly fetchable URL, per spec.md §4.4's decision order:
//
//  1. ipfs://<cid> rewrites onto the configured IPFS gateway.
//  2. eip155:<chain>/erc721|erc1155:<contract>/<id> is dereferenced
//     on-chain, its tokenURI/uri metadata is fetched and parsed as JSON,
//     and the metadata's "image" field is recursively resolved.
//  3. anything else (ar://, data:, bare CID, plain https URLs) is
//     rewritten where recognized and otherwise returned unchanged.
func ResolveMediaURI(ctx context.Context, t Transport, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	if m := ipfsURIPattern.FindStringSubmatch(raw); m != nil {
		return IPFSGatewayBase + m[1], nil
	}

	if m := eip155URIPattern.FindStringSubmatch(raw); m != nil {
		return resolveEIP155Token(ctx, t, m)
	}

	if strings.HasPrefix(raw, "ar://") {
		return ArweaveBase + strings.TrimPrefix(raw, "ar://"), nil
	}
	if strings.HasPrefix(raw, "data:") {
		return raw, nil
	}
	if looksLikeBareCID(raw) {
		return IPFSGatewayBase + raw, nil
	}

	return raw, nil
}

func looksLikeBareCID(s string) bool {
	return strings.HasPrefix(s, "Qm") || strings.HasPrefix(s, "bafy") || strings.HasPrefix(s, "bafk")
}

// resolveEIP155Token implements spec.md §4.4 point 2 in full: chain must
// be Ethereum mainnet, the token's metadata URI is read on-chain, the
// metadata JSON is fetched (or decoded in-memory for a data: URI), and
// the "image" field of that JSON is itself resolved recursively.
func resolveEIP155Token(ctx context.Context, t Transport, m []string) (string, error) {
	chain, standard, contractHex, tokenIDStr := m[1], m[2], m[3], m[4]

	if chain != "1" {
		return "", &Unsupported{Message: "media: unsupported chain " + chain}
	}

	contract, err := ParseAddress("0x" + contractHex)
	if err != nil {
		return "", &DecodeError{Message: "media: invalid token contract: " + err.Error()}
	}

	tokenID, ok := new(big.Int).SetString(tokenIDStr, 10)
	if !ok {
		return "", &DecodeError{Message: "media: invalid token id"}
	}

	selector := selectorTokenURI
	if standard == "erc1155" {
		selector = selectorERC1155URI
	}

	packed, err := abi.Arguments{{Type: typeUint256}}.Pack(tokenID)
	if err != nil {
		return "", &DecodeError{Message: "media: failed to encode token id: " + err.Error()}
	}

	raw, _, err := t.Call(ctx, CallRequest{To: contract, Data: append(append([]byte{}, selector...), packed...)})
	if err != nil {
		return "", CCIPTransportError(err)
	}

	metadataURI, err := decodeStringReturn(raw)
	if err != nil {
		return "", err
	}

	if standard == "erc1155" {
		metadataURI = strings.ReplaceAll(metadataURI, "{id}", padTokenIDHex(tokenID.Bytes()))
	}

	metadata, err := fetchMetadataJSON(ctx, t, metadataURI)
	if err != nil {
		return "", err
	}

	image, _ := metadata["image"].(string)
	if image == "" {
		return "", nil
	}
	return ResolveMediaURI(ctx, t, image)
}

// fetchMetadataJSON resolves uri to its underlying JSON document, either
// by decoding it in-memory (data: URLs) or by dereferencing it through
// the transport's gateway-aware fetch (ipfs://, ar://, bare CID, https),
// injecting the OpenSea host-scoped API key when applicable is the
// transport's responsibility (pkg/httpfetch), not core's.
func fetchMetadataJSON(ctx context.Context, t Transport, uri string) (map[string]any, error) {
	if strings.HasPrefix(uri, "data:") {
		payload, err := decodeDataURL(uri)
		if err != nil {
			return nil, &DecodeError{Message: "media: invalid data url: " + err.Error()}
		}
		return unmarshalMetadata(payload)
	}

	resolved, err := ResolveMediaURI(ctx, t, uri)
	if err != nil {
		return nil, err
	}

	body, err := t.Fetch(ctx, resolved)
	if err != nil {
		return nil, CCIPTransportError(err)
	}
	return unmarshalMetadata(body)
}

func unmarshalMetadata(body []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{Message: "media: invalid metadata json: " + err.Error()}
	}
	return out, nil
}

// decodeDataURL parses a data: URL's payload, supporting both the
// base64 and percent-encoded forms (RFC 2397).
func decodeDataURL(raw string) ([]byte, error) {
	body := strings.TrimPrefix(raw, "data:")
	comma := strings.IndexByte(body, ',')
	if comma < 0 {
		return nil, &DecodeError{Message: "data url missing comma"}
	}
	meta, payload := body[:comma], body[comma+1:]

	if strings.Contains(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	decoded, err := url.QueryUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(decoded), nil
}

// padTokenIDHex renders a big-endian token id as the zero-padded
// 64-character lowercase hex string ERC-1155's {id} substitution
// requires (EIP-1155 metadata URI spec).
func padTokenIDHex(be []byte) string {
	h := hex.EncodeToString(be)
	if len(h) < 64 {
		h = strings.Repeat("0", 64-len(h)) + h
	}
	return h
}
