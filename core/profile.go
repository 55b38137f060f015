package core

import (
	"context"
	"encoding/json"
	"time"
)

// LookupKind discriminates a LookupInfo between a name-keyed or
// address-keyed request (spec.md §4.7).
type LookupKind int

const (
	LookupName LookupKind = iota
	LookupAddress
)

// LookupInfo is the classified input to the profile assembler: either a
// name or an address, never both.
type LookupInfo struct {
	Kind    LookupKind
	Name    string
	Address Address
}

func LookupByName(name string) LookupInfo { return LookupInfo{Kind: LookupName, Name: NormalizeName(name)} }
func LookupByAddress(addr Address) LookupInfo {
	return LookupInfo{Kind: LookupAddress, Address: addr}
}

// Profile is the composed, JSON-serializable resolution result
// (spec.md §3).
type Profile struct {
	Name        string            `json:"name"`
	Address     *Address          `json:"address,omitempty"`
	Avatar      string            `json:"avatar,omitempty"`
	Header      string            `json:"header,omitempty"`
	Display     string            `json:"display"`
	Contenthash string            `json:"contenthash,omitempty"`
	Records     map[string]string `json:"records,omitempty"`
	Chains      map[string]string `json:"chains,omitempty"`
	Fresh       int64             `json:"fresh"`
	Resolver    Address           `json:"resolver"`
	Gateways    []string          `json:"gateways,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
}

// AssemblerConfig carries the deployment's configured default record
// sets (spec.md §6's PROFILE_RECORDS / MULTICOIN_CHAINS) and cache TTL.
type AssemblerConfig struct {
	ResolverAddress  Address
	TextKeys         []string
	CoinKeys         []CoinId
	ProfileCacheTTL  int
}

// Assembler orchestrates the universal resolver driver, record/media
// decoding, and cache read-through/write-through described across
// spec.md §4.7.
type Assembler struct {
	Transport Transport
	Cache     Cache
	Config    AssemblerConfig

	// Observer, if set, is notified of cache read-through outcomes.
	Observer CacheObserver
}

func (a *Assembler) observeHit() {
	if a.Observer != nil {
		a.Observer.CacheHit()
	}
}

func (a *Assembler) observeMiss() {
	if a.Observer != nil {
		a.Observer.CacheMiss()
	}
}

// Resolve implements spec.md §4.7 end to end.
func (a *Assembler) Resolve(ctx context.Context, lookup LookupInfo, fresh bool) (*Profile, error) {
	name := lookup.Name
	if lookup.Kind == LookupAddress {
		resolvedName, err := a.resolveReverseCached(ctx, lookup.Address, fresh)
		if err != nil {
			return nil, err
		}
		name = resolvedName
	}

	key := nameCacheKey(name)
	if !fresh {
		if cached, found, err := a.Cache.Get(ctx, key); err == nil && found {
			if cached == "" {
				a.observeHit()
				return nil, NotFound("negatively cached")
			}
			var p Profile
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				a.observeHit()
				return &p, nil
			}
		}
		a.observeMiss()
	}

	keys := buildRecordKeySet(a.Config.TextKeys, a.Config.CoinKeys)

	// ResolveUniversal performs its own ≤50-per-call chunking
	// internally (including re-chunking the forward-address shim), so
	// the full deduplicated key set is handed over in one call.
	batch, err := ResolveUniversal(ctx, a.Transport, a.Config.ResolverAddress, name, keys)
	if err != nil {
		if pe, ok := err.(*ProfileError); ok && pe.Kind == ErrNotFound {
			_ = a.Cache.Set(ctx, key, "", negativeCacheTTLSeconds)
		}
		return nil, err
	}
	raw := batch.Raw

	profile := &Profile{
		Name:     name,
		Display:  name,
		Fresh:    time.Now().UnixMilli(),
		Resolver: batch.Resolver,
		Gateways: dedupeStrings(batch.Gateways),
		Records:  map[string]string{},
		Chains:   map[string]string{},
		Errors:   map[string]string{},
	}

	for i, k := range keys {
		value, err := k.Decode(raw[i])
		if err != nil {
			profile.Errors[k.Name()] = err.Error()
			continue
		}

		switch k.Tag {
		case KeyAddr:
			if value == "" {
				continue
			}
			parsed, perr := ParseAddress(value)
			if perr != nil {
				profile.Errors[k.Name()] = perr.Error()
				continue
			}
			profile.Address = &parsed
		case KeyText:
			if value == "" {
				continue
			}
			if k.Text == "display" {
				if NormalizeName(value) == name {
					profile.Display = value
				}
				continue
			}
			profile.Records[k.Text] = value
		case KeyMulticoin:
			if value == "" {
				continue
			}
			profile.Chains[k.Coin.Name()] = value
		case KeyImage:
			if value == "" {
				continue
			}
			resolved, merr := ResolveMediaURI(ctx, a.Transport, value)
			if merr != nil {
				profile.Errors[k.Name()] = merr.Error()
				continue
			}
			if k.Text == "avatar" {
				profile.Avatar = resolved
			} else {
				profile.Header = resolved
			}
		case KeyContenthash:
			if value == "" {
				continue
			}
			profile.Contenthash = value
		}
	}

	ttl := a.Config.ProfileCacheTTL
	if ttl <= 0 {
		ttl = 600
	}
	if encoded, err := json.Marshal(profile); err == nil {
		_ = a.Cache.Set(ctx, key, string(encoded), ttl)
	}

	return profile, nil
}

// resolveReverseCached implements the "a:<address-debug-form>" keyspace
// of spec.md §3: a negative marker or the primary name, TTL 600s,
// fronting the reverse-resolution flow of ResolveReverse (spec.md §4.6).
func (a *Assembler) resolveReverseCached(ctx context.Context, addr Address, fresh bool) (string, error) {
	key := addressCacheKey(addr)
	if !fresh {
		if cached, found, err := a.Cache.Get(ctx, key); err == nil && found {
			a.observeHit()
			if cached == "" {
				return "", NotFound("address has no primary name (negatively cached)")
			}
			return cached, nil
		}
		a.observeMiss()
	}

	resolved, err := ResolveReverse(ctx, a.Transport, a.Config.ResolverAddress, addr)
	if err != nil {
		if pe, ok := err.(*ProfileError); ok && (pe.Kind == ErrNotFound || pe.Kind == ErrMissingPrimaryName || pe.Kind == ErrAddressMismatch) {
			_ = a.Cache.Set(ctx, key, "", negativeCacheTTLSeconds)
		}
		return "", err
	}

	name := NormalizeName(resolved)
	_ = a.Cache.Set(ctx, key, name, addressCacheTTLSeconds)
	return name, nil
}

// buildRecordKeySet builds the deterministic, deduplicated record-key
// set per spec.md §4.7 step 3.
func buildRecordKeySet(textKeys []string, coinKeys []CoinId) []RecordKey {
	keys := []RecordKey{AddrKey(), ImageKey("avatar"), ImageKey("header"), TextKey("display"), ContenthashKey()}
	seen := map[RecordKey]struct{}{}
	for _, k := range keys {
		seen[k] = struct{}{}
	}

	for _, t := range textKeys {
		k := TextKey(t)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for _, c := range coinKeys {
		k := MulticoinKey(c)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	return keys
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
