package core

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BulkResult is the discriminated per-item outcome of a bulk resolution
// (spec.md §4.8 step 5): either a resolved Profile or an error status.
type BulkResult struct {
	Query   string
	Profile *Profile
	Status  int
	Err     string
}

// BulkSink receives opaque success notifications (cache-hit counters,
// downstream indexers); sink failures are swallowed (spec.md §4.8.6).
type BulkSink interface {
	Notify(ctx context.Context, query string, profile *Profile)
}

// BulkEngine dedupes, caps, classifies, and fans out a batch of
// name-or-address queries across the assembler.
type BulkEngine struct {
	Assembler   *Assembler
	MaxBulkSize int
	Sink        BulkSink
}

// Resolve implements spec.md §4.8 end to end.
func (e *BulkEngine) Resolve(ctx context.Context, queries []string, fresh bool) ([]BulkResult, error) {
	deduped := dedupePreservingOrder(queries)

	maxSize := e.MaxBulkSize
	if maxSize <= 0 {
		maxSize = 10
	}
	if len(deduped) > maxSize {
		return nil, MaxLengthExceeded(maxSize)
	}

	results := make([]BulkResult, len(deduped))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range deduped {
		i, q := i, q
		g.Go(func() error {
			results[i] = e.resolveOne(gctx, q, fresh)
			return nil
		})
	}
	// Every resolveOne call recovers its own errors into BulkResult, so
	// g.Wait() never actually returns a non-nil error; it just joins.
	_ = g.Wait()

	return results, nil
}

func (e *BulkEngine) resolveOne(ctx context.Context, query string, fresh bool) BulkResult {
	lowered := NormalizeName(query)

	var lookup LookupInfo
	switch {
	case LooksLikeAddress(query):
		addr, err := ParseAddress(query)
		if err != nil {
			return errResult(query, NameParseError("malformed address"))
		}
		lookup = LookupByAddress(addr)
	case IsValidName(lowered):
		lookup = LookupByName(lowered)
	default:
		return errResult(query, NotFound("query is neither an address nor a recognized name"))
	}

	profile, err := e.Assembler.Resolve(ctx, lookup, fresh)
	if err != nil {
		return errResult(query, err)
	}

	if e.Sink != nil {
		e.Sink.Notify(ctx, query, profile)
	}

	return BulkResult{Query: query, Profile: profile}
}

func errResult(query string, err error) BulkResult {
	status := 500
	if pe, ok := err.(*ProfileError); ok {
		status = pe.Status()
	}
	return BulkResult{Query: query, Status: status, Err: err.Error()}
}

// dedupePreservingOrder lowercases every input and removes duplicates,
// keeping the first occurrence's position (spec.md §4.8.1).
func dedupePreservingOrder(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		lowered := NormalizeName(s)
		if _, dup := seen[lowered]; dup {
			continue
		}
		seen[lowered] = struct{}{}
		out = append(out, lowered)
	}
	return out
}
