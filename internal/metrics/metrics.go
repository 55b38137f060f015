// Package metrics holds the process-wide atomic counter registry
// (spec.md §9: "no global mutability beyond a metrics counter registry
// (atomic increments)"). It intentionally carries no exporter — wiring
// these counters to Prometheus/StatsD/etc. is an external collaborator's
// job (spec.md §1).
package metrics

import "sync/atomic"

// Registry is a small set of process-wide resolution counters. The zero
// value is ready to use.
type Registry struct {
	Requests    atomic.Int64
	CacheHits   atomic.Int64
	CacheMisses atomic.Int64
	Errors      atomic.Int64
}

// Default is the process-wide registry instance; HTTP handlers increment
// it directly, and the assembler reaches it through its CacheObserver
// field.
var Default Registry

// CacheHit and CacheMiss satisfy core.CacheObserver, letting the
// assembler's cache read-through feed this registry without core
// importing this package.
func (r *Registry) CacheHit()  { r.CacheHits.Add(1) }
func (r *Registry) CacheMiss() { r.CacheMisses.Add(1) }

// Snapshot is a point-in-time, JSON-friendly read of the registry.
type Snapshot struct {
	Requests    int64 `json:"requests"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Errors      int64 `json:"errors"`
}

// Snapshot reads every counter without synchronizing across them —
// acceptable for an operational dashboard, not for exact accounting.
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{
		Requests:    r.Requests.Load(),
		CacheHits:   r.CacheHits.Load(),
		CacheMisses: r.CacheMisses.Load(),
		Errors:      r.Errors.Load(),
	}
}
