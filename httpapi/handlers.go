package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"nsresolve/internal/metrics"

	core "nsresolve/core"
)

// App wires the Resolution Core into the HTTP surface (spec.md §6): a
// profile assembler for single lookups and the /sse surface, and a bulk
// engine (which carries the max-bulk-size cap) for the /bulk surface.
type App struct {
	Assembler *core.Assembler
	Bulk      *core.BulkEngine
}

// errorResponse is spec.md §7's user-visible failure shape.
type errorResponse struct {
	Status uint16 `json:"status"`
	Error  string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if pe, ok := err.(*core.ProfileError); ok {
		status = pe.Status()
	}
	metrics.Default.Errors.Add(1)
	w.Header().Set("X-Request-Id", requestID(r))
	writeJSON(w, status, errorResponse{Status: uint16(status), Error: err.Error()})
}

func isFresh(r *http.Request) bool {
	fresh, _ := strconv.ParseBool(r.URL.Query().Get("fresh"))
	return fresh
}

// classify turns a raw path segment into a LookupInfo the way the bulk
// engine's per-item classifier does (spec.md §4.8.3), for the single-item
// /n, /a, and /u routes.
func classify(kind, raw string) (core.LookupInfo, error) {
	switch kind {
	case "n":
		name := core.NormalizeName(raw)
		if !core.IsValidName(name) {
			return core.LookupInfo{}, core.NameParseError("not a recognized name")
		}
		return core.LookupByName(name), nil
	case "a":
		addr, err := core.ParseAddress(raw)
		if err != nil {
			return core.LookupInfo{}, core.NameParseError("not a parseable address")
		}
		return core.LookupByAddress(addr), nil
	default: // "u": auto-classify
		if core.LooksLikeAddress(raw) {
			addr, err := core.ParseAddress(raw)
			if err != nil {
				return core.LookupInfo{}, core.NameParseError("not a parseable address")
			}
			return core.LookupByAddress(addr), nil
		}
		name := core.NormalizeName(raw)
		if !core.IsValidName(name) {
			return core.LookupInfo{}, core.NameParseError("query is neither an address nor a recognized name")
		}
		return core.LookupByName(name), nil
	}
}

// ResolveHandler serves GET /n/{name}, /a/{address}, and /u/{name_or_address}.
func (a *App) ResolveHandler(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := mux.Vars(r)[routeParam(kind)]
		lookup, err := classify(kind, raw)
		if err != nil {
			writeError(w, r, err)
			return
		}

		profile, err := a.Assembler.Resolve(r.Context(), lookup, isFresh(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func routeParam(kind string) string {
	if kind == "a" {
		return "address"
	}
	return "name"
}

// MediaRedirectHandler serves GET /i/{query} and /h/{query}: 302-redirects
// to the resolved avatar or header URL (field selects which).
func (a *App) MediaRedirectHandler(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := mux.Vars(r)["query"]
		lookup, err := classify("u", raw)
		if err != nil {
			writeError(w, r, err)
			return
		}

		profile, err := a.Assembler.Resolve(r.Context(), lookup, isFresh(r))
		if err != nil {
			writeError(w, r, err)
			return
		}

		target := profile.Avatar
		if field == "header" {
			target = profile.Header
		}
		if target == "" {
			writeError(w, r, core.NotFound(field+" not set"))
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// bulkItemResponse is one element of the /bulk response array (spec.md §6):
// {type: "success", ...profile fields} or {type: "error", status, error}.
// MarshalJSON flattens the success case so the profile's own fields sit
// alongside "type" rather than nested under a "profile" key.
type bulkItemResponse struct {
	Type    string
	Profile *core.Profile
	Status  int
	Error   string
}

func (b bulkItemResponse) MarshalJSON() ([]byte, error) {
	if b.Type == "success" {
		encoded, err := json.Marshal(b.Profile)
		if err != nil {
			return nil, err
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(encoded, &fields); err != nil {
			return nil, err
		}
		fields["type"], _ = json.Marshal(b.Type)
		return json.Marshal(fields)
	}
	return json.Marshal(struct {
		Type   string `json:"type"`
		Status int    `json:"status"`
		Error  string `json:"error"`
	}{Type: b.Type, Status: b.Status, Error: b.Error})
}

type bulkResponse struct {
	ResponseLength int                `json:"response_length"`
	Response       []bulkItemResponse `json:"response"`
}

// bulkQueries extracts the query list for the given kind from the request
// query string: "names[]"/"addresses[]"/"queries[]" for n/a/u respectively.
func bulkQueries(kind string, r *http.Request) []string {
	key := map[string]string{"n": "names[]", "a": "addresses[]", "u": "queries[]"}[kind]
	return r.URL.Query()[key]
}

func toBulkItem(res core.BulkResult) bulkItemResponse {
	if res.Profile != nil {
		return bulkItemResponse{Type: "success", Profile: res.Profile}
	}
	return bulkItemResponse{Type: "error", Status: res.Status, Error: res.Err}
}

// MetricsHandler serves GET /debug/metrics: a snapshot of the request/
// cache/error counters, the way the teacher's dexserver exposes
// core.Manager().Snapshot() over /api/pools.
func (a *App) MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Default.Snapshot())
	}
}

// BulkHandler serves GET /bulk/{n|a|u}.
func (a *App) BulkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := mux.Vars(r)["kind"]
		queries := bulkQueries(kind, r)

		results, err := a.Bulk.Resolve(r.Context(), queries, isFresh(r))
		if err != nil {
			writeError(w, r, err)
			return
		}

		items := make([]bulkItemResponse, len(results))
		for i, res := range results {
			items[i] = toBulkItem(res)
		}
		writeJSON(w, http.StatusOK, bulkResponse{ResponseLength: len(items), Response: items})
	}
}
