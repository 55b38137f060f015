package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	core "nsresolve/core"
)

// resolveOne classifies and resolves a single bulk/SSE query string into
// the same success/error shape the bulk engine produces, independent of
// the errgroup-based fan-out BulkEngine.Resolve uses (the SSE surface
// streams items as they complete rather than collecting them all first).
func resolveOne(ctx context.Context, assembler *core.Assembler, query string, fresh bool) bulkItemResponse {
	lookup, err := classify("u", query)
	if err != nil {
		pe := err.(*core.ProfileError)
		return bulkItemResponse{Type: "error", Status: pe.Status(), Error: pe.Error()}
	}

	profile, err := assembler.Resolve(ctx, lookup, fresh)
	if err != nil {
		status := http.StatusInternalServerError
		if pe, ok := err.(*core.ProfileError); ok {
			status = pe.Status()
		}
		return bulkItemResponse{Type: "error", Status: status, Error: err.Error()}
	}
	return bulkItemResponse{Type: "success", Profile: profile}
}

// sseKeepaliveInterval is how often a comment-only keepalive frame is sent
// on an otherwise idle SSE connection, so intermediary proxies don't time
// out the stream (spec.md §9, pulled forward from the original's worker
// routes SSE keepalive behavior).
const sseKeepaliveInterval = 15 * time.Second

type sseEvent struct {
	Query    string `json:"query"`
	Response any    `json:"response"`
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, event sseEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}

// sseQueries reads the query list for the stream: GET uses the same
// names[]/addresses[]/queries[] query-string convention as /bulk; POST
// accepts a JSON body {"queries": [...]}.
func sseQueries(kind string, r *http.Request) ([]string, error) {
	if r.Method == http.MethodPost {
		var body struct {
			Queries []string `json:"queries"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, err
		}
		return body.Queries, nil
	}
	return bulkQueries(kind, r), nil
}

// SSEHandler serves GET and POST /sse/{n|u}: a text/event-stream of
// per-item resolution results as they complete, with a periodic keepalive
// comment frame (spec.md §5's streaming surface, §6's wire contract).
func (a *App) SSEHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := mux.Vars(r)["kind"]
		queries, err := sseQueries(kind, r)
		if err != nil {
			writeError(w, r, core.NameParseError("invalid request body"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, r, core.ImplementationError("streaming unsupported by this response writer", nil))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ctx := r.Context()
		fresh := isFresh(r)

		type itemResult struct {
			query string
			item  bulkItemResponse
		}
		results := make(chan itemResult)

		go func() {
			defer close(results)
			var wg sync.WaitGroup
			for _, q := range queries {
				q := q
				wg.Add(1)
				go func() {
					defer wg.Done()
					results <- itemResult{query: q, item: resolveOne(ctx, a.Assembler, q, fresh)}
				}()
			}
			wg.Wait()
		}()

		keepalive := time.NewTicker(sseKeepaliveInterval)
		defer keepalive.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case res, open := <-results:
				if !open {
					return
				}
				writeSSEEvent(w, flusher, sseEvent{Query: res.query, Response: res.item})
			case <-keepalive.C:
				fmt.Fprint(w, ": keepalive\n\n")
				flusher.Flush()
			}
		}
	}
}
