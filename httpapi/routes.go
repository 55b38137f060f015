package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter configures the HTTP surface of spec.md §6, matching the
// teacher's cmd/xchainserver/server.NewRouter convention: a mux.Router
// with logging/JSON middleware and one route per verb/path pair.
func NewRouter(app *App, logger *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(logger))
	r.Use(JSONHeaders)

	r.HandleFunc("/n/{name}", app.ResolveHandler("n")).Methods(http.MethodGet)
	r.HandleFunc("/a/{address}", app.ResolveHandler("a")).Methods(http.MethodGet)
	r.HandleFunc("/u/{name}", app.ResolveHandler("u")).Methods(http.MethodGet)

	r.HandleFunc("/i/{query}", app.MediaRedirectHandler("avatar")).Methods(http.MethodGet)
	r.HandleFunc("/h/{query}", app.MediaRedirectHandler("header")).Methods(http.MethodGet)

	r.HandleFunc("/bulk/{kind:n|a|u}", app.BulkHandler()).Methods(http.MethodGet)

	r.HandleFunc("/sse/{kind:n|u}", app.SSEHandler()).Methods(http.MethodGet, http.MethodPost)

	r.HandleFunc("/debug/metrics", app.MetricsHandler()).Methods(http.MethodGet)

	return r
}
