package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nsresolve/internal/metrics"
)

type contextKey int

const requestIDKey contextKey = iota

// RequestLogger assigns a request id and logs method/path/status/latency,
// matching the teacher's walletserver/middleware logging convention
// (structured logrus fields around each request) generalized with a
// request id, per spec.md's ambient-stack expansion.
func RequestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := uuid.NewString()
			ctx := context.WithValue(r.Context(), requestIDKey, id)

			metrics.Default.Requests.Add(1)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(ctx))

			logger.WithFields(logrus.Fields{
				"request_id": id,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     sw.status,
				"latency_ms": time.Since(start).Milliseconds(),
			}).Info("request handled")
		})
	}
}

// JSONHeaders sets the default JSON content type for every response;
// handlers that redirect or stream override it as needed.
func JSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func requestID(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
