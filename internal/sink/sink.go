// Package sink implements the opaque downstream notification interface the
// bulk engine calls on each successful resolution (spec.md §4.8.6): a
// cache-hit counter, search indexer, or any other consumer uninterested in
// the resolver's internals. Building an actual search index is explicitly
// out of scope (spec.md §1's Non-goals) — this package only ships the
// logging no-op a deployment can swap out.
package sink

import (
	"context"

	"github.com/sirupsen/logrus"

	core "nsresolve/core"
)

// Logging is a BulkSink that logs each successful resolution at debug
// level and otherwise does nothing. Sink failures are swallowed by the
// bulk engine per spec.md §4.8.6, so Notify here never returns an error.
type Logging struct {
	Logger *logrus.Logger
}

var _ core.BulkSink = Logging{}

// NewLogging builds a Logging sink. A nil logger falls back to
// logrus.StandardLogger().
func NewLogging(logger *logrus.Logger) Logging {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return Logging{Logger: logger}
}

// Notify logs the resolved query/name pair.
func (s Logging) Notify(_ context.Context, query string, profile *core.Profile) {
	s.Logger.WithFields(logrus.Fields{
		"query": query,
		"name":  profile.Name,
	}).Debug("profile resolved")
}
