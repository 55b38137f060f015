// Command resolverserver runs the hosted name/address profile resolver's
// HTTP surface (spec.md §6), wiring the Resolution Core to a JSON-RPC/
// CCIP-Read transport pool and a Redis (or pass-through) cache.
package main

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	core "nsresolve/core"
	"nsresolve/httpapi"
	"nsresolve/internal/config"
	"nsresolve/internal/metrics"
	"nsresolve/internal/sink"
	"nsresolve/pkg/httpfetch"
	"nsresolve/pkg/rediscache"
	"nsresolve/pkg/transport"
	"nsresolve/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		logrus.WithError(err).Fatal("failed to build zap logger")
	}
	defer zapLogger.Sync()

	cache, err := buildCache(cfg, zapLogger)
	if err != nil {
		logrus.WithError(err).Fatal("failed to build cache")
	}

	fetcher := httpfetch.New(cfg.OpenSeaAPIKey, zapLogger)
	core.IPFSGatewayBase = cfg.IPFSGateway
	core.ArweaveBase = cfg.ArweaveGateway

	rpcPool := transport.New(cfg.RPCURLs, fetcher, 10*time.Second, zapLogger)

	assembler := &core.Assembler{
		Transport: rpcPool,
		Cache:     cache,
		Config: core.AssemblerConfig{
			ResolverAddress: cfg.UniversalResolver,
			TextKeys:        cfg.ProfileTextKeys,
			CoinKeys:        cfg.ProfileCoinKeys,
			ProfileCacheTTL: cfg.ProfileCacheTTL,
		},
		Observer: &metrics.Default,
	}

	bulkEngine := &core.BulkEngine{
		Assembler:   assembler,
		MaxBulkSize: cfg.MaxBulkSize,
		Sink:        sink.NewLogging(nil),
	}

	app := &httpapi.App{Assembler: assembler, Bulk: bulkEngine}
	router := httpapi.NewRouter(app, logrus.StandardLogger())

	addr := utils.EnvOrDefault("RESOLVER_ADDR", ":8090")
	logrus.WithField("addr", addr).Info("resolver server listening")
	if err := http.ListenAndServe(addr, router); err != nil {
		logrus.WithError(err).Fatal("resolver server stopped")
	}
}

func buildCache(cfg config.Config, logger *zap.Logger) (core.Cache, error) {
	if cfg.RedisURL == "" {
		return rediscache.Noop{}, nil
	}
	return rediscache.New(cfg.RedisURL, logger)
}
