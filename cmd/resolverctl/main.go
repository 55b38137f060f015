// Command resolverctl is a cobra CLI for resolving a single name/address
// or a bulk batch without standing up the HTTP server — useful for
// smoke-testing a deployment and for scripting (SPEC_FULL.md §2's
// ambient CLI tooling addition), mirroring the teacher's cmd/synnergy
// root-command/subcommand wiring.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	core "nsresolve/core"
	"nsresolve/internal/config"
	"nsresolve/pkg/httpfetch"
	"nsresolve/pkg/rediscache"
	"nsresolve/pkg/transport"
)

func main() {
	rootCmd := &cobra.Command{Use: "resolverctl"}
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(bulkCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildAssembler() (*core.Assembler, *core.BulkEngine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := zap.NewNop()
	fetcher := httpfetch.New(cfg.OpenSeaAPIKey, logger)
	core.IPFSGatewayBase = cfg.IPFSGateway
	core.ArweaveBase = cfg.ArweaveGateway
	rpcPool := transport.New(cfg.RPCURLs, fetcher, 10*time.Second, logger)

	var cache core.Cache = rediscache.Noop{}
	if cfg.RedisURL != "" {
		cache, err = rediscache.New(cfg.RedisURL, logger)
		if err != nil {
			return nil, nil, err
		}
	}

	assembler := &core.Assembler{
		Transport: rpcPool,
		Cache:     cache,
		Config: core.AssemblerConfig{
			ResolverAddress: cfg.UniversalResolver,
			TextKeys:        cfg.ProfileTextKeys,
			CoinKeys:        cfg.ProfileCoinKeys,
			ProfileCacheTTL: cfg.ProfileCacheTTL,
		},
	}
	bulk := &core.BulkEngine{Assembler: assembler, MaxBulkSize: cfg.MaxBulkSize}
	return assembler, bulk, nil
}

func resolveCmd() *cobra.Command {
	var fresh bool
	cmd := &cobra.Command{
		Use:   "resolve [name-or-address]",
		Short: "resolve a single name or address to a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assembler, _, err := buildAssembler()
			if err != nil {
				return err
			}

			lookup, err := classifyQuery(args[0])
			if err != nil {
				return err
			}

			profile, err := assembler.Resolve(cmd.Context(), lookup, fresh)
			if err != nil {
				return err
			}
			return printJSON(profile)
		},
	}
	cmd.Flags().BoolVar(&fresh, "fresh", false, "bypass the cache read")
	return cmd
}

func bulkCmd() *cobra.Command {
	var fresh bool
	cmd := &cobra.Command{
		Use:   "bulk [name-or-address...]",
		Short: "resolve a batch of names/addresses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, bulk, err := buildAssembler()
			if err != nil {
				return err
			}

			results, err := bulk.Resolve(cmd.Context(), args, fresh)
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}
	cmd.Flags().BoolVar(&fresh, "fresh", false, "bypass the cache read")
	return cmd
}

func classifyQuery(raw string) (core.LookupInfo, error) {
	if core.LooksLikeAddress(raw) {
		addr, err := core.ParseAddress(raw)
		if err != nil {
			return core.LookupInfo{}, err
		}
		return core.LookupByAddress(addr), nil
	}
	name := core.NormalizeName(raw)
	if !core.IsValidName(name) {
		return core.LookupInfo{}, core.NameParseError("query is neither an address nor a recognized name")
	}
	return core.LookupByName(name), nil
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
