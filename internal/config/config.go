// Package config loads the resolver's environment-variable configuration
// (spec.md §6), matching the teacher's lightweight walletserver/config
// loader (godotenv.Load + os.Getenv-with-defaults) rather than the
// heavier YAML/viper loader used for full-node configuration — this
// service's entire configuration surface is the enumerated env vars
// below, so the simple loader is the better fit.
package config

import (
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	core "nsresolve/core"
	"nsresolve/pkg/utils"
)

// Config is the fully resolved runtime configuration for the resolver
// service: transport endpoints, the universal resolver contract, default
// record sets, and cache/bulk tuning knobs (spec.md §6).
type Config struct {
	RPCURLs           []string
	UniversalResolver core.Address
	OpenSeaAPIKey     string
	IPFSGateway       string
	ArweaveGateway    string
	ProfileTextKeys   []string
	ProfileCoinKeys   []core.CoinId
	MaxBulkSize       int
	ProfileCacheTTL   int
	RedisURL          string
}

// defaultTextKeys is spec.md's GLOSSARY "Default text records" list.
var defaultTextKeys = []string{
	"url", "name", "mail", "email", "avatar", "header", "display", "location",
	"timezone", "language", "pronouns", "com.github", "org.matrix", "io.keybase",
	"description", "com.twitter", "com.discord", "social.bsky", "org.telegram",
	"social.mastodon", "network.dm3.profile", "network.dm3.deliveryService",
}

// defaultCoinKeys is spec.md's GLOSSARY "Default coin set", SLIP-44 coins
// followed by the ENSIP-11 EVM chain set.
var defaultCoinKeys = []core.CoinId{
	core.CoinTezos, core.CoinHedera, core.CoinMonero, core.CoinRipple, core.CoinSolana,
	core.CoinCardano, core.CoinStellar, core.CoinBitcoin, core.CoinBinance, core.CoinLitecoin,
	core.CoinDogecoin, core.CoinEthereumSlip44, core.CoinMonacoin, core.CoinPolkadot,
	core.CoinRootstock, core.CoinBitcoinCash, core.CoinEthereumClassic,
	core.ChainEthereum, core.ChainPolygon, core.ChainOptimism, core.ChainArbitrum,
	core.ChainGnosis, core.ChainBSC, core.ChainAvalanche, core.ChainFantom,
	core.ChainCelo, core.ChainMoonbeam,
}

// Load reads a .env file (if present; its absence is not an error — this
// service runs equally well from a container's injected environment) and
// builds a Config from the variables spec.md §6 enumerates.
func Load() (Config, error) {
	_ = godotenv.Load()

	rpcURLs := splitCSV(utils.EnvOrDefault("RPC_URL", ""))
	resolverHex := utils.EnvOrDefault("UNIVERSAL_RESOLVER", "")
	resolverAddr, err := core.ParseAddress(resolverHex)
	if err != nil {
		return Config{}, utils.Wrap(err, "parsing UNIVERSAL_RESOLVER")
	}

	cfg := Config{
		RPCURLs:           rpcURLs,
		UniversalResolver: resolverAddr,
		OpenSeaAPIKey:     utils.EnvOrDefault("OPENSEA_API_KEY", ""),
		IPFSGateway:       utils.EnvOrDefault("IPFS_GATEWAY", "https://ipfs.io/ipfs/"),
		ArweaveGateway:    utils.EnvOrDefault("AR_GATEWAY", "https://arweave.net/"),
		MaxBulkSize:       utils.EnvOrDefaultInt("MAX_BULK_SIZE", 10),
		ProfileCacheTTL:   utils.EnvOrDefaultInt("PROFILE_CACHE_TTL", 600),
		RedisURL:          utils.EnvOrDefault("REDIS_URL", ""),
	}

	if raw := utils.EnvOrDefault("PROFILE_RECORDS", ""); raw != "" {
		cfg.ProfileTextKeys = splitCSV(raw)
	} else {
		cfg.ProfileTextKeys = defaultTextKeys
	}

	if raw := utils.EnvOrDefault("MULTICOIN_CHAINS", ""); raw != "" {
		keys, err := parseCoinCSV(raw)
		if err != nil {
			return Config{}, utils.Wrap(err, "parsing MULTICOIN_CHAINS")
		}
		cfg.ProfileCoinKeys = keys
	} else {
		cfg.ProfileCoinKeys = defaultCoinKeys
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseCoinCSV(s string) ([]core.CoinId, error) {
	parts := splitCSV(s)
	out := make([]core.CoinId, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, core.ParseCoinID(n))
	}
	return out, nil
}
