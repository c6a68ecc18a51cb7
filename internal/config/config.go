// Package config loads the engine configuration from the environment.
// Every tunable the design leaves open (materiality threshold, spread
// buckets, scan ceilings, endpoint lists) lives here rather than as a
// constant buried in engine code.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/polyscope/insight-engine/internal/markets"
)

// Config is the full service configuration, processed once at startup.
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Upstream UpstreamConfig `envconfig:"UPSTREAM"`
	Engine   EngineConfig   `envconfig:"ENGINE"`
	Cache    CacheConfig    `envconfig:"CACHE"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// UpstreamConfig points at the black-box data providers.
type UpstreamConfig struct {
	DataAPIURL  string        `envconfig:"DATA_API_URL" default:"https://data-api.polymarket.com"`
	GammaAPIURL string        `envconfig:"GAMMA_API_URL" default:"https://gamma-api.polymarket.com"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	RateLimit   int           `envconfig:"RATE_LIMIT" default:"10"` // requests/second per client

	// Redundant JSON-RPC endpoints tried in order per balance query.
	RPCEndpoints []string `envconfig:"RPC_ENDPOINTS" default:"https://polygon-rpc.com,https://rpc.ankr.com/polygon,https://polygon.llamarpc.com"`
	// Token contracts whose balances are summed: USDC.e and native USDC.
	TokenContracts []string `envconfig:"TOKEN_CONTRACTS" default:"0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174,0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"`
	// Decimal places of the token denomination (USDC has 6).
	TokenDecimals int32 `envconfig:"TOKEN_DECIMALS" default:"6"`

	HistoryLimit    int `envconfig:"HISTORY_LIMIT" default:"1000"`    // per activity/trades fetch
	PageSize        int `envconfig:"PAGE_SIZE" default:"100"`         // catalog pagination
	OpenScanLimit   int `envconfig:"OPEN_SCAN_LIMIT" default:"2000"`  // open-market offset ceiling
	ClosedScanLimit int `envconfig:"CLOSED_SCAN_LIMIT" default:"300"` // top closed markets by volume
}

// EngineConfig holds the pure-engine tunables.
type EngineConfig struct {
	// Relative P&L magnitude below which a position is neutral.
	Materiality float64 `envconfig:"MATERIALITY" default:"0.01"`

	// Spread histogram boundaries in percentage points.
	SpreadArbitrageBelow float64 `envconfig:"SPREAD_ARBITRAGE_BELOW" default:"-0.1"`
	SpreadNearZeroBelow  float64 `envconfig:"SPREAD_NEAR_ZERO_BELOW" default:"1"`
	SpreadLowBelow       float64 `envconfig:"SPREAD_LOW_BELOW" default:"3"`
	SpreadMidBelow       float64 `envconfig:"SPREAD_MID_BELOW" default:"7"`

	// Response caps on the echoed collections.
	PositionsLimit int `envconfig:"POSITIONS_LIMIT" default:"50"`
	HistoryLimit   int `envconfig:"HISTORY_LIMIT" default:"100"`
}

// CacheConfig controls the optional Redis snapshot cache.
type CacheConfig struct {
	RedisURL   string        `envconfig:"REDIS_URL"`
	AccountTTL time.Duration `envconfig:"ACCOUNT_TTL" default:"30s"`
	CatalogTTL time.Duration `envconfig:"CATALOG_TTL" default:"5m"`
}

// Load processes the environment under the INSIGHT prefix.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("insight", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MaterialityThreshold returns the configured ε as a decimal.
func (e EngineConfig) MaterialityThreshold() decimal.Decimal {
	return decimal.NewFromFloat(e.Materiality)
}

// SpreadBuckets returns the configured histogram boundaries.
func (e EngineConfig) SpreadBuckets() markets.SpreadBuckets {
	return markets.SpreadBuckets{
		Arbitrage: decimal.NewFromFloat(e.SpreadArbitrageBelow),
		NearZero:  decimal.NewFromFloat(e.SpreadNearZeroBelow),
		Low:       decimal.NewFromFloat(e.SpreadLowBelow),
		Mid:       decimal.NewFromFloat(e.SpreadMidBelow),
	}
}
