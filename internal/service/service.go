// Package service exposes the insight engine over HTTP: the account lookup
// endpoint and the market catalog endpoint. Handlers fetch provider
// snapshots through the source interfaces, run the pure engine packages
// over them, and serialize the summaries.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/polyscope/insight-engine/internal/cache"
	"github.com/polyscope/insight-engine/internal/config"
	"github.com/polyscope/insight-engine/internal/ledger"
	"github.com/polyscope/insight-engine/internal/markets"
	"github.com/polyscope/insight-engine/internal/metrics"
	"github.com/polyscope/insight-engine/internal/model"
	"github.com/polyscope/insight-engine/internal/raw"
)

// AccountSource returns the account-scoped feeds. Implementations degrade
// to empty collections on failure, never an error.
type AccountSource interface {
	Positions(ctx context.Context, address string) []raw.Record
	Activity(ctx context.Context, address string, limit int) []raw.Record
	Trades(ctx context.Context, address string, limit int) []raw.Record
}

// BalanceSource returns a non-negative token balance, zero on failure.
type BalanceSource interface {
	Balance(ctx context.Context, address string) decimal.Decimal
}

// CatalogSource returns the market listings snapshot, empty on failure.
type CatalogSource interface {
	Listings(ctx context.Context) []raw.Record
}

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Service handles the insight endpoints.
type Service struct {
	accounts  AccountSource
	balances  BalanceSource
	catalog   CatalogSource
	snapshots cache.Snapshots
	cfg       *config.Config
}

// NewService wires the sources, the snapshot cache, and the configuration.
func NewService(accounts AccountSource, balances BalanceSource, catalog CatalogSource, snapshots cache.Snapshots, cfg *config.Config) *Service {
	return &Service{
		accounts:  accounts,
		balances:  balances,
		catalog:   catalog,
		snapshots: snapshots,
		cfg:       cfg,
	}
}

// --- Response types ---

// AccountResponse is the JSON body of GET /api/v1/accounts/{address}.
type AccountResponse struct {
	Success    bool                `json:"success"`
	SnapshotID string              `json:"snapshot_id"`
	Address    string              `json:"address"`
	Stats      model.AccountStats  `json:"stats"`
	Positions  []raw.Record        `json:"positions"`
	History    []model.LedgerEntry `json:"history"`
}

// CatalogResponse is the JSON body of GET /api/v1/markets.
type CatalogResponse struct {
	Success    bool                 `json:"success"`
	SnapshotID string               `json:"snapshot_id"`
	Count      int                  `json:"count"`
	Stats      model.CatalogSummary `json:"stats"`
	Markets    []model.MarketStat   `json:"markets"`
}

// --- HTTP Handlers ---

// GetAccount handles GET /api/v1/accounts/{address}.
// Fetches the provider snapshot concurrently, reconciles the ledger, and
// returns the full stats block; any upstream failure shows up only as
// zeroed statistics, never as an error response.
func (s *Service) GetAccount(w http.ResponseWriter, r *http.Request) {
	address := strings.ToLower(chi.URLParam(r, "address"))
	if !addressPattern.MatchString(address) {
		metrics.LookupsTotal.WithLabelValues("invalid_address").Inc()
		writeError(w, "invalid address", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	cacheKey := "account:" + address
	if payload, ok := s.snapshots.Get(ctx, cacheKey); ok {
		metrics.CacheHits.WithLabelValues("account").Inc()
		writeRaw(w, payload)
		return
	}
	metrics.CacheMisses.WithLabelValues("account").Inc()

	var (
		positions []raw.Record
		activity  []raw.Record
		trades    []raw.Record
		balance   decimal.Decimal
	)

	// One snapshot, fetched concurrently. Sources cannot fail.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { positions = s.accounts.Positions(gctx, address); return nil })
	g.Go(func() error { activity = s.accounts.Activity(gctx, address, s.cfg.Upstream.HistoryLimit); return nil })
	g.Go(func() error { trades = s.accounts.Trades(gctx, address, s.cfg.Upstream.HistoryLimit); return nil })
	g.Go(func() error { balance = s.balances.Balance(gctx, address); return nil })
	_ = g.Wait()

	// Activity before trades: the merge order is the dedup tie-break.
	entries := ledger.Merge(
		ledger.Feed{Name: "activity", Records: activity},
		ledger.Feed{Name: "trades", Records: trades},
	)
	historyStats := ledger.Summarize(entries)
	positionStats := ledger.AggregatePositions(positions, s.cfg.Engine.MaterialityThreshold())

	resp := AccountResponse{
		Success:    true,
		SnapshotID: uuid.New().String(),
		Address:    address,
		Stats: model.AccountStats{
			USDCBalance:      balance,
			PositionCount:    len(positions),
			TotalTrades:      len(entries),
			PortfolioSummary: positionStats,
			HistorySummary:   historyStats,
		},
		Positions: capRecords(positions, s.cfg.Engine.PositionsLimit),
		History:   capEntries(entries, s.cfg.Engine.HistoryLimit),
	}

	metrics.LookupsTotal.WithLabelValues("ok").Inc()
	slog.Info("account lookup",
		"address", address,
		"positions", len(positions),
		"trades", len(entries),
		"active_days", historyStats.ActiveDays,
	)

	s.respondAndCache(ctx, w, cacheKey, s.cfg.Cache.AccountTTL, resp)
}

// GetCatalog handles GET /api/v1/markets.
// Scans the listings source, classifies and prices every listing, and
// returns the catalog plus its summary statistics.
func (s *Service) GetCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	const cacheKey = "catalog"
	if payload, ok := s.snapshots.Get(ctx, cacheKey); ok {
		metrics.CacheHits.WithLabelValues("catalog").Inc()
		writeRaw(w, payload)
		return
	}
	metrics.CacheMisses.WithLabelValues("catalog").Inc()

	listings := s.catalog.Listings(ctx)
	stats := markets.AnalyzeAll(listings)
	summary := markets.Summarize(stats, s.cfg.Engine.SpreadBuckets())

	resp := CatalogResponse{
		Success:    true,
		SnapshotID: uuid.New().String(),
		Count:      len(stats),
		Stats:      summary,
		Markets:    stats,
	}

	slog.Info("catalog summarized",
		"listings", len(listings),
		"valid", len(stats),
		"active", summary.ActiveMarkets,
	)

	s.respondAndCache(ctx, w, cacheKey, s.cfg.Cache.CatalogTTL, resp)
}

// --- Helpers ---

func (s *Service) respondAndCache(ctx context.Context, w http.ResponseWriter, key string, ttl time.Duration, resp any) {
	payload, err := json.Marshal(resp)
	if err != nil {
		writeError(w, "failed to serialize response", http.StatusInternalServerError)
		return
	}
	s.snapshots.Set(ctx, key, payload, ttl)
	writeRaw(w, payload)
}

func capRecords(records []raw.Record, limit int) []raw.Record {
	if records == nil {
		return []raw.Record{}
	}
	if len(records) > limit {
		return records[:limit]
	}
	return records
}

func capEntries(entries []model.LedgerEntry, limit int) []model.LedgerEntry {
	if entries == nil {
		return []model.LedgerEntry{}
	}
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

func writeRaw(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message})
}
