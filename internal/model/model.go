// Package model defines the core domain types shared across the insight engine.
// All monetary values use shopspring/decimal — never float64 for money.
package model

import (
	"github.com/shopspring/decimal"
)

// Direction classifies the economic direction of a transaction.
type Direction string

const (
	DirectionBuy          Direction = "buy"
	DirectionSell         Direction = "sell"
	DirectionUnclassified Direction = "unknown"
)

// LedgerEntry is one reconciled transaction in an account's history.
// Entries are immutable once constructed; Amount is always the absolute
// currency magnitude, with the sign carried by Direction.
type LedgerEntry struct {
	Identity       string          `json:"-"` // dedup key, never displayed
	Direction      Direction       `json:"type"`
	Market         string          `json:"market"`
	Outcome        string          `json:"outcome,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Price          decimal.Decimal `json:"price"`
	RealizedProfit decimal.Decimal `json:"profit"`
	OccurredAtMs   int64           `json:"timestamp_ms"`
	Provenance     string          `json:"source"` // upstream feed name
}

// HistorySummary aggregates the reconciled ledger in one pass.
// An empty ledger yields all-zero counters and nil dates, never an error.
type HistorySummary struct {
	BuyCount            int             `json:"buy_count"`
	SellCount           int             `json:"sell_count"`
	TotalBuyVolume      decimal.Decimal `json:"total_buy_volume"`
	TotalSellVolume     decimal.Decimal `json:"total_sell_volume"`
	TotalVolume         decimal.Decimal `json:"total_volume"`
	RealizedPnL         decimal.Decimal `json:"realized_pnl"`
	MarketsParticipated int             `json:"markets_participated"`
	ActiveDays          int             `json:"active_days"`
	FirstTradeDate      *string         `json:"first_trade_date"` // ISO-8601
	LastTradeDate       *string         `json:"last_trade_date"`  // ISO-8601
}

// PortfolioSummary aggregates the open-positions list.
type PortfolioSummary struct {
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
	UnrealizedPnL  decimal.Decimal `json:"unrealized_pnl"`
	Winning        int             `json:"winning_positions"`
	Losing         int             `json:"losing_positions"`
	Neutral        int             `json:"neutral_positions"`
	WinRate        int             `json:"win_rate"` // percent, 0 when no decided positions
}

// MarketStat is one analyzed catalog listing: derived prices, spread, and
// the category assigned by the keyword classifier.
type MarketStat struct {
	ID         string          `json:"id"`
	Slug       string          `json:"slug"`
	Title      string          `json:"title"`
	Category   string          `json:"category"`
	PriceYes   decimal.Decimal `json:"price_yes"`   // percent, one decimal
	PriceNo    decimal.Decimal `json:"price_no"`    // percent, one decimal
	TotalPrice decimal.Decimal `json:"total_price"` // percent, one decimal
	Spread     decimal.Decimal `json:"spread"`      // percent, two decimals
	Liquidity  decimal.Decimal `json:"liquidity"`
	Volume     decimal.Decimal `json:"volume"`
	Volume24h  decimal.Decimal `json:"volume_24h"`
	EndDate    string          `json:"end_date,omitempty"`
	Active     bool            `json:"active"`
	Closed     bool            `json:"closed"`
}

// CategoryStat accumulates catalog totals for one category label.
type CategoryStat struct {
	Count     int             `json:"count"`
	Volume    decimal.Decimal `json:"volume"`
	Volume24h decimal.Decimal `json:"volume_24h"`
	Liquidity decimal.Decimal `json:"liquidity"`
}

// CatalogSummary is the catalog-wide view over the analyzed listings.
type CatalogSummary struct {
	TotalMarkets   int                     `json:"total_markets"`
	ActiveMarkets  int                     `json:"active_markets"`
	TotalVolume    decimal.Decimal         `json:"total_volume"`
	Volume24h      decimal.Decimal         `json:"volume_24h"`
	TotalLiquidity decimal.Decimal         `json:"total_liquidity"` // active listings only
	AvgSpread      decimal.Decimal         `json:"avg_spread"`      // mean |spread| over active
	Categories     map[string]CategoryStat `json:"categories"`
	SpreadBuckets  map[string]int          `json:"spread_buckets"`
}

// AccountStats is the flat stats block of an account lookup, combining the
// balance source with the history and portfolio aggregations.
type AccountStats struct {
	USDCBalance   decimal.Decimal `json:"usdc_balance"`
	PositionCount int             `json:"position_count"`
	TotalTrades   int             `json:"total_trades"`
	PortfolioSummary
	HistorySummary
}
