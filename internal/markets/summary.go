package markets

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/polyscope/insight-engine/internal/model"
	"github.com/polyscope/insight-engine/internal/raw"
)

// SpreadBuckets holds the histogram boundaries, in spread percentage
// points. Tunable parameters, not hard constants.
type SpreadBuckets struct {
	Arbitrage decimal.Decimal // below this: both sides underpriced
	NearZero  decimal.Decimal
	Low       decimal.Decimal
	Mid       decimal.Decimal
}

// DefaultSpreadBuckets: <−0.1 arbitrage, [−0.1,1) near-zero, [1,3) low,
// [3,7) mid, ≥7 high.
func DefaultSpreadBuckets() SpreadBuckets {
	return SpreadBuckets{
		Arbitrage: decimal.NewFromFloat(-0.1),
		NearZero:  decimal.NewFromInt(1),
		Low:       decimal.NewFromInt(3),
		Mid:       decimal.NewFromInt(7),
	}
}

func (b SpreadBuckets) label(spread decimal.Decimal) string {
	switch {
	case spread.LessThan(b.Arbitrage):
		return "arbitrage"
	case spread.LessThan(b.NearZero):
		return "near_zero"
	case spread.LessThan(b.Low):
		return "low"
	case spread.LessThan(b.Mid):
		return "mid"
	default:
		return "high"
	}
}

// bucketNames in histogram order.
var bucketNames = []string{"arbitrage", "near_zero", "low", "mid", "high"}

// AnalyzeAll analyzes every listing, drops those without a usable title,
// and sorts by 24h volume descending.
func AnalyzeAll(listings []raw.Record) []model.MarketStat {
	stats := make([]model.MarketStat, 0, len(listings))
	for _, listing := range listings {
		stat := Analyze(listing)
		if stat.Title == "Unknown" {
			continue
		}
		stats = append(stats, stat)
	}
	slices.SortStableFunc(stats, func(a, b model.MarketStat) int {
		return b.Volume24h.Cmp(a.Volume24h)
	})
	return stats
}

// Summarize computes the catalog-wide statistics over analyzed listings.
// Liquidity, average spread, and the spread histogram only consider active
// listings; counts and volumes cover everything. Empty input yields a fully
// populated zero summary.
func Summarize(stats []model.MarketStat, buckets SpreadBuckets) model.CatalogSummary {
	s := model.CatalogSummary{
		TotalMarkets:   len(stats),
		TotalVolume:    decimal.Zero,
		Volume24h:      decimal.Zero,
		TotalLiquidity: decimal.Zero,
		AvgSpread:      decimal.Zero,
		Categories:     make(map[string]model.CategoryStat, len(categories)+1),
		SpreadBuckets:  make(map[string]int, len(bucketNames)),
	}
	for _, name := range CategoryNames() {
		s.Categories[name] = model.CategoryStat{
			Volume:    decimal.Zero,
			Volume24h: decimal.Zero,
			Liquidity: decimal.Zero,
		}
	}
	for _, name := range bucketNames {
		s.SpreadBuckets[name] = 0
	}

	absSpreadSum := decimal.Zero
	for _, m := range stats {
		s.TotalVolume = s.TotalVolume.Add(m.Volume)
		s.Volume24h = s.Volume24h.Add(m.Volume24h)

		cat := s.Categories[m.Category]
		cat.Count++
		cat.Volume = cat.Volume.Add(m.Volume)
		cat.Volume24h = cat.Volume24h.Add(m.Volume24h)
		cat.Liquidity = cat.Liquidity.Add(m.Liquidity)
		s.Categories[m.Category] = cat

		if !m.Active {
			continue
		}
		s.ActiveMarkets++
		s.TotalLiquidity = s.TotalLiquidity.Add(m.Liquidity)
		absSpreadSum = absSpreadSum.Add(m.Spread.Abs())
		s.SpreadBuckets[buckets.label(m.Spread)]++
	}

	if s.ActiveMarkets > 0 {
		s.AvgSpread = absSpreadSum.Div(decimal.NewFromInt(int64(s.ActiveMarkets))).Round(2)
	}
	return s
}
