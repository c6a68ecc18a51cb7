package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polyscope/insight-engine/internal/model"
)

// Summarize reduces a reconciled ledger into summary counters in one pass.
// Unclassified entries with a positive amount count toward the buy side.
// Realized P&L is summed over sells only. An empty ledger yields zero
// counters and nil dates.
func Summarize(entries []model.LedgerEntry) model.HistorySummary {
	s := model.HistorySummary{
		TotalBuyVolume:  decimal.Zero,
		TotalSellVolume: decimal.Zero,
		TotalVolume:     decimal.Zero,
		RealizedPnL:     decimal.Zero,
	}

	markets := make(map[string]struct{})
	days := make(map[string]struct{})
	var firstMs, lastMs int64

	for _, e := range entries {
		switch {
		case e.Direction == model.DirectionBuy:
			s.BuyCount++
			s.TotalBuyVolume = s.TotalBuyVolume.Add(e.Amount)
		case e.Direction == model.DirectionSell:
			s.SellCount++
			s.TotalSellVolume = s.TotalSellVolume.Add(e.Amount)
			s.RealizedPnL = s.RealizedPnL.Add(e.RealizedProfit)
		case e.Amount.IsPositive():
			s.BuyCount++
			s.TotalBuyVolume = s.TotalBuyVolume.Add(e.Amount)
		}

		if e.Market != "" && e.Market != "Unknown" {
			markets[e.Market] = struct{}{}
		}

		if e.OccurredAtMs != 0 {
			t := time.UnixMilli(e.OccurredAtMs).UTC()
			days[t.Format("2006-01-02")] = struct{}{}
			if firstMs == 0 || e.OccurredAtMs < firstMs {
				firstMs = e.OccurredAtMs
			}
			if e.OccurredAtMs > lastMs {
				lastMs = e.OccurredAtMs
			}
		}
	}

	s.TotalVolume = s.TotalBuyVolume.Add(s.TotalSellVolume)
	s.MarketsParticipated = len(markets)
	s.ActiveDays = len(days)
	s.FirstTradeDate = isoDate(firstMs)
	s.LastTradeDate = isoDate(lastMs)
	return s
}

func isoDate(ms int64) *string {
	if ms == 0 {
		return nil
	}
	iso := time.UnixMilli(ms).UTC().Format(time.RFC3339)
	return &iso
}
