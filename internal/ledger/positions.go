package ledger

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/polyscope/insight-engine/internal/model"
	"github.com/polyscope/insight-engine/internal/raw"
)

// DefaultMateriality is the relative P&L magnitude below which a position is
// neither a win nor a loss. Source revisions disagree between 1% and 2%; the
// engine settles on 1% and leaves it tunable through configuration.
var DefaultMateriality = decimal.NewFromFloat(0.01)

// AggregatePositions reduces the open-positions list into portfolio
// valuation and win/loss/neutral counts.
//
// Per position: current value prefers the provider's explicit field, else
// size × current price; invested prefers explicit cost fields, else
// size × average entry price. Positions with zero invested amount are
// excluded from win/loss/neutral counting (no denominator). The win rate is
// winning/(winning+losing) as a rounded percentage, defined as 0 when no
// position is decided.
func AggregatePositions(positions []raw.Record, epsilon decimal.Decimal) model.PortfolioSummary {
	s := model.PortfolioSummary{
		PortfolioValue: decimal.Zero,
		InvestedAmount: decimal.Zero,
		UnrealizedPnL:  decimal.Zero,
	}

	for _, p := range positions {
		size := raw.Number(p, decimal.Zero, "size")

		current, ok := raw.First(p, "currentValue")
		if !ok {
			current = size.Mul(raw.Number(p, decimal.Zero, "price", "currentPrice"))
		}
		initial, ok := raw.First(p, "initialValue", "cost")
		if !ok {
			initial = size.Mul(raw.Number(p, decimal.Zero, "avgPrice", "averagePrice"))
		}

		s.PortfolioValue = s.PortfolioValue.Add(current)
		s.InvestedAmount = s.InvestedAmount.Add(initial)

		if !initial.IsPositive() {
			continue
		}
		pnlPct := current.Sub(initial).Div(initial)
		switch {
		case pnlPct.GreaterThan(epsilon):
			s.Winning++
		case pnlPct.LessThan(epsilon.Neg()):
			s.Losing++
		default:
			s.Neutral++
		}
	}

	s.UnrealizedPnL = s.PortfolioValue.Sub(s.InvestedAmount)

	if decided := s.Winning + s.Losing; decided > 0 {
		s.WinRate = int(math.Round(float64(s.Winning) / float64(decided) * 100))
	}
	return s
}
