package markets

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polyscope/insight-engine/internal/model"
	"github.com/polyscope/insight-engine/internal/raw"
)

var (
	hundred = decimal.NewFromInt(100)
	fifty   = decimal.NewFromInt(50)
	two     = decimal.NewFromInt(2)
)

// Analyze derives normalized yes/no prices and the pricing spread for one
// listing. Price sources are tried in order: the outcomePrices array, the
// last trade price (complement inferred), then the best bid/ask midpoint.
// When nothing resolves, both sides default to 50.
//
// spread = priceYes + priceNo − 100: positive is bookmaker-style friction,
// negative is an arbitrage signal (both sides underpriced).
func Analyze(listing raw.Record) model.MarketStat {
	priceYes, priceNo := derivePrices(listing)
	totalPrice := priceYes.Add(priceNo)

	title := raw.String(listing, "question", "title")
	if title == "" {
		title = "Unknown"
	}

	closed, _ := raw.Bool(listing, "closed")
	activeFlag, hasActive := raw.Bool(listing, "active")
	active := !closed && !(hasActive && !activeFlag)

	return model.MarketStat{
		ID:         firstScalar(listing, "id", "conditionId"),
		Slug:       raw.String(listing, "slug"),
		Title:      title,
		Category:   Categorize(listing),
		PriceYes:   priceYes.Round(1),
		PriceNo:    priceNo.Round(1),
		TotalPrice: totalPrice.Round(1),
		Spread:     totalPrice.Sub(hundred).Round(2),
		Liquidity:  raw.Number(listing, decimal.Zero, "liquidity"),
		Volume:     raw.Number(listing, decimal.Zero, "volume"),
		Volume24h:  raw.Number(listing, decimal.Zero, "volume24hr", "volume24h"),
		EndDate:    raw.String(listing, "endDate", "endDateIso"),
		Active:     active,
		Closed:     closed,
	}
}

func derivePrices(listing raw.Record) (yes, no decimal.Decimal) {
	if prices, ok := outcomePrices(listing["outcomePrices"]); ok {
		return asPercent(prices[0]), asPercent(prices[1])
	}

	if last, ok := raw.First(listing, "lastTradePrice"); ok && !last.IsZero() {
		yes = asPercent(last)
		return yes, hundred.Sub(yes)
	}

	bid, hasBid := raw.First(listing, "bestBid")
	ask, hasAsk := raw.First(listing, "bestAsk")
	if hasBid && hasAsk {
		yes = asPercent(bid.Add(ask).Div(two))
		return yes, hundred.Sub(yes)
	}

	return fifty, fifty
}

// outcomePrices accepts the array form, or the same array JSON-encoded into
// a string (both occur in the wild), and requires at least a yes and a no.
func outcomePrices(v any) ([]decimal.Decimal, bool) {
	values, ok := v.([]any)
	if !ok {
		s, isStr := v.(string)
		if !isStr || !strings.HasPrefix(strings.TrimSpace(s), "[") {
			return nil, false
		}
		dec := json.NewDecoder(strings.NewReader(s))
		dec.UseNumber()
		if err := dec.Decode(&values); err != nil {
			return nil, false
		}
	}
	if len(values) < 2 {
		return nil, false
	}

	out := make([]decimal.Decimal, 0, 2)
	for _, v := range values[:2] {
		d, ok := raw.AsNumber(v)
		if !ok {
			return nil, false
		}
		out = append(out, d)
	}
	return out, true
}

// asPercent maps a price to the [0,100] domain: values at or below 1 are
// unit prices and scale ×100, anything above is assumed already a percent.
func asPercent(d decimal.Decimal) decimal.Decimal {
	if d.LessThanOrEqual(decimal.NewFromInt(1)) {
		return d.Mul(hundred)
	}
	return d
}

// firstScalar renders the first present string or numeric field.
func firstScalar(rec raw.Record, keys ...string) string {
	for _, k := range keys {
		switch t := rec[k].(type) {
		case string:
			if t != "" {
				return t
			}
		case json.Number:
			return t.String()
		}
	}
	return ""
}
