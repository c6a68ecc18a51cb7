package ledger

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polyscope/insight-engine/internal/model"
	"github.com/polyscope/insight-engine/internal/raw"
)

// Feed is one upstream source's view of an account's activity. Feeds are
// merged in the order given, which fixes the dedup tie-break: the activity
// feed is conventionally passed before the trades feed.
type Feed struct {
	Name    string
	Records []raw.Record
}

// Merge reconciles overlapping feeds into one ledger with no duplicate
// logical transactions. Two records are the same transaction when their
// identity keys match; the first-seen record wins. Records that carry no
// identity at all (no id, no transaction hash, no timestamp) are dropped as
// un-keyable. The result is sorted descending by normalized timestamp,
// unknown timestamps last, ties kept in arrival order.
func Merge(feeds ...Feed) []model.LedgerEntry {
	seen := make(map[string]struct{})
	entries := []model.LedgerEntry{}

	for _, feed := range feeds {
		for _, rec := range feed.Records {
			key := identity(rec)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			entries = append(entries, newEntry(rec, key, feed.Name))
		}
	}

	slices.SortStableFunc(entries, func(a, b model.LedgerEntry) int {
		return cmp.Compare(b.OccurredAtMs, a.OccurredAtMs)
	})
	return entries
}

// identity derives the dedup key from provider id, transaction hash, and
// raw timestamp. Empty if none of the three is present.
func identity(rec raw.Record) string {
	id := scalarString(rec["id"])
	hash := scalarString(rec["transactionHash"])
	ts := scalarString(rec["timestamp"])
	if ts == "" {
		ts = scalarString(rec["createdAt"])
	}
	if id == "" && hash == "" && ts == "" {
		return ""
	}
	return id + "-" + hash + "-" + ts
}

// scalarString renders a string or numeric field for key building.
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func newEntry(rec raw.Record, key, provenance string) model.LedgerEntry {
	amount, ok := raw.First(rec, "usdcSize", "value", "amount")
	if !ok {
		// Last resort: size × price, with price defaulting to 1.
		size := raw.Number(rec, decimal.Zero, "size")
		price := raw.Number(rec, decimal.NewFromInt(1), "price")
		amount = size.Mul(price)
	}

	market := raw.String(rec, "title", "marketSlug", "market", "question", "conditionId")
	if market == "" {
		market = "Unknown"
	}

	return model.LedgerEntry{
		Identity:       key,
		Direction:      Classify(rec),
		Market:         market,
		Outcome:        raw.String(rec, "outcome", "outcomeName"),
		Amount:         amount.Abs(),
		Price:          raw.Number(rec, decimal.Zero, "price"),
		RealizedProfit: raw.Number(rec, decimal.Zero, "profit", "pnl"),
		OccurredAtMs:   raw.MillisField(rec, "timestamp", "createdAt", "time"),
		Provenance:     provenance,
	}
}
