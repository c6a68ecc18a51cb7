// Package ledger reconciles overlapping provider feeds into one
// de-duplicated, chronologically ordered transaction ledger and reduces it
// into account statistics. Every function here is a pure transformation over
// in-memory collections; fetching and caching live elsewhere.
package ledger

import (
	"strings"

	"github.com/polyscope/insight-engine/internal/model"
	"github.com/polyscope/insight-engine/internal/raw"
)

// Classify determines whether a raw transaction record is a buy, a sell, or
// unclassifiable. Signals are evaluated in strict precedence order and the
// first match wins, so a record classifies identically no matter which of
// the providers' competing vocabularies happen to be present:
//
//  1. explicit side field ("BUY"/"B", "SELL"/"S")
//  2. type or action containing buy/bid vs sell/ask/redeem
//  3. boolean isBuy
//  4. makerSide containing "buy" (anything else is a sell)
//
// Unclassified records are kept; Summarize folds them into the buy side.
func Classify(rec raw.Record) model.Direction {
	switch strings.ToUpper(strings.TrimSpace(raw.String(rec, "side"))) {
	case "BUY", "B":
		return model.DirectionBuy
	case "SELL", "S":
		return model.DirectionSell
	}

	for _, key := range []string{"type", "action"} {
		v := strings.ToLower(raw.String(rec, key))
		if v == "" {
			continue
		}
		switch {
		case strings.Contains(v, "buy"), strings.Contains(v, "bid"):
			return model.DirectionBuy
		case strings.Contains(v, "sell"), strings.Contains(v, "ask"), strings.Contains(v, "redeem"):
			return model.DirectionSell
		}
	}

	if isBuy, ok := raw.Bool(rec, "isBuy"); ok {
		if isBuy {
			return model.DirectionBuy
		}
		return model.DirectionSell
	}

	if maker := raw.String(rec, "makerSide"); maker != "" {
		if strings.Contains(strings.ToLower(maker), "buy") {
			return model.DirectionBuy
		}
		return model.DirectionSell
	}

	return model.DirectionUnclassified
}
