package ledger

import (
	"testing"

	"github.com/polyscope/insight-engine/internal/model"
	"github.com/polyscope/insight-engine/internal/raw"
)

func TestClassify_SideField(t *testing.T) {
	tests := []struct {
		side string
		want model.Direction
	}{
		{"BUY", model.DirectionBuy},
		{"B", model.DirectionBuy},
		{"buy", model.DirectionBuy},
		{" SELL ", model.DirectionSell},
		{"S", model.DirectionSell},
		{"sell", model.DirectionSell},
	}
	for _, tt := range tests {
		got := Classify(raw.Record{"side": tt.side})
		if got != tt.want {
			t.Errorf("side=%q: expected %s, got %s", tt.side, tt.want, got)
		}
	}
}

func TestClassify_TypeAndAction(t *testing.T) {
	tests := []struct {
		rec  raw.Record
		want model.Direction
	}{
		{raw.Record{"type": "Buy"}, model.DirectionBuy},
		{raw.Record{"type": "limit-bid"}, model.DirectionBuy},
		{raw.Record{"type": "SELL"}, model.DirectionSell},
		{raw.Record{"type": "ask"}, model.DirectionSell},
		{raw.Record{"type": "REDEEM"}, model.DirectionSell},
		{raw.Record{"action": "buying yes"}, model.DirectionBuy},
		{raw.Record{"action": "redeem shares"}, model.DirectionSell},
	}
	for _, tt := range tests {
		if got := Classify(tt.rec); got != tt.want {
			t.Errorf("%v: expected %s, got %s", tt.rec, tt.want, got)
		}
	}
}

func TestClassify_IsBuyBoolean(t *testing.T) {
	if got := Classify(raw.Record{"isBuy": true}); got != model.DirectionBuy {
		t.Errorf("isBuy=true: expected buy, got %s", got)
	}
	if got := Classify(raw.Record{"isBuy": false}); got != model.DirectionSell {
		t.Errorf("isBuy=false: expected sell, got %s", got)
	}
}

func TestClassify_MakerSide(t *testing.T) {
	if got := Classify(raw.Record{"makerSide": "BUYER"}); got != model.DirectionBuy {
		t.Errorf("makerSide=BUYER: expected buy, got %s", got)
	}
	// Any maker side not mentioning buy is a sell.
	if got := Classify(raw.Record{"makerSide": "taker"}); got != model.DirectionSell {
		t.Errorf("makerSide=taker: expected sell, got %s", got)
	}
}

// Precedence: an explicit side beats every weaker signal, even when the
// weaker signals contradict it.
func TestClassify_PrecedenceOrder(t *testing.T) {
	rec := raw.Record{
		"side":      "SELL",
		"type":      "buy",
		"isBuy":     true,
		"makerSide": "buy",
	}
	if got := Classify(rec); got != model.DirectionSell {
		t.Errorf("expected side field to win precedence, got %s", got)
	}

	rec = raw.Record{"type": "buy", "isBuy": false}
	if got := Classify(rec); got != model.DirectionBuy {
		t.Errorf("expected type to beat isBuy, got %s", got)
	}

	rec = raw.Record{"isBuy": false, "makerSide": "buy"}
	if got := Classify(rec); got != model.DirectionSell {
		t.Errorf("expected isBuy to beat makerSide, got %s", got)
	}
}

func TestClassify_Unclassified(t *testing.T) {
	if got := Classify(raw.Record{"foo": "bar"}); got != model.DirectionUnclassified {
		t.Errorf("expected unclassified, got %s", got)
	}
	// type present but matching no vocabulary falls through, not sell.
	if got := Classify(raw.Record{"type": "transfer"}); got != model.DirectionUnclassified {
		t.Errorf("expected unclassified for unrecognized type, got %s", got)
	}
}

// Classification is a pure function: same record, same answer.
func TestClassify_Idempotent(t *testing.T) {
	rec := raw.Record{"action": "SELL to close", "isBuy": true}
	first := Classify(rec)
	second := Classify(rec)
	if first != second {
		t.Errorf("classification not idempotent: %s then %s", first, second)
	}
}
