package raw

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// --- DecodeArray tests ---

func TestDecodeArray_PreservesNumbers(t *testing.T) {
	recs, err := DecodeArray(strings.NewReader(`[{"size":"12.5","price":0.63}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if got := Number(recs[0], decimal.Zero, "size"); !got.Equal(d(12.5)) {
		t.Errorf("expected size=12.5, got %s", got)
	}
	if got := Number(recs[0], decimal.Zero, "price"); !got.Equal(d(0.63)) {
		t.Errorf("expected price=0.63, got %s", got)
	}
}

// --- Number fallback tests ---

func TestNumber_FallbackChain(t *testing.T) {
	rec := Record{"usdcSize": nil, "value": "", "amount": "42.5"}
	got := Number(rec, decimal.Zero, "usdcSize", "value", "amount")
	if !got.Equal(d(42.5)) {
		t.Errorf("expected fallback to amount=42.5, got %s", got)
	}
}

func TestNumber_ZeroIsPresent(t *testing.T) {
	// A parseable zero stops the chain; only absence falls through.
	rec := Record{"value": "0", "amount": "99"}
	got := Number(rec, decimal.Zero, "value", "amount")
	if !got.IsZero() {
		t.Errorf("expected 0 (zero is a valid number), got %s", got)
	}
}

func TestNumber_Default(t *testing.T) {
	rec := Record{"value": "not-a-number"}
	got := Number(rec, d(7), "value", "missing")
	if !got.Equal(d(7)) {
		t.Errorf("expected default 7, got %s", got)
	}
}

func TestAsNumber_Rejects(t *testing.T) {
	for _, v := range []any{nil, "", "  ", "abc", true, []any{}, Record{}} {
		if _, ok := AsNumber(v); ok {
			t.Errorf("expected %#v to be treated as absent", v)
		}
	}
}

// --- String/Bool tests ---

func TestString_FallbackChain(t *testing.T) {
	rec := Record{"title": "", "slug": "fed-cuts-rates"}
	if got := String(rec, "title", "slug"); got != "fed-cuts-rates" {
		t.Errorf("expected slug fallback, got %q", got)
	}
	if got := String(rec, "question"); got != "" {
		t.Errorf("expected empty for missing field, got %q", got)
	}
}

func TestBool(t *testing.T) {
	rec := Record{"isBuy": false}
	v, ok := Bool(rec, "isBuy")
	if !ok || v {
		t.Errorf("expected (false, true), got (%v, %v)", v, ok)
	}
	if _, ok := Bool(rec, "missing"); ok {
		t.Error("expected missing field to report !ok")
	}
}

// --- Millis tests ---

func TestMillis_ISOString(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if got := Millis("2024-01-01T00:00:00Z"); got != want {
		t.Errorf("expected %d, got %d", want, got)
	}
}

func TestMillis_EpochSeconds(t *testing.T) {
	// 10-digit value is seconds and gets scaled to milliseconds.
	if got := Millis(json.Number("1704067200")); got != 1704067200000 {
		t.Errorf("expected 1704067200000, got %d", got)
	}
}

func TestMillis_EpochMilliseconds(t *testing.T) {
	if got := Millis(json.Number("1704067200000")); got != 1704067200000 {
		t.Errorf("expected passthrough of milliseconds, got %d", got)
	}
}

func TestMillis_NumericString(t *testing.T) {
	if got := Millis("1704067200"); got != 1704067200000 {
		t.Errorf("expected 1704067200000, got %d", got)
	}
}

func TestMillis_YearOutOfRange(t *testing.T) {
	cases := []any{
		"1999-06-01T00:00:00Z",
		"2031-01-01T00:00:00Z",
		json.Number("100"), // 1970
	}
	for _, v := range cases {
		if got := Millis(v); got != 0 {
			t.Errorf("expected 0 for %v, got %d", v, got)
		}
	}
}

func TestMillis_Garbage(t *testing.T) {
	for _, v := range []any{nil, "", "soon", true} {
		if got := Millis(v); got != 0 {
			t.Errorf("expected 0 for %#v, got %d", v, got)
		}
	}
}

func TestMillisField_FallsBack(t *testing.T) {
	rec := Record{"timestamp": "garbage", "createdAt": "2024-03-05T12:00:00Z"}
	want := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC).UnixMilli()
	if got := MillisField(rec, "timestamp", "createdAt"); got != want {
		t.Errorf("expected createdAt fallback %d, got %d", want, got)
	}
}
