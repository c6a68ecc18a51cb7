// Package raw reads loosely-typed provider records.
//
// Upstream feeds disagree on field names and types: numbers arrive as JSON
// numbers or strings, timestamps as ISO strings, epoch seconds, or epoch
// milliseconds. Every accessor takes an ordered list of candidate field
// names and falls back through them, so absence is always representable as
// a caller-supplied default and never an error.
package raw

import (
	"encoding/json"
	"io"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one untyped provider payload object. Fields are probed, never
// assumed present.
type Record map[string]any

// DecodeArray parses a JSON array of objects, preserving numeric precision
// via json.Number. A JSON value that is not an array decodes to nil.
func DecodeArray(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var out []Record
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Number returns the first of keys that parses to a finite number, else def.
// null, empty strings, and non-numeric strings count as absent, not zero,
// so fallback chaining works.
func Number(rec Record, def decimal.Decimal, keys ...string) decimal.Decimal {
	for _, k := range keys {
		if d, ok := AsNumber(rec[k]); ok {
			return d
		}
	}
	return def
}

// First is Number without a default: it reports whether any of keys held a
// parseable number, so callers can chain onto a computed fallback.
func First(rec Record, keys ...string) (decimal.Decimal, bool) {
	for _, k := range keys {
		if d, ok := AsNumber(rec[k]); ok {
			return d, true
		}
	}
	return decimal.Decimal{}, false
}

// AsNumber coerces a single value to a finite decimal.
func AsNumber(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

// String returns the first of keys holding a non-empty string, else "".
func String(rec Record, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Bool returns the value of key if it is a boolean.
func Bool(rec Record, key string) (value, ok bool) {
	b, ok := rec[key].(bool)
	return b, ok
}

// Timestamps outside this calendar window are treated as corrupt provider
// data and mapped to the unknown sentinel.
const (
	minYear = 2020
	maxYear = 2030
)

// millisThreshold separates epoch seconds from epoch milliseconds: a value
// above 1e12 is already milliseconds, anything smaller is seconds.
var millisThreshold = decimal.NewFromInt(1_000_000_000_000)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Millis normalizes a timestamp-like value to epoch milliseconds, or 0 if
// it cannot be parsed or falls outside the sane calendar range.
func Millis(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return clampMillis(parsed.UnixMilli())
			}
		}
		// Numeric string: fall through to the epoch rule.
		if d, err := decimal.NewFromString(s); err == nil {
			return epochMillis(d)
		}
		return 0
	default:
		if d, ok := AsNumber(v); ok {
			return epochMillis(d)
		}
		return 0
	}
}

// MillisField normalizes the first present timestamp field among keys.
func MillisField(rec Record, keys ...string) int64 {
	for _, k := range keys {
		if v, present := rec[k]; present && v != nil {
			if ms := Millis(v); ms != 0 {
				return ms
			}
		}
	}
	return 0
}

func epochMillis(d decimal.Decimal) int64 {
	if d.GreaterThan(millisThreshold) {
		return clampMillis(d.IntPart())
	}
	return clampMillis(d.Mul(decimal.NewFromInt(1000)).IntPart())
}

func clampMillis(ms int64) int64 {
	year := time.UnixMilli(ms).UTC().Year()
	if year < minYear || year > maxYear {
		return 0
	}
	return ms
}
