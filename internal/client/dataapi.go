// Package client implements the black-box upstream collaborators: the
// account data feeds, the market catalog feed, and the token balance RPC.
//
// Every fetch degrades to an empty collection (or zero balance) on failure.
// The engine never sees an upstream error; a broken provider is visible only
// in logs and in the upstream request metrics.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/polyscope/insight-engine/internal/metrics"
	"github.com/polyscope/insight-engine/internal/raw"
)

// userAgent matches what the provider's public endpoints expect; requests
// without a browser-looking agent get rejected intermittently.
const userAgent = "Mozilla/5.0"

// DataAPI serves the positions, activity, and trades feeds for an account.
type DataAPI struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewDataAPI creates a data-feed client with client-side rate limiting.
func NewDataAPI(baseURL string, timeout time.Duration, rps int) *DataAPI {
	return &DataAPI{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// Positions returns the open-positions records for an account, or an empty
// slice on any failure.
func (c *DataAPI) Positions(ctx context.Context, address string) []raw.Record {
	q := url.Values{"user": {address}}
	return c.fetch(ctx, "positions", "/positions", q)
}

// Activity returns the account's activity feed, newest first.
func (c *DataAPI) Activity(ctx context.Context, address string, limit int) []raw.Record {
	q := url.Values{"user": {address}, "limit": {strconv.Itoa(limit)}}
	return c.fetch(ctx, "activity", "/activity", q)
}

// Trades returns the account's trades feed. Overlaps with Activity; the
// ledger merger is responsible for reconciling the two.
func (c *DataAPI) Trades(ctx context.Context, address string, limit int) []raw.Record {
	q := url.Values{"user": {address}, "limit": {strconv.Itoa(limit)}}
	return c.fetch(ctx, "trades", "/trades", q)
}

func (c *DataAPI) fetch(ctx context.Context, source, path string, q url.Values) []raw.Record {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	timer := time.Now()
	records, err := getJSONArray(ctx, c.httpClient, c.baseURL+path+"?"+q.Encode())
	metrics.UpstreamLatency.WithLabelValues(source).Observe(time.Since(timer).Seconds())

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(source, "error").Inc()
		slog.Warn("upstream fetch failed", "source", source, "err", err)
		return nil
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(source, "ok").Inc()
	return records
}

// getJSONArray performs a GET and decodes the body as a loose record array.
func getJSONArray(ctx context.Context, client *http.Client, rawURL string) ([]raw.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return raw.DecodeArray(resp.Body)
}
