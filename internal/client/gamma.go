package client

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/polyscope/insight-engine/internal/metrics"
	"github.com/polyscope/insight-engine/internal/raw"
)

// GammaAPI serves the market catalog feed.
type GammaAPI struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	pageSize    int
	openLimit   int // offset ceiling for the open-markets scan
	closedLimit int // offset ceiling for the top-closed-by-volume scan
}

// NewGammaAPI creates a catalog client. The scan ceilings bound how much of
// the catalog one summary considers.
func NewGammaAPI(baseURL string, timeout time.Duration, rps, pageSize, openLimit, closedLimit int) *GammaAPI {
	return &GammaAPI{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(rps), rps),
		pageSize:    pageSize,
		openLimit:   openLimit,
		closedLimit: closedLimit,
	}
}

// Listings pages through the catalog: all open markets up to the open scan
// ceiling, then the top closed markets by volume. Each scan stops at a short
// page or a failed fetch, so a flaky upstream yields a partial (possibly
// empty) catalog rather than an error.
func (c *GammaAPI) Listings(ctx context.Context) []raw.Record {
	listings := c.scan(ctx, c.openLimit, url.Values{"closed": {"false"}})

	closedParams := url.Values{
		"closed":    {"true"},
		"order":     {"volume"},
		"ascending": {"false"},
	}
	listings = append(listings, c.scan(ctx, c.closedLimit, closedParams)...)

	metrics.CatalogListingsScanned.Set(float64(len(listings)))
	return listings
}

func (c *GammaAPI) scan(ctx context.Context, offsetLimit int, params url.Values) []raw.Record {
	var out []raw.Record
	for offset := 0; offset < offsetLimit; offset += c.pageSize {
		page := c.page(ctx, offset, params)
		if len(page) == 0 {
			break
		}
		out = append(out, page...)
		if len(page) < c.pageSize {
			break
		}
	}
	return out
}

func (c *GammaAPI) page(ctx context.Context, offset int, params url.Values) []raw.Record {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	q := url.Values{
		"limit":  {strconv.Itoa(c.pageSize)},
		"offset": {strconv.Itoa(offset)},
	}
	for k, vs := range params {
		q[k] = vs
	}

	timer := time.Now()
	records, err := getJSONArray(ctx, c.httpClient, c.baseURL+"/markets?"+q.Encode())
	metrics.UpstreamLatency.WithLabelValues("markets").Observe(time.Since(timer).Seconds())

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("markets", "error").Inc()
		slog.Warn("catalog page fetch failed", "offset", offset, "err", err)
		return nil
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("markets", "ok").Inc()
	return records
}
