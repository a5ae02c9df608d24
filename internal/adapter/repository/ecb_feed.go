package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"ecb-rate-service/internal/adapter/ecbxml"
	"ecb-rate-service/internal/domain/model"
	"ecb-rate-service/internal/domain/ports"
	"ecb-rate-service/internal/metrics"
	"ecb-rate-service/pkg/logger"
)

// Version is stamped into the default User-Agent. Set at build time.
var Version = "dev"

const maxErrorBody = 64 << 10

// ECBFeed downloads and parses ECB reference rate documents, keeping parsed
// tables in the rate cache.
type ECBFeed struct {
	client     ports.HTTPDoer
	newRequest ports.RequestFactory
	cache      ports.RateCache
	userAgent  string
	log        *logger.Logger
	metrics    *metrics.Metrics
	inflight   singleflight.Group
}

type FeedOption func(*ECBFeed)

// WithUserAgent replaces the client token appended to the User-Agent header.
func WithUserAgent(ua string) FeedOption {
	return func(f *ECBFeed) { f.userAgent = ua }
}

// WithRequestFactory lets callers preset request headers, a custom
// User-Agent included.
func WithRequestFactory(rf ports.RequestFactory) FeedOption {
	return func(f *ECBFeed) {
		if rf != nil {
			f.newRequest = rf
		}
	}
}

func NewECBFeed(client ports.HTTPDoer, rateCache ports.RateCache, log *logger.Logger, m *metrics.Metrics, opts ...FeedOption) *ECBFeed {
	f := &ECBFeed{
		client:    client,
		cache:     rateCache,
		userAgent: "ecb-rate-service/" + Version,
		log:       log,
		metrics:   m,
		newRequest: func(ctx context.Context, method, url string) (*http.Request, error) {
			return http.NewRequestWithContext(ctx, method, url, nil)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the rate table published at url. A cached table is returned
// as is; otherwise the document is downloaded once, parsed and stored for ttl.
// Failures are never retried here.
func (f *ECBFeed) Fetch(ctx context.Context, url string, ttl time.Duration) (model.RateTable, error) {
	doc := documentLabel(url)

	table, found, err := f.cache.Get(ctx, url)
	if err != nil {
		f.log.Error("Rate cache lookup failed", "url", url, "error", err)
		return nil, err
	}
	if found {
		f.metrics.CacheLookupsTotal.WithLabelValues(doc, "hit").Inc()
		return table, nil
	}
	f.metrics.CacheLookupsTotal.WithLabelValues(doc, "miss").Inc()

	// The download is shared, so it must outlive any single caller. Each
	// caller still stops waiting when its own context ends.
	ch := f.inflight.DoChan(url, func() (any, error) {
		return f.download(context.WithoutCancel(ctx), url, ttl)
	})

	select {
	case <-ctx.Done():
		f.log.Warn("Stopped waiting for rate document", "url", url, "error", ctx.Err())
		return nil, fmt.Errorf("%w: %w", model.ErrTransportFailure, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			f.log.Debug("Joined in-flight download", "url", url)
		}
		return res.Val.(model.RateTable), nil
	}
}

func (f *ECBFeed) download(ctx context.Context, url string, ttl time.Duration) (model.RateTable, error) {
	doc := documentLabel(url)
	start := time.Now()
	defer func() {
		f.metrics.UpstreamFetchDuration.WithLabelValues(doc).Observe(time.Since(start).Seconds())
	}()

	f.log.Info("Fetching rate document", "url", url)

	req, err := f.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		f.metrics.UpstreamFetchesTotal.WithLabelValues(doc, "transport_error").Inc()
		return nil, fmt.Errorf("%w: failed to create request: %v", model.ErrTransportFailure, err)
	}
	req.Header.Set("User-Agent", joinUserAgent(req.Header.Get("User-Agent"), f.userAgent))

	resp, err := f.client.Do(req)
	if err != nil {
		f.metrics.UpstreamFetchesTotal.WithLabelValues(doc, "transport_error").Inc()
		f.log.Error("Rate document request failed", "url", url, "error", err)
		return nil, fmt.Errorf("%w: failed to send request: %v", model.ErrTransportFailure, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		f.metrics.UpstreamFetchesTotal.WithLabelValues(doc, "http_error").Inc()
		f.log.Error("Rate document returned non-OK status", "url", url, "status", resp.StatusCode)
		return nil, &model.HTTPFailureError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	table, err := ecbxml.Parse(resp.Body)
	if err != nil {
		f.metrics.UpstreamFetchesTotal.WithLabelValues(doc, "malformed").Inc()
		f.log.Error("Rate document could not be parsed", "url", url, "error", err)
		return nil, err
	}
	f.metrics.UpstreamFetchesTotal.WithLabelValues(doc, "ok").Inc()

	if err := f.cache.Set(ctx, url, table, ttl); err != nil {
		f.log.Error("Failed to cache rate document", "url", url, "error", err)
		return nil, err
	}

	f.log.Info("Rate document cached", "url", url, "days", len(table), "ttl", ttl)
	return table, nil
}

func joinUserAgent(existing, token string) string {
	existing = strings.TrimSpace(existing)
	switch {
	case token == "":
		return existing
	case existing == "":
		return token
	default:
		return existing + " " + token
	}
}

func documentLabel(url string) string {
	return path.Base(url)
}

var _ ports.RateRepository = (*ECBFeed)(nil)
