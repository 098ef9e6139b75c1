// Package naverland fetches raw commercial listings from the Naver Land mobile article API.
package naverland

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/landscan/internal/domain"
	"github.com/kailas-cloud/landscan/internal/domain/listing"
	logpkg "github.com/kailas-cloud/landscan/internal/logger"
	"github.com/kailas-cloud/landscan/internal/metrics"
)

// Defaults for the public endpoint.
const (
	DefaultBaseURL   = "https://m.land.naver.com/cluster/ajax/articleList"
	DefaultReferer   = "https://m.land.naver.com/"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultTimeout   = 15 * time.Second

	acceptHeader = "application/json, text/plain, */*"
)

var (
	errMissingBody = errors.New("response has no body array")
	errEmptyURL    = errors.New("base url is required")
)

// Config holds the listing service client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Referer   string
	// Delay and RandomDelay pace the requests of one search: after every
	// request the next one waits Delay + rand[0, RandomDelay).
	Delay              time.Duration
	RandomDelay        time.Duration
	InsecureSkipVerify bool
	Logger             *zap.Logger
}

// Client issues GET requests against the article list endpoint.
// Requests are paced only within a search, through the Pacer carried by the context.
type Client struct {
	collector   *colly.Collector
	baseURL     *url.URL
	referer     string
	delay       time.Duration
	randomDelay time.Duration
	logger      *zap.Logger
}

// NewClient creates a listing service client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errEmptyURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Hostname() == "" {
		return nil, fmt.Errorf("base url %q has no host", cfg.BaseURL)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	referer := cfg.Referer
	if referer == "" {
		referer = DefaultReferer
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(
		colly.AllowedDomains(base.Hostname()),
		colly.AllowURLRevisit(),
		colly.UserAgent(userAgent),
	)
	// Non-2xx responses reach OnResponse; fetch classifies the status itself.
	c.ParseHTTPErrorResponse = true
	c.SetRequestTimeout(timeout)

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// The upstream certificate chain does not verify; trust is accepted explicitly via config.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // upstream chain is unverifiable
	}
	c.WithTransport(transport)

	return &Client{
		collector:   c,
		baseURL:     base,
		referer:     referer,
		delay:       cfg.Delay,
		randomDelay: cfg.RandomDelay,
		logger:      logger,
	}, nil
}

// NewSession returns ctx carrying a fresh Pacer. Every search starts its own
// session so that pacing never couples concurrent searches.
func (c *Client) NewSession(ctx context.Context) context.Context {
	return ContextWithPacer(ctx, NewPacer(c.delay, c.randomDelay))
}

// response is the envelope of the article list endpoint.
type response struct {
	Body json.RawMessage `json:"body"`
}

// fetch performs one request and decodes the body array. A Pacer in ctx delays
// the request after the previous one; a done ctx aborts the wait.
func (c *Client) fetch(ctx context.Context, strategy string, page int, params url.Values) ([]listing.Raw, error) {
	if pacer := pacerFromContext(ctx); pacer != nil {
		if err := pacer.Wait(ctx); err != nil {
			return nil, domain.NewFetchError(strategy, page, 0, err)
		}
		defer pacer.Done()
	} else if err := ctx.Err(); err != nil {
		return nil, domain.NewFetchError(strategy, page, 0, err)
	}

	target := *c.baseURL
	target.RawQuery = params.Encode()

	collector := c.collector.Clone()
	collector.Context = ctx

	var (
		status int
		body   []byte
	)
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Referer", c.referer)
		r.Headers.Set("Accept", acceptHeader)
	})
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	collector.OnError(func(r *colly.Response, _ error) {
		status = r.StatusCode
	})

	start := time.Now()
	visitErr := collector.Visit(target.String())
	metrics.UpstreamRequestDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())

	if visitErr == nil {
		visitErr = ctx.Err()
	}
	if visitErr != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(strategy, "error").Inc()
		return nil, domain.NewFetchError(strategy, page, status, visitErr)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		metrics.UpstreamRequestsTotal.WithLabelValues(strategy, "error").Inc()
		return nil, domain.NewFetchError(strategy, page, status, errors.New(http.StatusText(status)))
	}

	raws, err := decodeBody(body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(strategy, "error").Inc()
		return nil, domain.NewFetchError(strategy, page, status, err)
	}

	if len(raws) == 0 {
		metrics.UpstreamRequestsTotal.WithLabelValues(strategy, "empty").Inc()
	} else {
		metrics.UpstreamRequestsTotal.WithLabelValues(strategy, "ok").Inc()
	}
	logpkg.FromContextOr(ctx, c.logger).Debug("listing page fetched",
		zap.String("strategy", strategy),
		zap.Int("page", page),
		zap.Int("articles", len(raws)),
		zap.Duration("duration", time.Since(start)),
	)
	return raws, nil
}

func decodeBody(b []byte) ([]listing.Raw, error) {
	var resp response
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errMissingBody
	}
	var raws []listing.Raw
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return raws, nil
}

// HealthCheck verifies the endpoint answers. Any response below 500 counts as reachable.
// The check is not paced.
func (c *Client) HealthCheck(ctx context.Context) error {
	collector := c.collector.Clone()
	collector.Context = ctx

	var status int
	collector.OnResponse(func(r *colly.Response) { status = r.StatusCode })
	collector.OnError(func(r *colly.Response, _ error) { status = r.StatusCode })

	err := collector.Head(c.baseURL.String())
	if status > 0 && status < http.StatusInternalServerError {
		return nil
	}
	if err != nil {
		return fmt.Errorf("head %s: %w", c.baseURL.Host, err)
	}
	return fmt.Errorf("head %s: status %d", c.baseURL.Host, status)
}
