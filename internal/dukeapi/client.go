// Package dukeapi implements HTTP clients for Duke University's public data
// APIs: the events calendar at calendar.duke.edu and the curriculum and
// directory endpoints behind streamer.oit.duke.edu.
//
// All requests go through a shared Client that retries transient failures
// with full-jitter backoff, dedupes identical in-flight GETs, and rotates
// the User-Agent header. Non-200 responses surface as *apperrors.APIError so
// callers can branch on the status code.
package dukeapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/corpix/uarand"
	"golang.org/x/sync/singleflight"

	"github.com/dukebot/dukebot-go/internal/config"
	apperrors "github.com/dukebot/dukebot-go/internal/errors"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/metrics"
)

// Endpoint bases. Overridable for tests.
const (
	DefaultCalendarBaseURL = "https://calendar.duke.edu"
	DefaultStreamerBaseURL = "https://streamer.oit.duke.edu"
)

// Client is the shared HTTP client for all Duke API endpoints.
type Client struct {
	httpClient      *http.Client
	calendarBaseURL string
	streamerBaseURL string
	token           string
	maxRetries      int
	group           singleflight.Group
	metrics         *metrics.Metrics
	log             *logger.Logger
}

// Options configures a Client. Zero values fall back to production defaults.
type Options struct {
	CalendarBaseURL string
	StreamerBaseURL string
	Token           string
	Timeout         time.Duration
	MaxRetries      int
	Metrics         *metrics.Metrics
	Logger          *logger.Logger
}

// NewClient creates a Client for the Duke APIs.
func NewClient(opts Options) *Client {
	if opts.CalendarBaseURL == "" {
		opts.CalendarBaseURL = DefaultCalendarBaseURL
	}
	if opts.StreamerBaseURL == "" {
		opts.StreamerBaseURL = DefaultStreamerBaseURL
	}
	if opts.Token == "" {
		opts.Token = config.DefaultDukeAPIToken
	}
	if opts.Timeout <= 0 {
		opts.Timeout = config.APIRequest
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		calendarBaseURL: strings.TrimSuffix(opts.CalendarBaseURL, "/"),
		streamerBaseURL: strings.TrimSuffix(opts.StreamerBaseURL, "/"),
		token:           opts.Token,
		maxRetries:      opts.MaxRetries,
		metrics:         opts.Metrics,
		log:             opts.Logger,
	}
}

// get fetches url and returns the response body. Identical URLs requested
// concurrently share one round trip. 4xx responses are permanent, everything
// else retries with backoff.
func (c *Client) get(ctx context.Context, endpoint, url string) ([]byte, error) {
	body, err, shared := c.group.Do(url, func() (any, error) {
		return c.fetch(ctx, endpoint, url)
	})
	if shared && c.metrics != nil {
		c.metrics.RecordSingleflightDedup(endpoint)
	}
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

func (c *Client) fetch(ctx context.Context, endpoint, url string) ([]byte, error) {
	start := time.Now()
	var body []byte

	err := retryWithBackoff(ctx, c.maxRetries, config.APIRetryInitial, config.APIRetryMax, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", uarand.GetRandom())
		req.Header.Set("Accept", "application/json,text/*;q=0.9,*/*;q=0.8")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			// Drain so the connection can be reused
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			apiErr := apperrors.NewAPIError(url, resp.StatusCode, nil)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return permanent(apiErr)
			}
			return apiErr
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		return nil
	})

	if c.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		c.metrics.RecordAPIRequest(endpoint, status, time.Since(start).Seconds())
	}
	if err != nil {
		if c.log != nil {
			c.log.WithError(err).WithField("url", url).Warn("Duke API request failed")
		}
		return nil, err
	}
	return body, nil
}

// GetRaw fetches an arbitrary URL through the client's retry and dedupe
// machinery. Used by the reference data collector for pages outside the
// calendar and streamer APIs.
func (c *Client) GetRaw(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, "raw", url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// escape percent-encodes s with no characters treated as safe beyond the
// RFC 3986 unreserved set. Spaces become %20, never +.
func escape(s string) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '_' || ch == '.' || ch == '~' {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[ch>>4])
		b.WriteByte(upperhex[ch&0x0f])
	}
	return b.String()
}
