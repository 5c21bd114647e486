package reference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"maqamat/internal/config"
	"maqamat/internal/logging"
	"maqamat/internal/pagecache"
	"maqamat/internal/services"
)

// maxPageBytes bounds a single reference page body.
const maxPageBytes = 4 << 20

// PageCache is the subset of pagecache.Store the client needs.
type PageCache interface {
	Get(ctx context.Context, url string) (*pagecache.Page, error)
	Put(ctx context.Context, url string, body []byte) (pagecache.Entry, bool, error)
}

// Client fetches maqam pages from maqamworld, consulting an optional cache first.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cache     PageCache
	skip      map[string]struct{}
	logger    *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.http = c
		}
	}
}

// WithCache enables page caching. A nil cache disables it.
func WithCache(cache PageCache) Option {
	return func(client *Client) {
		client.cache = cache
	}
}

// New builds a client from the reference configuration section.
func New(cfg config.Reference, logger *slog.Logger, opts ...Option) *Client {
	client := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		skip:      make(map[string]struct{}, len(cfg.Skip)),
		logger:    logging.NewComponentLogger(logger, "reference"),
	}
	for _, name := range cfg.Skip {
		client.skip[name] = struct{}{}
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// MaqamURL returns the page address for a maqam.
func (c *Client) MaqamURL(name string) string {
	return c.baseURL + "/maqam/" + name + ".php"
}

// MaqamPage returns the raw HTML of the maqam page for name.
func (c *Client) MaqamPage(ctx context.Context, name string) ([]byte, error) {
	url := c.MaqamURL(name)
	if c.cache != nil {
		page, err := c.cache.Get(ctx, url)
		switch {
		case err != nil && errors.Is(err, pagecache.ErrCorrupt):
			logging.WarnWithContext(c.logger, "cached page unreadable; refetching", "reference_cache_corrupt",
				logging.String(logging.FieldURL, url),
				logging.Error(err),
				logging.String(logging.FieldImpact, "page will be downloaded again"),
			)
		case err != nil:
			return nil, services.Wrap(services.ErrTransient, "reference", "cache lookup", url, err)
		case page != nil:
			c.logger.Debug("page cache hit", logging.String(logging.FieldURL, url))
			return page.Body, nil
		}
	}

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	c.logger.Info("fetched reference page", logging.String(logging.FieldURL, url), logging.Int("bytes", len(body)))

	if c.cache != nil {
		if _, _, err := c.cache.Put(ctx, url, body); err != nil {
			logging.WarnWithContext(c.logger, "failed to cache reference page", "reference_cache_write_failed",
				logging.String(logging.FieldURL, url),
				logging.Error(err),
				logging.String(logging.FieldImpact, "page will be downloaded again next time"),
			)
		}
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "reference", "build request", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, services.Wrap(services.ErrTimeout, "reference", "fetch", url, err)
		}
		return nil, services.Wrap(services.ErrTransient, "reference", "fetch", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(services.ErrNotFound, "reference", "fetch", url, nil)
	case resp.StatusCode != http.StatusOK:
		return nil, services.Wrap(services.ErrTransient, "reference", "fetch",
			fmt.Sprintf("%s: unexpected status %d", url, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "reference", "read body", url, err)
	}
	return body, nil
}

func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
