// Package cma reads records from the Content Management HTTP API.
package cma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dbsmedya/locmatrix/internal/config"
	"github.com/dbsmedya/locmatrix/internal/logger"
	"github.com/dbsmedya/locmatrix/internal/record"
)

// maxRateLimitRetries bounds the retries of a request answered with 429.
const maxRateLimitRetries = 3

// Client is a read-only Content Management API client scoped to one space
// environment.
type Client struct {
	baseURL     string
	spaceID     string
	environment string
	token       string
	client      *http.Client
	log         *logger.Logger

	// sleep waits before a rate limited retry; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a client from the space configuration. A nil httpClient uses a
// client with the configured timeout.
func New(cfg *config.SpaceConfig, httpClient *http.Client, log *logger.Logger) (*Client, error) {
	if cfg.SpaceID == "" {
		return nil, fmt.Errorf("space id required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token required")
	}
	if httpClient == nil {
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = logger.NewNop()
	}

	env := cfg.EnvironmentID
	if env == "" {
		env = "master"
	}

	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		spaceID:     cfg.SpaceID,
		environment: env,
		token:       cfg.AccessToken,
		client:      httpClient,
		log:         log,
		sleep:       sleepContext,
	}, nil
}

// GetEntry implements crawler.Store.
func (c *Client) GetEntry(ctx context.Context, id string) (*record.Entry, error) {
	var e record.Entry
	if err := c.get(ctx, record.KindEntry, "entries", id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetAsset implements crawler.Store.
func (c *Client) GetAsset(ctx context.Context, id string) (*record.Asset, error) {
	var a record.Asset
	if err := c.get(ctx, record.KindAsset, "assets", id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetContentType implements crawler.Store.
func (c *Client) GetContentType(ctx context.Context, id string) (*record.ContentType, error) {
	var ct record.ContentType
	if err := c.get(ctx, record.KindContentType, "content_types", id, &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}

func (c *Client) resourceURL(collection, id string) string {
	return fmt.Sprintf("%s/spaces/%s/environments/%s/%s/%s",
		c.baseURL,
		url.PathEscape(c.spaceID),
		url.PathEscape(c.environment),
		collection,
		url.PathEscape(id),
	)
}

func (c *Client) get(ctx context.Context, kind, collection, id string, dest any) error {
	target := c.resourceURL(collection, id)

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("cma request: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRateLimitRetries {
			wait := retryAfter(resp.Header)
			_ = resp.Body.Close()
			c.log.Debugw("Rate limited by the content API, retrying", "kind", kind, "id", id, "wait", wait)
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		return decodeResponse(resp, kind, id, dest)
	}
}

func decodeResponse(resp *http.Response, kind, id string, dest any) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return record.NewNotFound(kind, id)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("cma error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &record.MalformedError{Kind: kind, ID: id, Reason: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// retryAfter reads the rate limit reset header, in seconds.
func retryAfter(h http.Header) time.Duration {
	for _, name := range []string{"X-Contentful-RateLimit-Reset", "Retry-After"} {
		if v := h.Get(name); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
