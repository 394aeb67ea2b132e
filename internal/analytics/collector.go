package analytics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/locmatrix/internal/logger"
)

// Collector sends the session as one GET request whose query string carries
// the summary. The host url usually already holds a query (for example a
// form id), so parameters are appended with "&" when it contains "?".
type Collector struct {
	session

	host      string
	sessionID string
	client    *http.Client
	log       *logger.Logger
}

// NewCollector creates a Collector for host. A nil client uses a client with
// the given timeout; a nil logger discards messages.
func NewCollector(host string, timeout time.Duration, client *http.Client, log *logger.Logger) *Collector {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = logger.NewNop()
	}
	id := uuid.NewString()
	return &Collector{
		host:      host,
		sessionID: id,
		client:    client,
		log:       log.WithFields(map[string]interface{}{"session_id": id}),
	}
}

// SessionID identifies this session in the sent parameters.
func (c *Collector) SessionID() string {
	return c.sessionID
}

// URL returns the request url for the current state.
func (c *Collector) URL() string {
	values := c.Summary().Values()
	values.Set("session_id", c.sessionID)

	sep := "?"
	if strings.Contains(c.host, "?") {
		sep = "&"
	}
	return c.host + sep + values.Encode()
}

// Send implements Reporter.
func (c *Collector) Send(ctx context.Context) {
	if err := c.send(ctx); err != nil {
		c.log.Warnw("Failed to send analytics", "host", c.host, "error", err)
	}
}

func (c *Collector) send(ctx context.Context) error {
	target := c.URL()
	c.log.Debugw("Sending analytics to the server", "host", c.host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build analytics request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analytics request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("analytics host returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// Void keeps the session counters but never sends them.
type Void struct {
	session
	log *logger.Logger
}

// NewVoid creates a Void reporter. A nil logger discards messages.
func NewVoid(log *logger.Logger) *Void {
	if log == nil {
		log = logger.NewNop()
	}
	return &Void{log: log}
}

// Send implements Reporter.
func (v *Void) Send(context.Context) {
	s := v.Summary()
	v.log.Infow("Skipping sending the analytics: host url is not configured",
		"entries_loaded", s.EntriesLoaded,
		"assets_loaded", s.AssetsLoaded,
		"types_loaded", s.TypesLoaded,
		"cache_hit_rate", s.CacheHitRate)
}

// New returns a Collector when host is set, otherwise a Void reporter.
func New(host string, timeout time.Duration, log *logger.Logger) Reporter {
	if strings.TrimSpace(host) == "" {
		return NewVoid(log)
	}
	return NewCollector(host, timeout, nil, log)
}
