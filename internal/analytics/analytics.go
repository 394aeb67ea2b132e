// Package analytics collects usage figures of a crawl session and reports
// them to a collector host, to Prometheus, or nowhere.
package analytics

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dbsmedya/locmatrix/internal/matrix"
)

// Kind is the record kind counted by LogEntity.
type Kind string

const (
	KindEntry       Kind = "entry"
	KindAsset       Kind = "asset"
	KindContentType Kind = "content_type"
)

// Reporter receives usage events. The crawler only calls LogEntity and
// LogCacheHitRate; the remaining methods describe the session around it.
// Implementations must be safe for concurrent use.
type Reporter interface {
	LogEntity(kind Kind)
	LogCacheHitRate(percent float64)
	LogContentType(id string)
	LogUser(id string)
	LogRows(count int)
	LogLoadingTime(elapsed time.Duration)
	LogError(err error)
	LogFilters(filters matrix.Filters)

	// Send delivers the session. Delivery problems are logged, never
	// returned: analytics must not fail a crawl.
	Send(ctx context.Context)
}

// Summary is the accumulated state of one session.
type Summary struct {
	ContentType        string
	UserID             string
	ErrorMessage       string
	EntriesLoaded      int
	AssetsLoaded       int
	TypesLoaded        int
	RowsCount          int
	CacheHitRate       string
	LoadingTimeSeconds float64
	Locales            []string

	// nil until LogFilters is called.
	HideNonLocalized *bool
	HideLocalized    *bool
}

// Values encodes the summary as query parameters.
func (s Summary) Values() url.Values {
	v := url.Values{}
	v.Set("content_type", s.ContentType)
	v.Set("user_id", s.UserID)
	v.Set("error_message", s.ErrorMessage)
	v.Set("entries_loaded", strconv.Itoa(s.EntriesLoaded))
	v.Set("assets_loaded", strconv.Itoa(s.AssetsLoaded))
	v.Set("types_loaded", strconv.Itoa(s.TypesLoaded))
	v.Set("rows_count", strconv.Itoa(s.RowsCount))
	v.Set("cache_hit_rate", s.CacheHitRate)
	v.Set("loading_time_seconds", strconv.FormatFloat(s.LoadingTimeSeconds, 'f', -1, 64))
	v.Set("locales", strings.Join(s.Locales, ","))
	v.Set("hide_non_localized", formatOptionalBool(s.HideNonLocalized))
	v.Set("hide_localized", formatOptionalBool(s.HideLocalized))
	return v
}

func formatOptionalBool(b *bool) string {
	if b == nil {
		return "null"
	}
	return strconv.FormatBool(*b)
}

// FormatHitRate renders a hit rate the way it is reported, e.g. "40%".
func FormatHitRate(percent float64) string {
	return fmt.Sprintf("%s%%", strconv.FormatFloat(percent, 'f', -1, 64))
}

// session accumulates a Summary. It backs Collector and Void.
type session struct {
	mu      sync.Mutex
	summary Summary
}

func (s *session) LogEntity(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case KindEntry:
		s.summary.EntriesLoaded++
	case KindAsset:
		s.summary.AssetsLoaded++
	default:
		s.summary.TypesLoaded++
	}
}

func (s *session) LogCacheHitRate(percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.CacheHitRate = FormatHitRate(percent)
}

func (s *session) LogContentType(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.ContentType = id
}

func (s *session) LogUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.UserID = id
}

func (s *session) LogRows(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.RowsCount = count
}

func (s *session) LogLoadingTime(elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.LoadingTimeSeconds = float64(elapsed.Milliseconds()) / 1000
}

func (s *session) LogError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.ErrorMessage = err.Error()
}

func (s *session) LogFilters(filters matrix.Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hideNonLocalized := filters.HideFullyNonLocalized
	hideLocalized := filters.HideFullyLocalized
	s.summary.HideNonLocalized = &hideNonLocalized
	s.summary.HideLocalized = &hideLocalized
	s.summary.Locales = append([]string(nil), filters.Locales...)
}

// Summary returns a copy of the accumulated state.
func (s *session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.summary
	out.Locales = append([]string(nil), s.summary.Locales...)
	return out
}
