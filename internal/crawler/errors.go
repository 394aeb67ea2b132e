package crawler

import (
	"errors"
	"fmt"
)

// ErrCrawlInProgress is returned when BuildTree is called on a Crawler that
// is still running another crawl.
var ErrCrawlInProgress = errors.New("crawl already in progress")

// FetchError reports a record store failure other than not-found. It aborts
// the whole crawl.
type FetchError struct {
	Kind string
	ID   string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s %q: %v", e.Kind, e.ID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
