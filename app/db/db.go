package db

import "errors"

// ErrNotFound is returned when a page is not cached
var ErrNotFound error = errors.New("not found")

// PageCache stores fetched page bodies keyed by URL so repeated or
// interrupted scrape runs do not hammer the source again. Implementations
// must be safe for concurrent use.
type PageCache interface {
	// Get returns the cached body for url
	Get(url string) ([]byte, error)
	// Save stores the body for url, overwriting a previous copy
	Save(url string, body []byte) error
}
