package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrUnavailable is returned when every attempt at a page failed. Callers
// treat it as "skip this unit of work" rather than a fatal condition.
var ErrUnavailable = errors.New("page unavailable")

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// Fetcher downloads pages with retries, an increasing backoff and a rotating
// User-Agent.
type Fetcher struct {
	client  *http.Client
	retries int
	sleep   func(time.Duration)
}

// New creates a Fetcher performing up to retries additional attempts after
// the first failed one.
func New(retries int) Fetcher {
	return NewWithClient(&http.Client{Timeout: 10 * time.Second}, retries)
}

// NewWithClient creates a Fetcher on a caller-supplied HTTP client.
func NewWithClient(client *http.Client, retries int) Fetcher {
	if retries < 0 {
		retries = 0
	}
	return Fetcher{client: client, retries: retries, sleep: time.Sleep}
}

// Fetch returns the body of url. After the last failed attempt it returns
// ErrUnavailable; a cancelled context surfaces as the context error.
func (f Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	for attempt := 0; attempt <= f.retries; attempt++ {
		body, err := f.fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Str("url", url).Msg("fetch attempt failed")
		if attempt < f.retries {
			f.sleep(time.Duration(2*(attempt+2)) * time.Second)
		}
	}
	log.Error().Str("url", url).Int("retries", f.retries).Msg("failed to fetch page")
	return nil, ErrUnavailable
}

func (f Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsuccessfull response %v", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}
