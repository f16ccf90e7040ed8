package pinoydictionary

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/wikadata/wikadata/app/clients/fetcher"
	"github.com/wikadata/wikadata/app/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RoundTripFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

const listingPage = `<html><body>
<div class="word-group">
  <div class="word"><h2 class="word-entry"><a href="https://tagalog.pinoydictionary.com/word/aso/">aso</a></h2></div>
  <div class="definition"><p>n. dog</p></div>
</div>
<div class="word-group">
  <div class="word"><h2 class="word-entry"><a href="https://tagalog.pinoydictionary.com/word/araw/">araw</a></h2></div>
  <div class="definition"><p>n. sun; day</p></div>
</div>
</body></html>`

const emptyPage = `<html><body>no matches</body></html>`

func page(body string) *http.Response {
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

// testClient serves listingPage for letter a page 1 and an empty listing for
// everything else.
func testClient(t *testing.T, fetched *[]string) Client {
	httpClient := &http.Client{
		Transport: RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			url := req.URL.String()
			if fetched != nil {
				*fetched = append(*fetched, url)
			}
			if url == "https://tagalog.pinoydictionary.com/list/a/" {
				return page(listingPage), nil
			}
			return page(emptyPage), nil
		}),
	}
	return Client{fetcher: fetcher.NewWithClient(httpClient, 0)}
}

func TestScrape(t *testing.T) {
	t.Run("collects entries across letters", func(t *testing.T) {
		client := testClient(t, nil)
		var out []ScrapedEntry
		require.NoError(t, client.Scrape(context.Background(), "tgl", &out))
		require.Len(t, out, 2)
		assert.Equal(t, ScrapedEntry{
			Word:       "aso",
			Definition: "<p>n. dog</p>",
			Source:     "https://tagalog.pinoydictionary.com/word/aso/",
		}, out[0])
		assert.Equal(t, "araw", out[1].Word)
	})
	t.Run("paginates until listing is empty", func(t *testing.T) {
		var fetched []string
		client := testClient(t, &fetched)
		var out []ScrapedEntry
		require.NoError(t, client.Scrape(context.Background(), "tgl", &out))
		// Letter a got a second page request, empty letters only one.
		assert.Contains(t, fetched, "https://tagalog.pinoydictionary.com/list/a/2/")
		assert.NotContains(t, fetched, "https://tagalog.pinoydictionary.com/list/b/2/")
	})
	t.Run("unsupported language", func(t *testing.T) {
		client := testClient(t, nil)
		var out []ScrapedEntry
		assert.Error(t, client.Scrape(context.Background(), "xxx", &out))
	})
	t.Run("cancelled run keeps partial data", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		httpClient := &http.Client{
			Transport: RoundTripFunc(func(req *http.Request) (*http.Response, error) {
				calls++
				if calls == 2 {
					cancel()
				}
				return page(listingPage), nil
			}),
		}
		client := Client{fetcher: fetcher.NewWithClient(httpClient, 0)}
		var out []ScrapedEntry
		err := client.Scrape(ctx, "tgl", &out)
		assert.ErrorIs(t, err, context.Canceled)
		// Everything scraped before the interrupt stays available.
		assert.Len(t, out, 2)
	})
	t.Run("uses page cache", func(t *testing.T) {
		var fetched []string
		cache := db.NewInMemoryCache()
		require.NoError(t, cache.Save("https://tagalog.pinoydictionary.com/list/b/", []byte(listingPage)))
		client := testClient(t, &fetched)
		client.cache = cache

		var out []ScrapedEntry
		require.NoError(t, client.Scrape(context.Background(), "tgl", &out))
		// Two entries from letter a (fetched) and two from letter b (cached).
		assert.Len(t, out, 4)
		assert.NotContains(t, fetched, "https://tagalog.pinoydictionary.com/list/b/")
		// Fetched pages got cached.
		_, err := cache.Get("https://tagalog.pinoydictionary.com/list/a/")
		assert.NoError(t, err)
	})
}

func TestExtractEntries(t *testing.T) {
	t.Run("drops incomplete blocks", func(t *testing.T) {
		html := `<div class="word-group">
			<div class="word"><h2 class="word-entry"><a href="https://x/word/a/">a</a></h2></div>
		</div>`
		assert.Empty(t, extractEntries([]byte(html)))
	})
	t.Run("keeps markup in definition", func(t *testing.T) {
		entries := extractEntries([]byte(listingPage))
		require.Len(t, entries, 2)
		assert.True(t, strings.HasPrefix(entries[0].Definition, "<p>"))
	})
}

func TestSiteURL(t *testing.T) {
	for lang, site := range map[string]string{
		"tgl": "https://tagalog.pinoydictionary.com",
		"ceb": "https://cebuano.pinoydictionary.com",
		"hil": "https://hiligaynon.pinoydictionary.com",
	} {
		assert.Equal(t, site, SiteURL(lang), fmt.Sprintf("lang %s", lang))
	}
}
