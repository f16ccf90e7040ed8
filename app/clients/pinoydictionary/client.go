package pinoydictionary

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/wikadata/wikadata/app/clients/fetcher"
	"github.com/wikadata/wikadata/app/db"

	"github.com/rs/zerolog/log"
)

// SupportedLangs maps language codes to the dictionary site names hosting
// them.
var SupportedLangs = map[string]string{
	"tgl": "Tagalog",
	"ceb": "Cebuano",
	"hil": "Hiligaynon",
}

// DefinitionLang is the language every hosted dictionary defines words in.
const DefinitionLang = "eng"

// Letters the site has listing pages for.
const startingLetters = "abcdeghijklmnoprstuwxyz"

var (
	wordRE = regexp.MustCompile(`(?s)<h2 class="word-entry">\s*<a href="([^"]+)"[^>]*>(.*?)</a>`)
	defRE  = regexp.MustCompile(`(?s)<div class="definition">\s*(<p>.*?</p>)`)
)

// Client scrapes word listings from pinoydictionary.com.
type Client struct {
	fetcher fetcher.Fetcher
	cache   db.PageCache
	baseURL string
}

// NewClient creates a Client. cache may be nil to fetch every page fresh.
func NewClient(f fetcher.Fetcher, cache db.PageCache) Client {
	return Client{fetcher: f, cache: cache}
}

// SiteURL returns the dictionary root for a supported language.
func SiteURL(lang string) string {
	return fmt.Sprintf("https://%s.pinoydictionary.com", strings.ToLower(SupportedLangs[lang]))
}

// Scrape walks every letter listing of lang and appends the discovered
// entries to out. out is owned by the caller so an interrupted run can still
// export what was collected; on cancellation the context error is returned
// with out holding the partial result. Unfetchable pages end the current
// letter and move on.
func (c Client) Scrape(ctx context.Context, lang string, out *[]ScrapedEntry) error {
	if _, ok := SupportedLangs[lang]; !ok {
		return fmt.Errorf("unsupported language %q", lang)
	}
	base := c.baseURL
	if base == "" {
		base = SiteURL(lang)
	}
	for _, letter := range startingLetters {
		for page := 1; ; page++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Info().
				Str("lang", lang).
				Str("letter", string(letter)).
				Int("page", page).
				Msg("scraping listing")

			url := fmt.Sprintf("%s/list/%c/", base, letter)
			if page > 1 {
				url = fmt.Sprintf("%s%d/", url, page)
			}
			body, err := c.page(ctx, url)
			if err != nil {
				if errors.Is(err, fetcher.ErrUnavailable) {
					break
				}
				return err
			}
			entries := extractEntries(body)
			if len(entries) == 0 {
				log.Info().Str("letter", string(letter)).Int("page", page).Msg("no entries found, moving to next letter")
				break
			}
			*out = append(*out, entries...)
		}
	}
	log.Info().Int("total", len(*out)).Msg("scraping completed")
	return nil
}

// page returns the body for url, going through the cache when one is set.
func (c Client) page(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		if body, err := c.cache.Get(url); err == nil {
			return body, nil
		} else if !errors.Is(err, db.ErrNotFound) {
			log.Warn().Err(err).Str("url", url).Msg("page cache lookup failed")
		}
	}
	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Save(url, body); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to cache page")
		}
	}
	return body, nil
}

// extractEntries pairs each word anchor on a listing page with its
// definition block. Blocks missing either part are dropped.
func extractEntries(body []byte) []ScrapedEntry {
	words := wordRE.FindAllSubmatch(body, -1)
	defs := defRE.FindAllSubmatch(body, -1)
	n := len(words)
	if len(defs) < n {
		n = len(defs)
	}
	entries := make([]ScrapedEntry, 0, n)
	for i := 0; i < n; i++ {
		word := strings.TrimSpace(string(words[i][2]))
		if word == "" {
			continue
		}
		entries = append(entries, ScrapedEntry{
			Word:       word,
			Definition: string(defs[i][1]),
			Source:     string(words[i][1]),
		})
	}
	return entries
}
