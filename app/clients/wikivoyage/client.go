package wikivoyage

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

// SupportedLangs maps translation language codes to phrasebook page names.
var SupportedLangs = map[string]string{
	"tgl": "Tagalog",
	"ceb": "Cebuano",
	"hil": "Hiligaynon",
}

// SourceLang is the language every phrasebook phrase is written in.
const SourceLang = "eng"

var (
	phraseListRE = regexp.MustCompile(`(?s)<h2[^>]*id="Phrase_list"[^>]*>.*`)
	headingRE    = regexp.MustCompile(`(?s)<h3[^>]*>(.*?)</h3>`)
	dlRE         = regexp.MustCompile(`(?s)<dl>(.*?)</dl>`)
	pairRE       = regexp.MustCompile(`(?s)<dt>(.*?)</dt>\s*<dd>(.*?)</dd>`)
	tagRE        = regexp.MustCompile(`<[^>]+>`)
)

// Client scrapes phrasebook pages from en.wikivoyage.org.
type Client struct {
	fetcher fetcher.Fetcher
	cache   db.PageCache
}

// NewClient creates a Client. cache may be nil to fetch every page fresh.
func NewClient(f fetcher.Fetcher, cache db.PageCache) Client {
	return Client{fetcher: f, cache: cache}
}

// PageURL returns the phrasebook page for a supported language.
func PageURL(lang string) string {
	return fmt.Sprintf("https://en.wikivoyage.org/wiki/%s_phrasebook", SupportedLangs[lang])
}

// Scrape fetches the phrasebook page for lang and appends every phrase pair
// of its "Phrase list" section to out. An unreachable page is logged and
// skipped, leaving out untouched.
func (c Client) Scrape(ctx context.Context, lang string, out *[]ScrapedPhrase) error {
	if _, ok := SupportedLangs[lang]; !ok {
		return fmt.Errorf("unsupported language %q", lang)
	}
	url := PageURL(lang)
	body, err := c.page(ctx, url)
	if err != nil {
		if errors.Is(err, fetcher.ErrUnavailable) {
			log.Error().Str("url", url).Msg("phrasebook page unavailable")
			return nil
		}
		return err
	}

	section := phraseListRE.Find(body)
	if section == nil {
		log.Error().Str("url", url).Msg("no phrase list found")
		return nil
	}
	for _, chunk := range splitByHeading(section) {
		log.Info().Str("category", chunk.category).Msg("processing section")
		anchor := strings.ReplaceAll(capitalize(chunk.category), " ", "_")
		for _, dl := range dlRE.FindAllSubmatch(chunk.body, -1) {
			for _, pair := range pairRE.FindAllSubmatch(dl[1], -1) {
				*out = append(*out, ScrapedPhrase{
					Phrase:      string(pair[1]),
					Translation: string(pair[2]),
					Category:    chunk.category,
					Source:      url + "#" + anchor,
				})
			}
		}
	}
	return nil
}

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

type headingChunk struct {
	category string
	body     []byte
}

// splitByHeading cuts the phrase-list section at its h3 headings. Content
// before the first heading belongs to the "general" category.
func splitByHeading(section []byte) []headingChunk {
	headings := headingRE.FindAllSubmatchIndex(section, -1)
	if len(headings) == 0 {
		return []headingChunk{{category: "general", body: section}}
	}
	chunks := make([]headingChunk, 0, len(headings))
	for i, h := range headings {
		category := strings.ToLower(strings.TrimSpace(stripTags(section[h[2]:h[3]])))
		if category == "" {
			category = "general"
		}
		end := len(section)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		chunks = append(chunks, headingChunk{category: category, body: section[h[1]:end]})
	}
	return chunks
}

func stripTags(b []byte) string {
	return string(tagRE.ReplaceAll(b, nil))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
