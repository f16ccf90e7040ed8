package parse

import (
	"strings"

	"github.com/wikadata/wikadata/app/clients/wikivoyage"
	"github.com/wikadata/wikadata/app/collect"

	"github.com/rs/zerolog/log"
)

// Wikivoyage turns scraped phrase pairs into parsed phrasebook entries.
// Pairs without a phrase left after markup stripping are dropped. The source
// anchor of a pair is not carried per entry; the page link travels on the
// batch meta and gets inherited by every translation at collect time.
func Wikivoyage(raw []wikivoyage.ScrapedPhrase) []collect.PhrasebookEntry {
	parsed := make([]collect.PhrasebookEntry, 0, len(raw))
	for _, pair := range raw {
		phrase := stripTags(pair.Phrase)
		if phrase == "" {
			log.Warn().Msg("skipping pair without phrase")
			continue
		}
		entry := collect.PhrasebookEntry{Phrase: phrase}
		if category := strings.ToLower(strings.TrimSpace(pair.Category)); category != "" {
			entry.Categories = []string{category}
		}
		if translation := stripTags(pair.Translation); translation != "" {
			entry.Translations = []collect.Translation{{Content: translation}}
		}
		parsed = append(parsed, entry)
	}
	log.Info().Int("total", len(parsed)).Msg("parsing completed")
	return parsed
}
