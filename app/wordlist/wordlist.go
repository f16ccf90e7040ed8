// Package wordlist builds per-language word lists out of parsed dictionary
// batches. Words are diacritic-stripped and deduplicated; lists are exported
// as sorted plain-text files.
package wordlist

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/wikadata/wikadata/app/collect"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"
)

// Lists keeps one deduplicated word set per language code.
type Lists map[string]map[string]struct{}

// Add puts a word into the set of the given language.
func (l Lists) Add(lang, word string) {
	if l[lang] == nil {
		l[lang] = make(map[string]struct{})
	}
	l[lang][word] = struct{}{}
}

// Generate walks the parsed dictionary batches under dir and fills lists with
// diacritic-stripped words keyed by the batch language. The caller owns lists
// and may export whatever has accumulated if the context gets cancelled.
func Generate(ctx context.Context, dir string, lists Lists) error {
	paths, err := collect.DiscoverBatches(dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Info().Str("file", path).Msg("processing file")

		batch, err := collect.ReadBatch[collect.DictionaryEntry](path)
		if err != nil {
			return err
		}
		for _, entry := range batch.Entries {
			if word := StripDiacritics(entry.Word); word != "" {
				lists.Add(batch.Meta.Lang, word)
			}
		}
	}
	log.Info().Int("total", len(lists)).Msg("word lists generated")
	return nil
}

// Export writes each list as a sorted wordlist_<lang>.txt under dir and
// returns the number of files written.
func Export(lists Lists, dir string) (int, error) {
	if len(lists) == 0 {
		log.Warn().Msg("no word lists to export")
		return 0, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, errors.Wrap(err, "can't create output directory")
	}

	written := 0
	for lang, words := range lists {
		sorted := make([]string, 0, len(words))
		for word := range words {
			sorted = append(sorted, word)
		}
		sort.Strings(sorted)

		path := filepath.Join(dir, "wordlist_"+lang+".txt")
		if err := os.WriteFile(path, []byte(strings.Join(sorted, "\n")), 0644); err != nil {
			log.Error().Err(err).Str("lang", lang).Msg("error writing word list")
			continue
		}
		written++
	}
	log.Info().Int("total", written).Str("dir", dir).Msg("word lists exported")
	return written, nil
}

// StripDiacritics removes combining marks from text, "magandá" -> "maganda".
func StripDiacritics(text string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(text) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
