// Package freqlist builds per-language frequency lists. Counts start from the
// exported word lists and are topped up with Leipzig corpus counts for words
// already present.
package freqlist

import (
	"bufio"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Lists keeps word counts per language code.
type Lists map[string]map[string]int

// Add bumps the count of a word in the given language.
func (l Lists) Add(lang, word string, n int) {
	if l[lang] == nil {
		l[lang] = make(map[string]int)
	}
	l[lang][word] += n
}

// Generate reads every wordlist_<lang>.txt under wordlistsDir into lists and
// merges Leipzig corpus counts from leipzigDir. The caller owns lists and may
// export whatever has accumulated if the context gets cancelled.
func Generate(ctx context.Context, wordlistsDir, leipzigDir string, lists Lists) error {
	paths, err := filepath.Glob(filepath.Join(wordlistsDir, "*.txt"))
	if err != nil {
		return errors.Wrap(err, "can't list word lists")
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		stem := strings.TrimSuffix(filepath.Base(path), ".txt")
		parts := strings.Split(stem, "_")
		if len(parts) < 2 {
			log.Warn().Str("file", path).Msg("unexpected word list name, skipping")
			continue
		}
		lang := parts[1]
		log.Info().Str("lang", lang).Str("file", path).Msg("processing word list")

		if err := readWordlist(path, lang, lists); err != nil {
			return err
		}
		applyLeipzig(leipzigDir, lang, lists)
	}
	log.Info().Int("total", len(lists)).Msg("frequency lists generated")
	return nil
}

func readWordlist(path, lang string, lists Lists) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "can't open word list %v", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if word := strings.ToLower(strings.TrimSpace(scanner.Text())); word != "" {
			lists.Add(lang, word, 1)
		}
	}
	return errors.Wrapf(scanner.Err(), "can't read word list %v", path)
}

// applyLeipzig merges tab-separated Leipzig counts into the language's list.
// Only words already present get their counts raised; a missing or malformed
// corpus file is logged and skipped.
func applyLeipzig(dir, lang string, lists Lists) {
	matches, _ := filepath.Glob(filepath.Join(dir, lang+"_*"))
	if len(matches) == 0 {
		log.Warn().Str("lang", lang).Msg("no frequency list source file found")
		return
	}
	sort.Strings(matches)
	path := matches[0]
	log.Info().Str("lang", lang).Str("file", path).Msg("applying existing frequency list")

	f, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("error opening frequency source")
		return
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	for {
		row, err := reader.Read()
		if err != nil {
			return
		}
		if len(row) < 2 {
			continue
		}
		word := strings.ToLower(row[1])
		freq, err := strconv.Atoi(row[len(row)-1])
		if err != nil {
			continue
		}
		if _, ok := lists[lang][word]; ok {
			lists.Add(lang, word, freq)
		}
	}
}

// Export writes each list as freqlist_<lang>.csv under dir, rows ordered by
// descending count with ties broken alphabetically, and returns the number of
// files written.
func Export(lists Lists, dir string) (int, error) {
	if len(lists) == 0 {
		log.Warn().Msg("no frequency lists to export")
		return 0, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, errors.Wrap(err, "can't create output directory")
	}

	written := 0
	for lang, counts := range lists {
		if err := exportList(filepath.Join(dir, "freqlist_"+lang+".csv"), counts); err != nil {
			log.Error().Err(err).Str("lang", lang).Msg("error writing frequency list")
			continue
		}
		written++
	}
	log.Info().Int("total", written).Str("dir", dir).Msg("frequency lists exported")
	return written, nil
}

func exportList(path string, counts map[string]int) error {
	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "can't create file")
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	for _, word := range words {
		if err := writer.Write([]string{word, strconv.Itoa(counts[word])}); err != nil {
			return errors.Wrap(err, "can't write row")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "can't flush rows")
}
