package parse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/wikadata/wikadata/app/collect"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const gcideLetters = "abcdefghijklmnopqrstuvwxyz"

// GCIDESourceTitle and GCIDESourceLink describe the corpus the GCIDE batch
// meta points at.
const (
	GCIDESourceTitle = "GCIDE"
	GCIDESourceLink  = "https://ibiblio.org/webster/"
)

var (
	paragraphRE = regexp.MustCompile(`(?s)<p>(.*?)</p>`)
	entRE       = regexp.MustCompile(`(?s)<ent>(.*?)</ent>`)
	gPosRE      = regexp.MustCompile(`(?s)<pos>(.*?)</pos>`)
	defTagRE    = regexp.MustCompile(`(?s)<def>(.*?)</def>`)
	etyRE       = regexp.MustCompile(`(?s)<ety>(.*?)</ety>`)
	synRE       = regexp.MustCompile(`(?s)<syn>(.*?)</syn>`)
	antRE       = regexp.MustCompile(`(?s)<ant>(.*?)</ant>`)
	sourceRE    = regexp.MustCompile(`(?s)<source>(.*?)</source>`)
	quoteRE     = regexp.MustCompile(`(?s)<q>(.*?)</q>`)
)

// GCIDE parses the GCIDE_XML corpus: one gcide_<letter>.xml file per letter,
// processed concurrently, merged and sorted by headword. Unreadable letter
// files are logged and skipped.
func GCIDE(ctx context.Context, dir string) ([]collect.DictionaryEntry, error) {
	results := make([][]collect.DictionaryEntry, len(gcideLetters))
	g, gCtx := errgroup.WithContext(ctx)
	for i, letter := range gcideLetters {
		i, letter := i, letter
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = gcideLetter(filepath.Join(dir, fmt.Sprintf("gcide_%c.xml", letter)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []collect.DictionaryEntry
	for _, r := range results {
		entries = append(entries, r...)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Word) < strings.ToLower(entries[j].Word)
	})
	log.Info().Int("total", len(entries)).Msg("parsing completed")
	return entries, nil
}

func gcideLetter(path string) []collect.DictionaryEntry {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("error reading letter file")
		return nil
	}

	var entries []collect.DictionaryEntry
	for _, p := range paragraphRE.FindAllSubmatch(content, -1) {
		word, definitions := gcideParagraph(p[1])
		switch {
		case word != "":
			entries = append(entries, collect.DictionaryEntry{Word: word, Definitions: definitions})
		case len(entries) > 0:
			// A word-less paragraph continues the previous headword.
			last := &entries[len(entries)-1]
			last.Definitions = append(last.Definitions, definitions...)
		}
	}
	return entries
}

func gcideParagraph(block []byte) (string, []collect.Definition) {
	var word string
	if m := entRE.FindSubmatch(block); m != nil {
		word = stripTags(string(m[1]))
	}

	var pos, origin, source string
	if m := gPosRE.FindSubmatch(block); m != nil {
		pos = stripTags(string(m[1]))
	}
	if m := etyRE.FindSubmatch(block); m != nil {
		origin = strings.Trim(stripTags(string(m[1])), " []")
	}
	if m := sourceRE.FindSubmatch(block); m != nil {
		source = stripTags(string(m[1]))
	}

	var synonyms, antonyms []string
	if m := synRE.FindSubmatch(block); m != nil {
		synonyms = splitLower(strings.ReplaceAll(stripTags(string(m[1])), "Syn. --", ""), ",")
	}
	if m := antRE.FindSubmatch(block); m != nil {
		antonyms = splitLower(stripTags(string(m[1])), ";")
	}

	var examples []string
	if strings.Contains(string(block), "<qex>") {
		if m := quoteRE.FindSubmatch(block); m != nil {
			examples = []string{stripTags(string(m[1]))}
		}
	}

	var definitions []collect.Definition
	for _, d := range defTagRE.FindAllSubmatch(block, -1) {
		definitions = append(definitions, collect.Definition{
			Description: stripTags(string(d[1])),
			POS:         pos,
			Origin:      origin,
			Synonyms:    synonyms,
			Antonyms:    antonyms,
			Examples:    examples,
			SourceTitle: source,
		})
	}
	return word, definitions
}

func splitLower(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
