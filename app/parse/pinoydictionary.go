package parse

import (
	"regexp"
	"strings"

	"github.com/wikadata/wikadata/app/clients/pinoydictionary"
	"github.com/wikadata/wikadata/app/collect"

	"github.com/rs/zerolog/log"
)

var (
	// Parenthesized variants inside the headword, e.g. "abay (mga)".
	parenRE = regexp.MustCompile(`\(.+?\)`)
	// Inflections at the start of a definition, enclosed within parentheses
	// that may themselves contain one parenthesized run.
	inflectionRE = regexp.MustCompile(`^\(([^()]*(?:\(.+?\))?[^()]*)\)`)
	// A run of part-of-speech abbreviations at the start of a definition,
	// like "n." or "1. v., adj."
	posRE = regexp.MustCompile(`^((?:(?:\d\. )?[a-z]+\.,?;? ?)+)`)
	// Sense markers splitting a definition body, "1." or "2)".
	senseRE = regexp.MustCompile(`\d+(?:\.|\))\s*`)
)

// PinoyDictionary turns scraped word blocks into parsed dictionary entries.
// Blocks that yield no usable headword are logged and dropped.
func PinoyDictionary(raw []pinoydictionary.ScrapedEntry) []collect.DictionaryEntry {
	parsed := make([]collect.DictionaryEntry, 0, len(raw))
	for _, entry := range raw {
		if p, ok := pinoyEntry(entry); ok {
			parsed = append(parsed, p)
		}
	}
	log.Info().Int("total", len(parsed)).Msg("parsing completed")
	return parsed
}

func pinoyEntry(raw pinoydictionary.ScrapedEntry) (collect.DictionaryEntry, bool) {
	word := strings.TrimSpace(raw.Word)
	if word == "" {
		log.Warn().Msg("skipping entry without word")
		return collect.DictionaryEntry{}, false
	}
	definition := stripTags(raw.Definition)

	// Drop parenthesized variants and comma-repeated forms of the headword.
	word = strings.TrimSpace(parenRE.ReplaceAllString(word, ""))
	if i := strings.Index(word, ","); i >= 0 {
		word = strings.TrimSpace(word[:i])
	}

	// The site prefixes some definitions with the headword itself.
	definition = strings.TrimLeft(strings.TrimPrefix(definition, word), " .,;:!?")

	var inflections []string
	if m := inflectionRE.FindStringSubmatchIndex(definition); m != nil {
		run := strings.TrimSpace(strings.ReplaceAll(definition[m[2]:m[3]], ".", ","))
		for _, inf := range strings.Split(run, ",") {
			inflections = append(inflections, strings.TrimSpace(inf))
		}
		definition = strings.TrimSpace(definition[m[1]:])
	}

	var pos string
	if m := posRE.FindStringSubmatchIndex(definition); m != nil {
		pos = strings.TrimSpace(definition[m[2]:m[3]])
		definition = strings.TrimSpace(definition[m[3]:])
	}

	var definitions []collect.Definition
	for _, description := range senseRE.Split(definition, -1) {
		description = strings.Trim(description, " ;")
		if description == "" {
			continue
		}
		definitions = append(definitions, collect.Definition{
			Description: description,
			POS:         pos,
			Inflections: inflections,
			SourceLink:  raw.Source,
		})
	}

	return collect.DictionaryEntry{Word: word, Definitions: definitions}, true
}
