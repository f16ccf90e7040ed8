package collect

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrNoWord marks a raw dictionary entry without a usable headword.
var ErrNoWord = errors.New("entry has no word")

// RawDictionaryEntry is the loosely-shaped entry produced by a dictionary
// parser. Every field except the word may be absent.
type RawDictionaryEntry struct {
	Word        string          `json:"word"`
	Definitions []RawDefinition `json:"definitions"`
}

// RawDefinition mirrors Definition with present/absent source fields: a
// definition that carries its own source_title keeps it (even empty), one
// that omits it inherits the batch default.
type RawDefinition struct {
	Description string   `json:"description"`
	POS         string   `json:"pos"`
	Origin      string   `json:"origin"`
	UsageNote   string   `json:"usage_note"`
	Synonyms    []string `json:"synonyms"`
	Antonyms    []string `json:"antonyms"`
	Inflections []string `json:"inflections"`
	Examples    []string `json:"examples"`
	SourceTitle *string  `json:"source_title"`
	SourceLink  *string  `json:"source_link"`
}

// NormalizeDictionaryEntry maps one raw entry into the canonical shape,
// applying batch-level source defaults to each definition. A missing
// definitions list is an empty one, not an error.
func NormalizeDictionaryEntry(raw RawDictionaryEntry, meta Meta) (DictionaryEntry, error) {
	if raw.Word == "" {
		return DictionaryEntry{}, ErrNoWord
	}
	entry := DictionaryEntry{Word: raw.Word}
	for _, d := range raw.Definitions {
		entry.Definitions = append(entry.Definitions, normalizeDefinition(d, meta))
	}
	return entry, nil
}

func normalizeDefinition(raw RawDefinition, meta Meta) Definition {
	return Definition{
		Description: raw.Description,
		POS:         raw.POS,
		Origin:      raw.Origin,
		UsageNote:   raw.UsageNote,
		Synonyms:    raw.Synonyms,
		Antonyms:    raw.Antonyms,
		Inflections: raw.Inflections,
		Examples:    raw.Examples,
		SourceTitle: orDefault(raw.SourceTitle, meta.SourceTitle),
		SourceLink:  orDefault(raw.SourceLink, meta.SourceLink),
	}
}

// CollectDictionaries folds every parsed dictionary batch below dir into agg,
// grouping by (lang, definition_lang). Structurally invalid batches abort the
// run; entries that fail normalization are logged and skipped. On context
// cancellation whatever has accumulated so far stays in agg for the caller to
// flush.
func CollectDictionaries(ctx context.Context, dir string, agg *Aggregate[DictionaryEntry]) error {
	paths, err := DiscoverBatches(dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := ReadBatch[RawDictionaryEntry](path)
		if err != nil {
			return err
		}
		if err := batch.Meta.validateDictionary(); err != nil {
			return fmt.Errorf("invalid meta in %s: %w", path, err)
		}
		key := GroupKey{Lang: batch.Meta.Lang, Secondary: batch.Meta.DefinitionLang}
		entries := make([]DictionaryEntry, 0, len(batch.Entries))
		for _, raw := range batch.Entries {
			entry, err := NormalizeDictionaryEntry(raw, batch.Meta)
			if err != nil {
				log.Warn().Err(err).Str("file", path).Msg("skipping entry")
				continue
			}
			entries = append(entries, entry)
		}
		agg.Add(key, GroupMeta{Lang: key.Lang, DefinitionLang: key.Secondary}, entries)
		log.Info().Str("file", path).Str("group", key.String()).Msg("merged dictionary batch")
	}
	return nil
}
