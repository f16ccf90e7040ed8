package collect

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrNoPhrase marks a raw phrasebook entry without a phrase.
var ErrNoPhrase = errors.New("entry has no phrase")

// RawPhrasebookEntry is the loosely-shaped entry produced by a phrasebook
// parser. A missing translations list is tolerated and treated as empty.
type RawPhrasebookEntry struct {
	Phrase       string           `json:"phrase"`
	Categories   []string         `json:"categories"`
	UsageNote    string           `json:"usage_note"`
	Translations []RawTranslation `json:"translations"`
}

// RawTranslation mirrors Translation with present/absent source fields, same
// inheritance rule as RawDefinition.
type RawTranslation struct {
	Content     string   `json:"content"`
	Examples    []string `json:"examples"`
	SourceTitle *string  `json:"source_title"`
	SourceLink  *string  `json:"source_link"`
}

// NormalizePhrasebookEntry maps one raw entry into the canonical shape,
// applying batch-level source defaults to each translation.
func NormalizePhrasebookEntry(raw RawPhrasebookEntry, meta Meta) (PhrasebookEntry, error) {
	if raw.Phrase == "" {
		return PhrasebookEntry{}, ErrNoPhrase
	}
	entry := PhrasebookEntry{
		Phrase:     raw.Phrase,
		Categories: raw.Categories,
		UsageNote:  raw.UsageNote,
	}
	for _, t := range raw.Translations {
		entry.Translations = append(entry.Translations, Translation{
			Content:     t.Content,
			Examples:    t.Examples,
			SourceTitle: orDefault(t.SourceTitle, meta.SourceTitle),
			SourceLink:  orDefault(t.SourceLink, meta.SourceLink),
		})
	}
	return entry, nil
}

// CollectPhrasebooks folds every parsed phrasebook batch below dir into agg,
// grouping by (lang, translation_lang). Error handling matches
// CollectDictionaries.
func CollectPhrasebooks(ctx context.Context, dir string, agg *Aggregate[PhrasebookEntry]) error {
	paths, err := DiscoverBatches(dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := ReadBatch[RawPhrasebookEntry](path)
		if err != nil {
			return err
		}
		if err := batch.Meta.validatePhrasebook(); err != nil {
			return fmt.Errorf("invalid meta in %s: %w", path, err)
		}
		key := GroupKey{Lang: batch.Meta.Lang, Secondary: batch.Meta.TranslationLang}
		entries := make([]PhrasebookEntry, 0, len(batch.Entries))
		for _, raw := range batch.Entries {
			entry, err := NormalizePhrasebookEntry(raw, batch.Meta)
			if err != nil {
				log.Warn().Err(err).Str("file", path).Msg("skipping entry")
				continue
			}
			entries = append(entries, entry)
		}
		agg.Add(key, GroupMeta{Lang: key.Lang, TranslationLang: key.Secondary}, entries)
		log.Info().Str("file", path).Str("group", key.String()).Msg("merged phrasebook batch")
	}
	return nil
}
