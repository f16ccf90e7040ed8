package collect

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhrasebookEntry(t *testing.T) {
	meta := Meta{Lang: "eng", TranslationLang: "tgl", SourceTitle: "Phrasebook", SourceLink: "https://example.com"}
	t.Run("inherits source from meta", func(t *testing.T) {
		raw := RawPhrasebookEntry{
			Phrase:       "hello",
			Categories:   []string{"basics"},
			Translations: []RawTranslation{{Content: "kumusta"}},
		}
		entry, err := NormalizePhrasebookEntry(raw, meta)
		require.NoError(t, err)
		require.Len(t, entry.Translations, 1)
		assert.Equal(t, "Phrasebook", entry.Translations[0].SourceTitle)
		assert.Equal(t, "https://example.com", entry.Translations[0].SourceLink)
	})
	t.Run("own source wins", func(t *testing.T) {
		raw := RawPhrasebookEntry{
			Phrase:       "hello",
			Translations: []RawTranslation{{Content: "kumusta", SourceLink: ptrStr("https://other.example.com")}},
		}
		entry, err := NormalizePhrasebookEntry(raw, meta)
		require.NoError(t, err)
		assert.Equal(t, "https://other.example.com", entry.Translations[0].SourceLink)
	})
	t.Run("missing translations tolerated", func(t *testing.T) {
		entry, err := NormalizePhrasebookEntry(RawPhrasebookEntry{Phrase: "hello"}, meta)
		require.NoError(t, err)
		assert.Empty(t, entry.Translations)
	})
	t.Run("no phrase", func(t *testing.T) {
		_, err := NormalizePhrasebookEntry(RawPhrasebookEntry{}, meta)
		assert.ErrorIs(t, err, ErrNoPhrase)
	})
}

func TestCollectPhrasebooks(t *testing.T) {
	t.Run("merges batches by language pair", func(t *testing.T) {
		dir := t.TempDir()
		writeBatch(t, dir, "wikivoyage", "phrases_eng_tgl_parsed.json", `{
			"meta": {"lang": "eng", "translation_lang": "tgl", "source_title": "Tagalog Phrasebook"},
			"entries": [
				{"phrase": "hello", "categories": ["basics"], "translations": [{"content": "kumusta"}]},
				{"phrase": "thank you", "translations": [{"content": "salamat"}]}
			]
		}`)

		agg := NewAggregate[PhrasebookEntry]("phrasebook")
		require.NoError(t, CollectPhrasebooks(context.Background(), dir, agg))
		require.Equal(t, 1, agg.Len())

		out := t.TempDir()
		require.Equal(t, 1, agg.Write(out))
		data, err := os.ReadFile(filepath.Join(out, "phrasebook_eng_tgl.json"))
		require.NoError(t, err)
		assert.Equal(t, `{
  "meta": {
    "lang": "eng",
    "translation_lang": "tgl"
  },
  "entries": [
    {
      "phrase": "hello",
      "categories": [
        "basics"
      ],
      "translations": [
        {
          "content": "kumusta",
          "source_title": "Tagalog Phrasebook"
        }
      ]
    },
    {
      "phrase": "thank you",
      "translations": [
        {
          "content": "salamat",
          "source_title": "Tagalog Phrasebook"
        }
      ]
    }
  ]
}
`, string(data))
	})
	t.Run("missing translation lang is fatal", func(t *testing.T) {
		dir := t.TempDir()
		writeBatch(t, dir, "wikivoyage", "a.json", `{"meta": {"lang": "eng"}, "entries": []}`)

		agg := NewAggregate[PhrasebookEntry]("phrasebook")
		err := CollectPhrasebooks(context.Background(), dir, agg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "translation_lang")
	})
	t.Run("non-ascii survives unescaped", func(t *testing.T) {
		dir := t.TempDir()
		writeBatch(t, dir, "wikivoyage", "a.json", `{
			"meta": {"lang": "eng", "translation_lang": "tgl"},
			"entries": [{"phrase": "good day", "translations": [{"content": "magandáng áraw"}]}]
		}`)

		agg := NewAggregate[PhrasebookEntry]("phrasebook")
		require.NoError(t, CollectPhrasebooks(context.Background(), dir, agg))
		out := t.TempDir()
		require.Equal(t, 1, agg.Write(out))
		data, err := os.ReadFile(filepath.Join(out, "phrasebook_eng_tgl.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "magandáng áraw")
	})
}
