package wordlist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBatch(t *testing.T, dir, source, name, content string) {
	t.Helper()
	parsed := filepath.Join(dir, source, "parsed")
	require.NoError(t, os.MkdirAll(parsed, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(parsed, name), []byte(content), 0644))
}

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "maganda", StripDiacritics("magandá"))
	assert.Equal(t, "arao", StripDiacritics("árao"))
	assert.Equal(t, "dog", StripDiacritics("dog"))
}

func TestGenerate(t *testing.T) {
	t.Run("collects deduplicated words per language", func(t *testing.T) {
		dir := t.TempDir()
		writeBatch(t, dir, "siteA", "a.json", `{
			"meta": {"lang": "tgl", "definition_lang": "eng"},
			"entries": [{"word": "aso"}, {"word": "magandá"}]
		}`)
		writeBatch(t, dir, "siteB", "b.json", `{
			"meta": {"lang": "tgl", "definition_lang": "eng"},
			"entries": [{"word": "aso"}, {"word": "pusa"}]
		}`)
		writeBatch(t, dir, "siteC", "c.json", `{
			"meta": {"lang": "ceb", "definition_lang": "eng"},
			"entries": [{"word": "iro"}]
		}`)

		lists := make(Lists)
		require.NoError(t, Generate(context.Background(), dir, lists))
		require.Len(t, lists, 2)
		assert.Len(t, lists["tgl"], 3)
		assert.Contains(t, lists["tgl"], "maganda")
		assert.Contains(t, lists["ceb"], "iro")
	})
	t.Run("invalid batch file fails", func(t *testing.T) {
		dir := t.TempDir()
		writeBatch(t, dir, "siteA", "a.json", `{broken`)

		err := Generate(context.Background(), dir, make(Lists))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a.json")
	})
	t.Run("cancelled context keeps accumulated lists", func(t *testing.T) {
		dir := t.TempDir()
		writeBatch(t, dir, "siteA", "a.json", `{
			"meta": {"lang": "tgl", "definition_lang": "eng"},
			"entries": [{"word": "aso"}]
		}`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		lists := make(Lists)
		err := Generate(ctx, dir, lists)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, lists)
	})
}

func TestExport(t *testing.T) {
	t.Run("writes sorted files", func(t *testing.T) {
		dir := t.TempDir()
		lists := make(Lists)
		lists.Add("tgl", "pusa")
		lists.Add("tgl", "aso")
		lists.Add("ceb", "iro")

		written, err := Export(lists, dir)
		require.NoError(t, err)
		assert.Equal(t, 2, written)

		content, err := os.ReadFile(filepath.Join(dir, "wordlist_tgl.txt"))
		require.NoError(t, err)
		assert.Equal(t, "aso\npusa", string(content))
	})
	t.Run("empty lists write nothing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		written, err := Export(make(Lists), dir)
		require.NoError(t, err)
		assert.Zero(t, written)
		_, err = os.Stat(dir)
		assert.True(t, os.IsNotExist(err))
	})
}
