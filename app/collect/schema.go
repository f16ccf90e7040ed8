package collect

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Meta holds batch-level metadata written by the upstream parsers.
// Lang plus DefinitionLang (dictionaries) or TranslationLang (phrasebooks)
// identify the group a batch belongs to; SourceTitle and SourceLink are
// fallback defaults for sub-records that omit their own.
type Meta struct {
	Lang            string `json:"lang"`
	DefinitionLang  string `json:"definition_lang,omitempty"`
	TranslationLang string `json:"translation_lang,omitempty"`
	Date            string `json:"date,omitempty"`
	TotalEntries    int    `json:"total_entries,omitempty"`
	SourceTitle     string `json:"source_title,omitempty"`
	SourceLink      string `json:"source_link,omitempty"`
}

func (m Meta) validateDictionary() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Lang, validation.Required),
		validation.Field(&m.DefinitionLang, validation.Required),
	)
}

func (m Meta) validatePhrasebook() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Lang, validation.Required),
		validation.Field(&m.TranslationLang, validation.Required),
	)
}

// GroupKey identifies one aggregate output: a language and the language its
// definitions or translations are written in.
type GroupKey struct {
	Lang      string
	Secondary string
}

func (k GroupKey) String() string {
	return k.Lang + "_" + k.Secondary
}

// Filename returns the stable output filename for the group.
func (k GroupKey) Filename(prefix string) string {
	return fmt.Sprintf("%s_%s_%s.json", prefix, k.Lang, k.Secondary)
}

// GroupMeta is the minimal meta kept on an aggregate group. Only the two key
// fields survive; everything else from batch meta flows into per-record
// defaults and is dropped here.
type GroupMeta struct {
	Lang            string `json:"lang"`
	DefinitionLang  string `json:"definition_lang,omitempty"`
	TranslationLang string `json:"translation_lang,omitempty"`
}

// Canonical records. Struct order fixes the JSON key order and the omitempty
// tags drop every field that resolves to nil, "" or an empty list, so an
// emitted record never carries an empty-valued key.

// DictionaryEntry is the canonical shape of a merged dictionary entry.
type DictionaryEntry struct {
	Word        string       `json:"word,omitempty"`
	Definitions []Definition `json:"definitions,omitempty"`
}

// Definition is one sense of a dictionary entry.
type Definition struct {
	Description string   `json:"description,omitempty"`
	POS         string   `json:"pos,omitempty"`
	Origin      string   `json:"origin,omitempty"`
	UsageNote   string   `json:"usage_note,omitempty"`
	Synonyms    []string `json:"synonyms,omitempty"`
	Antonyms    []string `json:"antonyms,omitempty"`
	Inflections []string `json:"inflections,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	SourceTitle string   `json:"source_title,omitempty"`
	SourceLink  string   `json:"source_link,omitempty"`
}

// PhrasebookEntry is the canonical shape of a merged phrasebook entry.
type PhrasebookEntry struct {
	Phrase       string        `json:"phrase,omitempty"`
	Categories   []string      `json:"categories,omitempty"`
	UsageNote    string        `json:"usage_note,omitempty"`
	Translations []Translation `json:"translations,omitempty"`
}

// Translation is one rendering of a phrase in the target language.
type Translation struct {
	Content     string   `json:"content,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	SourceTitle string   `json:"source_title,omitempty"`
	SourceLink  string   `json:"source_link,omitempty"`
}

// orDefault resolves a raw optional field against its batch-level fallback.
// A field that is present on the record wins even when empty; pruning then
// drops it like any other empty value.
func orDefault(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
