package collect

import (
	"path/filepath"

	"github.com/wikadata/wikadata/app/export"

	"github.com/rs/zerolog/log"
)

// Group is one aggregate output unit: the minimal meta for a language pair
// and every entry folded into it, in batch discovery order.
type Group[E any] struct {
	Meta    GroupMeta `json:"meta"`
	Entries []E       `json:"entries"`
}

// Aggregate accumulates normalized entries grouped by language pair. An
// Aggregate is owned by the command driving a collect run; there is no
// process-wide state, so tests construct a fresh one per case.
type Aggregate[E any] struct {
	prefix string
	groups map[GroupKey]*Group[E]
	order  []GroupKey
}

// NewAggregate creates an empty aggregate whose output files are named with
// the given domain prefix ("dictionary", "phrasebook").
func NewAggregate[E any](prefix string) *Aggregate[E] {
	return &Aggregate[E]{prefix: prefix, groups: make(map[GroupKey]*Group[E])}
}

// Add folds one batch into the group for key, creating the group on first
// encounter. Group meta is overwritten rather than merged: batches sharing a
// key agree on the two key fields by construction.
func (a *Aggregate[E]) Add(key GroupKey, meta GroupMeta, entries []E) {
	group, ok := a.groups[key]
	if !ok {
		group = &Group[E]{}
		a.groups[key] = group
		a.order = append(a.order, key)
	}
	group.Meta = meta
	group.Entries = append(group.Entries, entries...)
}

// Group returns the accumulated group for key, or nil.
func (a *Aggregate[E]) Group(key GroupKey) *Group[E] {
	return a.groups[key]
}

// Len returns the number of groups seen so far.
func (a *Aggregate[E]) Len() int {
	return len(a.order)
}

// Write serializes every non-empty group to dir, one file per language pair,
// overwriting any previous output. A failed group write is logged and does
// not stop the remaining groups. Returns the number of files written.
func (a *Aggregate[E]) Write(dir string) int {
	if len(a.order) == 0 {
		log.Warn().Msg("no data to export")
		return 0
	}
	written := 0
	for _, key := range a.order {
		group := a.groups[key]
		if len(group.Entries) == 0 {
			continue
		}
		filename := key.Filename(a.prefix)
		if err := export.WriteJSON(filepath.Join(dir, filename), group); err != nil {
			log.Error().Err(err).Str("file", filename).Msg("failed to write aggregate")
			continue
		}
		log.Info().Str("file", filename).Int("entries", len(group.Entries)).Msg("saved aggregate")
		written++
	}
	return written
}
