package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var pairRE = regexp.MustCompile(`^[a-z]{2,3}_[a-z]{2,3}$`)

// aggregate prefixes per URL domain segment.
var domainPrefixes = map[string]string{
	"dictionaries": "dictionary",
	"phrasebooks":  "phrasebook",
}

// CatalogItem describes one released file in the catalog response.
type CatalogItem struct {
	Category string `json:"category"`
	File     string `json:"file"`
}

// catalogService implements handlers over the release directory.
type catalogService struct {
	dir string
}

// Health reports server liveness.
func (c catalogService) Health(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// List returns every file available in the release tree, sorted by category
// then file name.
func (c catalogService) List(w http.ResponseWriter, r *http.Request) {
	items := make([]CatalogItem, 0)
	categories, err := os.ReadDir(c.dir)
	if err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Str("dir", c.dir).Msg("failed to read release directory")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	for _, category := range categories {
		if !category.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(c.dir, category.Name()))
		if err != nil {
			log.Error().Err(err).Str("category", category.Name()).Msg("failed to read category")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			items = append(items, CatalogItem{Category: category.Name(), File: file.Name()})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].File < items[j].File
	})

	response, jerr := json.Marshal(items)
	if jerr != nil {
		log.Error().Err(jerr).Msg("failed to marshal catalog")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(response); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// GetAggregate streams one aggregate file, addressed by domain and language
// pair, e.g. /api/v1/dictionaries/tgl_eng.
func (c catalogService) GetAggregate(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	pair := chi.URLParam(r, "pair")

	prefix, ok := domainPrefixes[domain]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		if _, err := w.Write([]byte("unknown domain")); err != nil {
			log.Warn().Err(err).Msg("failed to write response")
		}
		return
	}
	if !pairRE.MatchString(pair) {
		w.WriteHeader(http.StatusBadRequest)
		if _, err := w.Write([]byte("invalid language pair")); err != nil {
			log.Warn().Err(err).Msg("failed to write response")
		}
		return
	}

	path := filepath.Join(c.dir, domain, prefix+"_"+pair+".json")
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			w.WriteHeader(http.StatusNotFound)
			if _, err := w.Write([]byte("aggregate not found")); err != nil {
				log.Warn().Err(err).Msg("failed to write response")
			}
			return
		}
		log.Error().Err(err).Str("file", path).Msg("failed to read aggregate")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(content); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}
