package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wikadata/wikadata/app/api"
	"github.com/wikadata/wikadata/app/clients/fetcher"
	"github.com/wikadata/wikadata/app/clients/pinoydictionary"
	"github.com/wikadata/wikadata/app/clients/wikivoyage"
	"github.com/wikadata/wikadata/app/collect"
	"github.com/wikadata/wikadata/app/db"
	"github.com/wikadata/wikadata/app/export"
	"github.com/wikadata/wikadata/app/freqlist"
	"github.com/wikadata/wikadata/app/parse"
	"github.com/wikadata/wikadata/app/release"
	"github.com/wikadata/wikadata/app/wordlist"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

const dateFormat = "2006-01-02"

type Opts struct {
	DataDir  string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Root of the data tree"`
	BoltDB   string `long:"boltdb" env:"BOLTDB" default:"./pages.data" description:"Path to BoltDB page cache"`
	RedisURL string `long:"redis" env:"REDIS_URL" description:"Redis page cache URL"`
	Retries  int    `long:"retries" env:"FETCH_RETRIES" default:"3" description:"Fetch retries per page"`
}

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	for _, c := range []struct {
		name, short string
		cmd         flags.Commander
	}{
		{"scrape-dictionary", "Scrape a dictionary site", &ScrapeDictionaryCommand{opts: &opts}},
		{"parse-dictionary", "Parse scraped dictionary data", &ParseDictionaryCommand{opts: &opts}},
		{"parse-gcide", "Parse the GCIDE XML corpus", &ParseGCIDECommand{opts: &opts}},
		{"scrape-phrasebook", "Scrape a phrasebook page", &ScrapePhrasebookCommand{opts: &opts}},
		{"parse-phrasebook", "Parse scraped phrasebook data", &ParsePhrasebookCommand{opts: &opts}},
		{"collect-dictionaries", "Merge parsed dictionaries into aggregates", &CollectDictionariesCommand{opts: &opts}},
		{"collect-phrasebooks", "Merge parsed phrasebooks into aggregates", &CollectPhrasebooksCommand{opts: &opts}},
		{"wordlists", "Generate per-language word lists", &WordlistsCommand{opts: &opts}},
		{"freqlists", "Generate per-language frequency lists", &FreqlistsCommand{opts: &opts}},
		{"release", "Assemble processed data into a release tree", &ReleaseCommand{opts: &opts}},
		{"serve", "Serve the release catalog over HTTP", &ServeCommand{opts: &opts}},
	} {
		if _, err := parser.AddCommand(c.name, c.short, "", c.cmd); err != nil {
			log.Fatal().Err(err).Str("command", c.name).Msg("failed to register command")
		}
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.With().Str("run_id", uuid.NewString()).Logger()

	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}
}

// runContext returns a context cancelled on SIGINT/SIGTERM. Long-running
// commands check it between iterations and still export whatever accumulated.
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// getCache opens the page cache: redis when a URL is given, bolt otherwise.
func getCache(opts *Opts) (db.PageCache, func()) {
	if opts.RedisURL != "" {
		cache, err := db.NewRedisCache(opts.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create redis client")
		}
		return cache, func() {}
	}
	boltDB, err := bolt.Open(opts.BoltDB, 0600, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open boltDB database")
	}
	cache, err := db.NewBoltCache(boltDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bolt cache")
	}
	return cache, func() {
		if err := boltDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close boltDB database")
		}
	}
}

// interrupted tells a command whether a run stopped on a signal. Partial data
// still gets exported and the exit stays clean.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

type ScrapeDictionaryCommand struct {
	opts *Opts
	Lang string `long:"lang" default:"tgl" description:"Language to scrape"`
}

func (c *ScrapeDictionaryCommand) Execute([]string) error {
	ctx, stop := runContext()
	defer stop()
	cache, closeCache := getCache(c.opts)
	defer closeCache()

	client := pinoydictionary.NewClient(fetcher.New(c.opts.Retries), cache)
	var scraped []pinoydictionary.ScrapedEntry
	if err := client.Scrape(ctx, c.Lang, &scraped); err != nil && !interrupted(err) {
		return err
	}
	if len(scraped) == 0 {
		log.Warn().Msg("no data to export")
		return nil
	}

	date := time.Now().Format(dateFormat)
	batch := collect.Batch[pinoydictionary.ScrapedEntry]{
		Meta: collect.Meta{
			Lang:           c.Lang,
			DefinitionLang: pinoydictionary.DefinitionLang,
			Date:           date,
			TotalEntries:   len(scraped),
			SourceTitle:    fmt.Sprintf("%s Pinoy Dictionary", pinoydictionary.SupportedLangs[c.Lang]),
			SourceLink:     pinoydictionary.SiteURL(c.Lang),
		},
		Entries: scraped,
	}
	path := export.UniquePath(filepath.Join(
		c.opts.DataDir, "dictionaries", "pinoydictionary", "scraped_data",
		fmt.Sprintf("dictionary_%s_%s_%d_%s.json", c.Lang, pinoydictionary.DefinitionLang, len(scraped), date)))
	if err := export.WriteJSON(path, batch); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("data successfully exported")
	return nil
}

type ParseDictionaryCommand struct {
	opts  *Opts
	Input string `long:"input" required:"true" description:"Scraped dictionary file"`
}

func (c *ParseDictionaryCommand) Execute([]string) error {
	batch, err := collect.ReadBatch[pinoydictionary.ScrapedEntry](c.Input)
	if err != nil {
		return err
	}
	parsed := parse.PinoyDictionary(batch.Entries)
	if len(parsed) == 0 {
		log.Warn().Msg("no data to export")
		return nil
	}

	out := collect.Batch[collect.DictionaryEntry]{
		Meta: collect.Meta{
			Lang:           batch.Meta.Lang,
			DefinitionLang: batch.Meta.DefinitionLang,
			SourceTitle:    batch.Meta.SourceTitle,
			SourceLink:     batch.Meta.SourceLink,
		},
		Entries: parsed,
	}
	path := export.UniquePath(filepath.Join(
		parsedDir(c.Input),
		fmt.Sprintf("dictionary_%s_%s_%d_%s_parsed.json",
			batch.Meta.Lang, batch.Meta.DefinitionLang, batch.Meta.TotalEntries, batch.Meta.Date)))
	if err := export.WriteJSON(path, out); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("data successfully exported")
	return nil
}

type ParseGCIDECommand struct {
	opts  *Opts
	Input string `long:"input" description:"Directory with gcide_<letter>.xml files"`
}

func (c *ParseGCIDECommand) Execute([]string) error {
	ctx, stop := runContext()
	defer stop()

	input := c.Input
	if input == "" {
		input = filepath.Join(c.opts.DataDir, "dictionaries", "gcide", "raw_data")
	}
	parsed, err := parse.GCIDE(ctx, input)
	if err != nil && !interrupted(err) {
		return err
	}
	if len(parsed) == 0 {
		log.Warn().Msg("no data to export")
		return nil
	}

	out := collect.Batch[collect.DictionaryEntry]{
		Meta: collect.Meta{
			Lang:           "eng",
			DefinitionLang: "eng",
			TotalEntries:   len(parsed),
			SourceTitle:    parse.GCIDESourceTitle,
			SourceLink:     parse.GCIDESourceLink,
		},
		Entries: parsed,
	}
	path := export.UniquePath(filepath.Join(
		c.opts.DataDir, "dictionaries", "gcide", "parsed",
		fmt.Sprintf("dictionary_eng_eng_%d.json", len(parsed))))
	if err := export.WriteJSON(path, out); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("data successfully exported")
	return nil
}

type ScrapePhrasebookCommand struct {
	opts *Opts
	Lang string `long:"lang" default:"tgl" description:"Translation language to scrape"`
}

func (c *ScrapePhrasebookCommand) Execute([]string) error {
	ctx, stop := runContext()
	defer stop()
	cache, closeCache := getCache(c.opts)
	defer closeCache()

	client := wikivoyage.NewClient(fetcher.New(c.opts.Retries), cache)
	var scraped []wikivoyage.ScrapedPhrase
	if err := client.Scrape(ctx, c.Lang, &scraped); err != nil && !interrupted(err) {
		return err
	}
	if len(scraped) == 0 {
		log.Warn().Msg("no data to export")
		return nil
	}

	date := time.Now().Format(dateFormat)
	batch := collect.Batch[wikivoyage.ScrapedPhrase]{
		Meta: collect.Meta{
			Lang:            wikivoyage.SourceLang,
			TranslationLang: c.Lang,
			Date:            date,
			TotalEntries:    len(scraped),
			SourceTitle:     fmt.Sprintf("%s Wikivoyage Phrasebook", wikivoyage.SupportedLangs[c.Lang]),
			SourceLink:      wikivoyage.PageURL(c.Lang),
		},
		Entries: scraped,
	}
	path := export.UniquePath(filepath.Join(
		c.opts.DataDir, "phrasebooks", "wikivoyage", "scraped_data",
		fmt.Sprintf("phrasebook_%s_%s_%d_%s.json", wikivoyage.SourceLang, c.Lang, len(scraped), date)))
	if err := export.WriteJSON(path, batch); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("data successfully exported")
	return nil
}

type ParsePhrasebookCommand struct {
	opts  *Opts
	Input string `long:"input" required:"true" description:"Scraped phrasebook file"`
}

func (c *ParsePhrasebookCommand) Execute([]string) error {
	batch, err := collect.ReadBatch[wikivoyage.ScrapedPhrase](c.Input)
	if err != nil {
		return err
	}
	parsed := parse.Wikivoyage(batch.Entries)
	if len(parsed) == 0 {
		log.Warn().Msg("no data to export")
		return nil
	}

	out := collect.Batch[collect.PhrasebookEntry]{
		Meta: collect.Meta{
			Lang:            batch.Meta.Lang,
			TranslationLang: batch.Meta.TranslationLang,
			SourceTitle:     batch.Meta.SourceTitle,
			SourceLink:      batch.Meta.SourceLink,
		},
		Entries: parsed,
	}
	path := export.UniquePath(filepath.Join(
		parsedDir(c.Input),
		fmt.Sprintf("phrases_%s_%s_%d_%s_parsed.json",
			batch.Meta.Lang, batch.Meta.TranslationLang, batch.Meta.TotalEntries, batch.Meta.Date)))
	if err := export.WriteJSON(path, out); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("data successfully exported")
	return nil
}

type CollectDictionariesCommand struct {
	opts *Opts
}

func (c *CollectDictionariesCommand) Execute([]string) error {
	ctx, stop := runContext()
	defer stop()

	dir := filepath.Join(c.opts.DataDir, "dictionaries")
	agg := collect.NewAggregate[collect.DictionaryEntry]("dictionary")
	err := collect.CollectDictionaries(ctx, dir, agg)
	if err != nil && !interrupted(err) {
		return err
	}
	agg.Write(filepath.Join(dir, "processed_data"))
	return nil
}

type CollectPhrasebooksCommand struct {
	opts *Opts
}

func (c *CollectPhrasebooksCommand) Execute([]string) error {
	ctx, stop := runContext()
	defer stop()

	dir := filepath.Join(c.opts.DataDir, "phrasebooks")
	agg := collect.NewAggregate[collect.PhrasebookEntry]("phrasebook")
	err := collect.CollectPhrasebooks(ctx, dir, agg)
	if err != nil && !interrupted(err) {
		return err
	}
	agg.Write(filepath.Join(dir, "processed_data"))
	return nil
}

type WordlistsCommand struct {
	opts *Opts
}

func (c *WordlistsCommand) Execute([]string) error {
	ctx, stop := runContext()
	defer stop()

	lists := make(wordlist.Lists)
	err := wordlist.Generate(ctx, filepath.Join(c.opts.DataDir, "dictionaries"), lists)
	if err != nil && !interrupted(err) {
		return err
	}
	_, err = wordlist.Export(lists, filepath.Join(c.opts.DataDir, "wordlists", "processed_data"))
	return err
}

type FreqlistsCommand struct {
	opts *Opts
}

func (c *FreqlistsCommand) Execute([]string) error {
	ctx, stop := runContext()
	defer stop()

	lists := make(freqlist.Lists)
	err := freqlist.Generate(ctx,
		filepath.Join(c.opts.DataDir, "wordlists", "processed_data"),
		filepath.Join(c.opts.DataDir, "freqlists", "raw_data", "leipzig"),
		lists)
	if err != nil && !interrupted(err) {
		return err
	}
	_, err = freqlist.Export(lists, filepath.Join(c.opts.DataDir, "freqlists", "processed_data"))
	return err
}

type ReleaseCommand struct {
	opts *Opts
}

func (c *ReleaseCommand) Execute([]string) error {
	_, err := release.Build(c.opts.DataDir, filepath.Join(c.opts.DataDir, "release"))
	return err
}

type ServeCommand struct {
	opts *Opts
	Port int `long:"port" env:"PORT" default:"8080" description:"Port to listen on"`
}

func (c *ServeCommand) Execute([]string) error {
	log.Info().Int("port", c.Port).Msg("starting catalog server")
	server := api.NewServer(filepath.Join(c.opts.DataDir, "release"))
	return server.Run(c.Port)
}

// parsedDir maps a scraped_data file to its sibling parsed directory.
func parsedDir(input string) string {
	return filepath.Join(filepath.Dir(filepath.Dir(input)), "parsed")
}
