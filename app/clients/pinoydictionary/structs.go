package pinoydictionary

// ScrapedEntry is one raw word block lifted from a listing page. The
// definition keeps its markup; cleaning it up is the parser's job.
type ScrapedEntry struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Source     string `json:"source"`
}
