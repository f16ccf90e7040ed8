package wikivoyage

// ScrapedPhrase is one dt/dd pair lifted from a phrasebook page, still
// carrying its markup.
type ScrapedPhrase struct {
	Phrase      string `json:"phrase"`
	Translation string `json:"translation"`
	Category    string `json:"category"`
	Source      string `json:"source"`
}
