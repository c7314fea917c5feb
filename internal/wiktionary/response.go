package wiktionary

// apiUsage is one part-of-speech block in a definition response. The
// response maps a language code to a list of these.
type apiUsage struct {
	PartOfSpeech string          `json:"partOfSpeech"`
	Language     string          `json:"language"`
	Definitions  []apiDefinition `json:"definitions"`
}

// apiDefinition holds a single sense as an HTML fragment.
type apiDefinition struct {
	Definition string   `json:"definition"`
	Examples   []string `json:"examples,omitempty"`
}
