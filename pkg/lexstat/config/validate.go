package config

import (
	"fmt"
	"strings"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
)

var reportFormats = []string{"text", "json", "yaml"}

// Validate checks value ranges. Load calls it automatically; callers that
// override fields afterwards (CLI flags) should call it again.
func (c *Config) Validate() error {
	if err := c.Analysis.validate(); err != nil {
		return fmt.Errorf("%w: analysis: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := c.Corpus.validate(); err != nil {
		return fmt.Errorf("%w: corpus: %v", internalerr.ErrInvalidConfig, err)
	}

	c.Report.Format = strings.ToLower(strings.TrimSpace(c.Report.Format))
	if c.Report.Format == "" {
		c.Report.Format = "text"
	}
	if !contains(reportFormats, c.Report.Format) {
		return fmt.Errorf("%w: report: format must be one of %s (got %q)",
			internalerr.ErrInvalidConfig, strings.Join(reportFormats, ", "), c.Report.Format)
	}

	if c.Translate.Enabled && c.Translate.Timeout <= 0 {
		return fmt.Errorf("%w: translate: timeout must be > 0 (got %v)", internalerr.ErrInvalidConfig, c.Translate.Timeout)
	}
	return nil
}

func (a *AnalysisConfig) validate() error {
	if a.TopN < 0 {
		return fmt.Errorf("top_n must be >= 0 (got %d)", a.TopN)
	}
	if a.GraphK < 0 {
		return fmt.Errorf("graph_k must be >= 0 (got %d)", a.GraphK)
	}
	if a.TopM < 0 {
		return fmt.Errorf("top_m must be >= 0 (got %d)", a.TopM)
	}
	if a.Coverage <= 0 || a.Coverage > 1 {
		return fmt.Errorf("coverage must be in (0, 1] (got %v)", a.Coverage)
	}
	if a.Epsilon < 0 {
		return fmt.Errorf("pmi_epsilon must be >= 0 (got %v)", a.Epsilon)
	}
	return nil
}

func (c *CorpusConfig) validate() error {
	switch strings.ToLower(c.Normalize) {
	case "", "nfc", "none":
	default:
		return fmt.Errorf("normalize must be nfc or none (got %q)", c.Normalize)
	}
	if c.WordElement == "" || c.LemmaElement == "" || c.LemmaAttr == "" {
		return fmt.Errorf("word_element, lemma_element and lemma_attr must be set")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
