package lexstat

import (
	"fmt"

	"github.com/cognicore/lexstat/pkg/lexstat/config"
	"github.com/cognicore/lexstat/pkg/lexstat/corpus"
	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/pmi"
)

// OpenCorpus opens the configured corpus. A missing or unreadable path is
// reported as a *ingest.CorpusReadError naming the path.
func OpenCorpus(cfg config.CorpusConfig) (corpus.Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: corpus path is empty", internalerr.ErrInvalidConfig)
	}
	var filter corpus.Filter
	if cfg.Extension != "" {
		filter = corpus.ExtFilter(cfg.Extension)
	}
	src, err := corpus.Open(cfg.Path, filter)
	if err != nil {
		return nil, &ingest.CorpusReadError{Document: cfg.Path, Err: err}
	}
	return src, nil
}

// SchemaOf returns the XML element and attribute names from cfg.
func SchemaOf(cfg config.CorpusConfig) ingest.Schema {
	return ingest.Schema{
		WordElement:  cfg.WordElement,
		LemmaElement: cfg.LemmaElement,
		LemmaAttr:    cfg.LemmaAttr,
		POSAttr:      cfg.POSAttr,
	}
}

// OptionsFromConfig maps cfg onto engine options. Source, Store,
// Translations and Logger are left for the caller.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := Options{
		CorpusName: cfg.Corpus.Path,
		Schema:     SchemaOf(cfg.Corpus),
		Normalize:  ingest.NormalizerByName(cfg.Corpus.Normalize),
		TopN:       cfg.Analysis.TopN,
		GraphK:     cfg.Analysis.GraphK,
		TopM:       cfg.Analysis.TopM,
		TargetPOS:  cfg.Analysis.TargetPOS,
		Coverage:   cfg.Analysis.Coverage,
		PMI:        pmi.NewCalculatorFromConfig(pmi.Config{Epsilon: cfg.Analysis.Epsilon}),
	}

	aliases := (*config.POSAliases)(nil)
	if cfg.Analysis.POSAliases != "" {
		pa, err := config.LoadPOSAliases(cfg.Analysis.POSAliases)
		if err != nil {
			return Options{}, fmt.Errorf("%w: pos aliases: %v", internalerr.ErrInvalidConfig, err)
		}
		aliases = pa
	}
	opts.POSMatch = aliases.Matcher(cfg.Analysis.TargetPOS)

	if cfg.Translate.Separator != "" {
		opts.TranslateSep = cfg.Translate.Separator
	}
	return opts, nil
}
