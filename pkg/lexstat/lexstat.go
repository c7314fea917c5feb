// Package lexstat wires the corpus reader, frequency accumulator, ranking,
// co-occurrence graph and coverage analysis into one run.
package lexstat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cognicore/lexstat/pkg/lexstat/analytics"
	"github.com/cognicore/lexstat/pkg/lexstat/corpus"
	"github.com/cognicore/lexstat/pkg/lexstat/freq"
	"github.com/cognicore/lexstat/pkg/lexstat/graph"
	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/pmi"
	"github.com/cognicore/lexstat/pkg/lexstat/rank"
	"github.com/cognicore/lexstat/pkg/lexstat/report"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
	"github.com/cognicore/lexstat/pkg/lexstat/translate"
)

// Options configures an Engine. Only Source is required.
type Options struct {
	Source     corpus.Source
	CorpusName string
	Schema     ingest.Schema
	Normalize  ingest.Normalizer

	TopN      int     // frequency and centrality rows in the report
	GraphK    int     // nodes of the co-occurrence graph, <= 0 means all
	TopM      int     // rows of the target-POS centrality section
	TargetPOS string  // label of the target-POS section
	POSMatch  func(pos string) bool
	Coverage  float64 // core vocabulary fraction, default 0.9

	PMI          *pmi.Calculator
	Translations *translate.Cache
	TranslateSep string
	Store        store.Store
	Logger       *slog.Logger
}

// Engine runs the analysis pipeline.
type Engine struct {
	opts    Options
	builder *report.Builder
	log     *slog.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Coverage <= 0 {
		opts.Coverage = analytics.DefaultCoverageFraction
	}
	if opts.POSMatch == nil {
		opts.POSMatch = analytics.ExactPOS(opts.TargetPOS)
	}
	if opts.PMI == nil {
		opts.PMI = pmi.NewCalculatorFromConfig(pmi.DefaultConfig())
	}
	if opts.TranslateSep == "" {
		opts.TranslateSep = "; "
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		opts:    opts,
		builder: report.NewBuilder(),
		log:     logger.With("component", "engine"),
	}
}

// Result holds everything a run computed.
type Result struct {
	Read       ingest.Stats
	Table      *freq.Table
	Ranking    []rank.Entry
	Graph      *graph.Graph
	Centrality []analytics.Centrality
	Target     []analytics.Centrality
	Coverage   analytics.Coverage
	Report     report.Report
}

// GraphDoc returns the top-K graph with PMI-scored edges.
func (r *Result) GraphDoc(calc *pmi.Calculator) report.GraphDoc {
	return report.NewGraphDoc(r.Graph, r.Table.Total(), calc)
}

// Run reads the whole corpus and analyses it.
//
// A corpus read failure aborts the run: the returned Result then carries only
// Read and Table, built from the tokens accumulated before the failure, and
// the error is a *ingest.CorpusReadError.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if e.opts.Source == nil {
		return nil, fmt.Errorf("engine: %w: no corpus source", internalerr.ErrInvalidInput)
	}
	start := time.Now()

	acc := freq.NewAccumulator()
	reader := ingest.NewReader(e.opts.Source, ingest.Options{
		Schema:    e.opts.Schema,
		Normalize: e.opts.Normalize,
		Logger:    e.log,
	})

	stats, err := reader.Each(ctx, acc.Consume)
	res := &Result{Read: stats, Table: acc.Snapshot()}
	if err != nil {
		e.log.ErrorContext(ctx, "corpus read failed",
			slog.Int("documents", stats.Documents),
			slog.Int64("tokens", stats.Tokens),
			slog.String("error", err.Error()),
		)
		return res, err
	}

	e.log.InfoContext(ctx, "corpus read",
		slog.Int("documents", stats.Documents),
		slog.Int64("tokens", stats.Tokens),
		slog.Int("distinct_lemmas", res.Table.Distinct()),
		slog.Int64("skipped_words", stats.SkippedWords),
	)

	e.analyse(res)

	zipf := rank.Summarize(res.Ranking)
	e.log.InfoContext(ctx, "analysis done",
		slog.Int64("zipf_min", zipf.Min),
		slog.Int64("zipf_max", zipf.Max),
		slog.Float64("zipf_mean", zipf.Mean),
		slog.Int("nodes", res.Graph.NodeCount()),
		slog.Int("edges", res.Graph.EdgeCount()),
		slog.Int("core_size", res.Coverage.CoreSize),
		slog.Bool("coverage_reached", res.Coverage.Reached),
		slog.Duration("elapsed", time.Since(start)),
	)

	res.Report = e.builder.Build(e.reportInput(ctx, res))

	if e.opts.Store != nil {
		if err := e.persist(ctx, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (e *Engine) analyse(res *Result) {
	res.Ranking = rank.Rank(res.Table.Records())
	res.Graph = graph.Build(res.Ranking, res.Table, e.opts.GraphK)
	res.Centrality = analytics.CentralityRanking(res.Graph)
	res.Target = analytics.TopByPOS(res.Centrality, e.opts.TopM, e.opts.POSMatch)
	res.Coverage = analytics.CoreVocabulary(res.Table, e.opts.Coverage)
}

func (e *Engine) reportInput(ctx context.Context, res *Result) report.Input {
	in := report.Input{
		Corpus:           e.opts.CorpusName,
		Documents:        res.Read.Documents,
		TotalTokens:      res.Table.Total(),
		DistinctLemmas:   res.Table.Distinct(),
		Ranking:          rank.Top(res.Ranking, e.opts.TopN),
		Centrality:       analytics.TopN(res.Centrality, e.opts.TopN),
		TargetPOS:        e.opts.TargetPOS,
		TargetCentrality: res.Target,
		Coverage:         res.Coverage,
	}
	if e.opts.Translations != nil {
		in.Translate = func(lemma string) string {
			return e.opts.Translations.Get(ctx, lemma).Text(e.opts.TranslateSep)
		}
	}
	return in
}

func (e *Engine) persist(ctx context.Context, res *Result) error {
	r := res.Report
	run := store.Run{
		ID:             r.ID,
		CreatedAt:      r.CreatedAt,
		Corpus:         r.Corpus,
		Documents:      r.Documents,
		TotalTokens:    r.TotalTokens,
		DistinctLemmas: r.DistinctLemmas,
		GraphK:         e.opts.GraphK,
		Nodes:          res.Graph.NodeCount(),
		Edges:          res.Graph.EdgeCount(),
		CoreSize:       res.Coverage.CoreSize,
		Cumulative:     res.Coverage.Cumulative,
		Fraction:       res.Coverage.Fraction,
	}
	if err := e.opts.Store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w: %v", internalerr.ErrStoreUnavailable, err)
	}

	rows := make([]store.LemmaRow, len(res.Ranking))
	for i, en := range res.Ranking {
		rows[i] = store.LemmaRow{
			Lemma:  en.Lemma,
			POS:    en.POS,
			Count:  en.Count,
			Rank:   en.Rank,
			Zipf:   en.Zipf,
			Degree: res.Graph.Degree(en.Lemma),
		}
	}
	if err := e.opts.Store.SaveLemmas(ctx, run.ID, rows); err != nil {
		return fmt.Errorf("save lemmas: %w: %v", internalerr.ErrStoreUnavailable, err)
	}

	doc := res.GraphDoc(e.opts.PMI)
	edges := make([]store.EdgeRow, len(doc.Edges))
	for i, ed := range doc.Edges {
		edges[i] = store.EdgeRow{A: ed.A, B: ed.B, Weight: ed.Weight, PMI: ed.PMI}
	}
	if err := e.opts.Store.SaveEdges(ctx, run.ID, edges); err != nil {
		return fmt.Errorf("save edges: %w: %v", internalerr.ErrStoreUnavailable, err)
	}

	e.log.InfoContext(ctx, "run saved",
		slog.String("run_id", run.ID),
		slog.Int("lemmas", len(rows)),
		slog.Int("edges", len(edges)),
	)
	return nil
}
