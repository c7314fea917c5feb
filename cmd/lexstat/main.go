package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cognicore/lexstat/internal/wiktionary"
	"github.com/cognicore/lexstat/pkg/lexstat"
	"github.com/cognicore/lexstat/pkg/lexstat/config"
	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/pmi"
	"github.com/cognicore/lexstat/pkg/lexstat/report"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
	"github.com/cognicore/lexstat/pkg/lexstat/store/sqlite"
	"github.com/cognicore/lexstat/pkg/lexstat/translate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one analysis and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lexstat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "YAML config file (optional)")
		corpusPath = fs.String("corpus", "", "Corpus zip archive, directory or single XML file")
		top        = fs.Int("top", 50, "Rows in the frequency and centrality rankings")
		k          = fs.Int("k", 200, "Co-occurrence graph size (0 = whole vocabulary)")
		pos        = fs.String("pos", "noun", "Target part of speech")
		m          = fs.Int("m", 20, "Rows in the target part-of-speech ranking")
		coverage   = fs.Float64("coverage", 0.9, "Core vocabulary fraction in (0, 1]")
		format     = fs.String("format", "text", "Report format: text, json or yaml")
		out        = fs.String("out", "", "Append the report to this file instead of stdout")
		graphOut   = fs.String("graph", "", "Write the co-occurrence graph as JSON to this file")
		dbPath     = fs.String("db", "", "SQLite database for results and the translation cache")
		withGloss  = fs.Bool("translate", false, "Look up glosses for reported lemmas")
		listRuns   = fs.Bool("list-runs", false, "List runs stored in -db instead of analysing")
		showRun    = fs.String("show-run", "", "Print a run stored in -db instead of analysing")
		neighbors  = fs.Int("neighbors", 3, "Graph neighbors printed per lemma with -show-run")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "lexstat: %v\n", err)
		return 1
	}

	// Flags given explicitly win over the file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "corpus":
			cfg.Corpus.Path = *corpusPath
		case "top":
			cfg.Analysis.TopN = *top
		case "k":
			cfg.Analysis.GraphK = *k
		case "pos":
			cfg.Analysis.TargetPOS = *pos
		case "m":
			cfg.Analysis.TopM = *m
		case "coverage":
			cfg.Analysis.Coverage = *coverage
		case "format":
			cfg.Report.Format = *format
		case "out":
			cfg.Report.Out = *out
		case "graph":
			cfg.Report.Graph = *graphOut
		case "db":
			cfg.Store.Path = *dbPath
		case "translate":
			cfg.Translate.Enabled = *withGloss
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "lexstat: config: %v\n", err)
		return 1
	}

	logger := lexstat.NewLogger(cfg.Log)

	if *listRuns || *showRun != "" {
		if err := history(ctx, cfg, *showRun, *neighbors, stdout); err != nil {
			logger.Error("read stored runs", slog.String("error", err.Error()))
			return 1
		}
		return 0
	}

	engine, cleanup, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		logger.Error("setup failed", slog.String("error", err.Error()))
		return 1
	}
	defer cleanup()

	res, err := engine.Run(ctx)
	if err != nil {
		if cre, ok := ingest.AsCorpusReadError(err); ok {
			logger.Error("corpus unreadable",
				slog.String("document", cre.Document),
				slog.Int64("tokens_before_failure", res.Table.Total()),
				slog.String("error", cre.Err.Error()),
			)
		} else {
			logger.Error("run failed", slog.String("error", err.Error()))
		}
		return 1
	}

	var sink report.Sink = report.WriterSink{W: stdout}
	if cfg.Report.Out != "" {
		sink = report.FileSink{Path: cfg.Report.Out}
	}
	if err := report.Emit(sink, res.Report, cfg.Report.Format); err != nil {
		logger.Error("write report", slog.String("error", err.Error()))
		return 1
	}

	if cfg.Report.Graph != "" {
		if err := writeGraph(cfg, res); err != nil {
			logger.Error("write graph", slog.String("error", err.Error()))
			return 1
		}
	}
	return 0
}

// buildEngine opens the corpus and the optional collaborators.
// The returned cleanup releases them.
func buildEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*lexstat.Engine, func(), error) {
	opts, err := lexstat.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	opts.Logger = logger

	src, err := lexstat.OpenCorpus(cfg.Corpus)
	if err != nil {
		return nil, nil, err
	}
	opts.Source = src
	closers := []func() error{src.Close}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("cleanup", slog.String("error", err.Error()))
			}
		}
	}

	var st store.Store
	if cfg.Store.Path != "" {
		st, err = sqlite.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		opts.Store = st
		closers = append(closers, st.Close)
	}

	if cfg.Translate.Enabled {
		provider := wiktionary.NewProvider(wiktionary.Config{
			BaseURL:   cfg.Translate.BaseURL,
			Language:  cfg.Translate.Language,
			Separator: cfg.Translate.Separator,
			UserAgent: cfg.Translate.UserAgent,
			Timeout:   cfg.Translate.Timeout,
		}, logger)
		var backing translate.Backing
		if st != nil {
			backing = st
		}
		opts.Translations = translate.NewCache(provider, backing, logger)
	}

	return lexstat.New(opts), cleanup, nil
}

// history prints stored runs: one run when id is set, the listing otherwise.
func history(ctx context.Context, cfg *config.Config, id string, neighbors int, w io.Writer) error {
	if cfg.Store.Path == "" {
		return fmt.Errorf("%w: a database is required (-db or store.path)", internalerr.ErrInvalidConfig)
	}
	st, err := sqlite.OpenSQLite(ctx, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if id == "" {
		runs, err := lexstat.ListRuns(ctx, st, 0)
		if err != nil {
			return err
		}
		return report.RenderRuns(w, runs, cfg.Report.Format)
	}

	stored, err := lexstat.LoadRun(ctx, st, id, cfg.Analysis.TopN, neighbors)
	if err != nil {
		return err
	}
	return report.RenderStoredRun(w, stored, cfg.Report.Format)
}

func writeGraph(cfg *config.Config, res *lexstat.Result) error {
	f, err := os.Create(cfg.Report.Graph)
	if err != nil {
		return err
	}
	if err := report.WriteGraphJSON(f, res.GraphDoc(pmi.NewCalculator(cfg.Analysis.Epsilon))); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
