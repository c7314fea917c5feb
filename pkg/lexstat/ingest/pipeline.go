package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cognicore/lexstat/pkg/lexstat/corpus"
)

// Reader streams tokens from every document of a corpus source:
// documents in enumeration order, tokens in textual order within each.
type Reader struct {
	source    corpus.Source
	schema    Schema
	normalize Normalizer
	log       *slog.Logger
}

// Options configures a Reader.
type Options struct {
	Schema    Schema
	Normalize Normalizer
	Logger    *slog.Logger
}

// NewReader creates a reader over source.
func NewReader(source corpus.Source, opts Options) *Reader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		source:    source,
		schema:    opts.Schema.withDefaults(),
		normalize: opts.Normalize,
		log:       logger.With("component", "ingest"),
	}
}

// Stats summarizes one pass over the corpus.
type Stats struct {
	Documents    int
	Tokens       int64
	SkippedWords int64
}

// Each hands every token to fn in corpus order.
//
// The first unreadable or malformed document stops the pass with a
// *CorpusReadError; tokens from earlier documents have already been delivered.
// An error returned by fn stops the pass and is returned unchanged.
func (r *Reader) Each(ctx context.Context, fn func(Token) error) (Stats, error) {
	var stats Stats

	docs, err := r.source.Documents(ctx)
	if err != nil {
		return stats, &CorpusReadError{Document: "<collection>", Err: err}
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		n, skipped, err := r.readDocument(doc, fn)
		stats.Tokens += n
		stats.SkippedWords += skipped
		if err != nil {
			return stats, err
		}
		stats.Documents++
		r.log.DebugContext(ctx, "document read",
			slog.String("document", doc.Name),
			slog.Int64("tokens", n),
			slog.Int64("skipped_words", skipped),
		)
	}
	return stats, nil
}

func (r *Reader) readDocument(doc corpus.Document, fn func(Token) error) (n, skipped int64, err error) {
	rc, err := doc.Open()
	if err != nil {
		return 0, 0, &CorpusReadError{Document: doc.Name, Err: err}
	}
	defer rc.Close()

	sc := NewScanner(rc, r.schema, r.normalize)
	for {
		tok, err := sc.Next()
		if errors.Is(err, io.EOF) {
			return n, int64(sc.SkippedWords()), nil
		}
		if err != nil {
			return n, int64(sc.SkippedWords()), &CorpusReadError{
				Document: doc.Name,
				Err:      fmt.Errorf("after %d tokens: %w", n, err),
			}
		}
		if err := fn(tok); err != nil {
			return n, int64(sc.SkippedWords()), err
		}
		n++
	}
}
