// Package translate enriches lemmas with glosses from an optional lookup
// service. Lookups are best-effort: every failure degrades to an absent
// translation and is never returned to the caller.
package translate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cognicore/lexstat/pkg/lexstat/store"
)

// Lookup fetches glosses for a lemma.
// It returns nil, nil when the lemma is unknown to the service.
type Lookup interface {
	Translate(ctx context.Context, lemma string) ([]string, error)
}

// None is a Lookup that knows nothing.
type None struct{}

// Translate implements Lookup.
func (None) Translate(ctx context.Context, lemma string) ([]string, error) {
	return nil, nil
}

// Translation is an optional gloss list.
type Translation struct {
	Glosses []string
	Found   bool
}

// Text joins the glosses with sep, or returns "" when absent.
func (t Translation) Text(sep string) string {
	if !t.Found {
		return ""
	}
	return strings.Join(t.Glosses, sep)
}

// Backing persists translations between runs. store.Store satisfies it.
type Backing interface {
	GetTranslation(ctx context.Context, lemma string) (store.Translation, bool, error)
	UpsertTranslation(ctx context.Context, t store.Translation) error
}

// Cache fronts a Lookup so each lemma is requested at most once.
// It is not safe for concurrent use.
type Cache struct {
	lookup  Lookup
	backing Backing
	memo    map[string]Translation
	log     *slog.Logger
	now     func() time.Time

	requests int
	failures int
}

// NewCache creates a cache over lookup. backing may be nil.
func NewCache(lookup Lookup, backing Backing, logger *slog.Logger) *Cache {
	if lookup == nil {
		lookup = None{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		lookup:  lookup,
		backing: backing,
		memo:    make(map[string]Translation),
		log:     logger.With("component", "translate"),
		now:     time.Now,
	}
}

// Get returns the translation of lemma, asking the lookup service only the
// first time the lemma is seen. Failures are logged and remembered as absent,
// so a failed lemma is not retried in the same run.
func (c *Cache) Get(ctx context.Context, lemma string) Translation {
	if t, ok := c.memo[lemma]; ok {
		return t
	}

	if c.backing != nil {
		rec, ok, err := c.backing.GetTranslation(ctx, lemma)
		if err != nil {
			c.log.WarnContext(ctx, "translation cache read failed",
				slog.String("lemma", lemma), slog.String("error", err.Error()))
		} else if ok {
			t := Translation{Glosses: rec.Glosses, Found: rec.Found}
			c.memo[lemma] = t
			return t
		}
	}

	c.requests++
	glosses, err := c.lookup.Translate(ctx, lemma)
	if err != nil {
		c.failures++
		c.log.WarnContext(ctx, "translation lookup unavailable",
			slog.String("lemma", lemma), slog.String("error", err.Error()))
		t := Translation{}
		c.memo[lemma] = t
		return t
	}

	t := Translation{Glosses: glosses, Found: len(glosses) > 0}
	c.memo[lemma] = t

	if c.backing != nil {
		rec := store.Translation{
			Lemma:     lemma,
			Glosses:   glosses,
			Found:     t.Found,
			FetchedAt: c.now().UTC(),
		}
		if err := c.backing.UpsertTranslation(ctx, rec); err != nil {
			c.log.WarnContext(ctx, "translation cache write failed",
				slog.String("lemma", lemma), slog.String("error", err.Error()))
		}
	}
	return t
}

// Stats reports how many lookups were sent and how many failed.
func (c *Cache) Stats() (requests, failures int) {
	return c.requests, c.failures
}
