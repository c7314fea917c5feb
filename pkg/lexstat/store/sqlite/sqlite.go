package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
)

// timeLayout is fixed-width so timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	corpus TEXT,
	documents INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	distinct_lemmas INTEGER NOT NULL DEFAULT 0,
	graph_k INTEGER NOT NULL DEFAULT 0,
	nodes INTEGER NOT NULL DEFAULT 0,
	edges INTEGER NOT NULL DEFAULT 0,
	core_size INTEGER NOT NULL DEFAULT 0,
	cumulative INTEGER NOT NULL DEFAULT 0,
	fraction REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_lemmas (
	run_id TEXT NOT NULL,
	lemma TEXT NOT NULL,
	pos TEXT,
	count INTEGER NOT NULL,
	rank INTEGER NOT NULL,
	zipf INTEGER NOT NULL,
	degree INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY(run_id, lemma),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_lemmas_rank ON run_lemmas(run_id, rank);

CREATE TABLE IF NOT EXISTS run_edges (
	run_id TEXT NOT NULL,
	a TEXT NOT NULL,
	b TEXT NOT NULL,
	weight INTEGER NOT NULL,
	pmi REAL NOT NULL DEFAULT 0,
	PRIMARY KEY(run_id, a, b),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_edges_b ON run_edges(run_id, b);

CREATE TABLE IF NOT EXISTS translations (
	lemma TEXT PRIMARY KEY,
	glosses TEXT NOT NULL,
	found INTEGER NOT NULL,
	fetched_at TEXT NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or updates a run
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: %w: empty id", internalerr.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, created_at, corpus, documents, total_tokens, distinct_lemmas,
	graph_k, nodes, edges, core_size, cumulative, fraction)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	corpus=excluded.corpus,
	documents=excluded.documents,
	total_tokens=excluded.total_tokens,
	distinct_lemmas=excluded.distinct_lemmas,
	graph_k=excluded.graph_k,
	nodes=excluded.nodes,
	edges=excluded.edges,
	core_size=excluded.core_size,
	cumulative=excluded.cumulative,
	fraction=excluded.fraction;
`,
		r.ID,
		r.CreatedAt.UTC().Format(timeLayout),
		r.Corpus,
		r.Documents,
		r.TotalTokens,
		r.DistinctLemmas,
		r.GraphK,
		r.Nodes,
		r.Edges,
		r.CoreSize,
		r.Cumulative,
		r.Fraction,
	)
	return err
}

const runColumns = `id, created_at, corpus, documents, total_tokens, distinct_lemmas,
	graph_k, nodes, edges, core_size, cumulative, fraction`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(sc rowScanner) (store.Run, error) {
	var (
		r       store.Run
		created string
		corpus  sql.NullString
	)
	err := sc.Scan(&r.ID, &created, &corpus, &r.Documents, &r.TotalTokens, &r.DistinctLemmas,
		&r.GraphK, &r.Nodes, &r.Edges, &r.CoreSize, &r.Cumulative, &r.Fraction)
	if err != nil {
		return store.Run{}, err
	}
	r.Corpus = corpus.String
	if ts, err := time.Parse(timeLayout, created); err == nil {
		r.CreatedAt = ts
	}
	return r, nil
}

// GetRun retrieves a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, err
}

// ListRuns returns runs newest first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveLemmas replaces the ranked lemmas of a run
func (s *sqliteStore) SaveLemmas(ctx context.Context, runID string, rows []store.LemmaRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_lemmas WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(rows) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO run_lemmas (run_id, lemma, pos, count, rank, zipf, degree)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range rows {
			if _, err := stmt.ExecContext(ctx, runID, r.Lemma, r.POS, r.Count, r.Rank, r.Zipf, r.Degree); err != nil {
				return fmt.Errorf("insert lemma %q: %w", r.Lemma, err)
			}
		}
	}
	return tx.Commit()
}

// GetLemmas returns ranked lemmas of a run in rank order
func (s *sqliteStore) GetLemmas(ctx context.Context, runID string, limit int) ([]store.LemmaRow, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT lemma, pos, count, rank, zipf, degree
FROM run_lemmas
WHERE run_id = ?
ORDER BY rank ASC
LIMIT ?;
`, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.LemmaRow
	for rows.Next() {
		var (
			r   store.LemmaRow
			pos sql.NullString
		)
		if err := rows.Scan(&r.Lemma, &pos, &r.Count, &r.Rank, &r.Zipf, &r.Degree); err != nil {
			return nil, err
		}
		r.POS = pos.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveEdges replaces the graph edges of a run
func (s *sqliteStore) SaveEdges(ctx context.Context, runID string, edges []store.EdgeRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_edges WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(edges) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_edges (run_id, a, b, weight, pmi) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range edges {
			if e.A == e.B {
				continue
			}
			if _, err := stmt.ExecContext(ctx, runID, e.A, e.B, e.Weight, e.PMI); err != nil {
				return fmt.Errorf("insert edge %q-%q: %w", e.A, e.B, err)
			}
		}
	}
	return tx.Commit()
}

// TopNeighbors returns the heaviest edges touching lemma in a run
func (s *sqliteStore) TopNeighbors(ctx context.Context, runID, lemma string, k int) ([]store.Neighbor, error) {
	if k <= 0 {
		k = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT other, weight, pmi FROM (
	SELECT b AS other, weight, pmi FROM run_edges WHERE run_id = ? AND a = ?
	UNION ALL
	SELECT a AS other, weight, pmi FROM run_edges WHERE run_id = ? AND b = ?
)
ORDER BY weight DESC, other ASC
LIMIT ?;
`, runID, lemma, runID, lemma, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Neighbor
	for rows.Next() {
		var n store.Neighbor
		if err := rows.Scan(&n.Lemma, &n.Weight, &n.PMI); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetTranslation returns a cached translation
func (s *sqliteStore) GetTranslation(ctx context.Context, lemma string) (store.Translation, bool, error) {
	var (
		glossJSON string
		found     bool
		fetched   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT glosses, found, fetched_at FROM translations WHERE lemma = ?`, lemma,
	).Scan(&glossJSON, &found, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Translation{}, false, nil
	}
	if err != nil {
		return store.Translation{}, false, err
	}

	t := store.Translation{Lemma: lemma, Found: found}
	if err := json.Unmarshal([]byte(glossJSON), &t.Glosses); err != nil {
		return store.Translation{}, false, fmt.Errorf("decode glosses for %q: %w", lemma, err)
	}
	if ts, err := time.Parse(timeLayout, fetched); err == nil {
		t.FetchedAt = ts
	}
	return t, true, nil
}

// UpsertTranslation stores a translation
func (s *sqliteStore) UpsertTranslation(ctx context.Context, t store.Translation) error {
	if t.Lemma == "" {
		return fmt.Errorf("upsert translation: %w: empty lemma", internalerr.ErrInvalidInput)
	}
	glosses := t.Glosses
	if glosses == nil {
		glosses = []string{}
	}
	glossJSON, err := json.Marshal(glosses)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO translations (lemma, glosses, found, fetched_at) VALUES (?, ?, ?, ?)
ON CONFLICT(lemma) DO UPDATE SET
	glosses=excluded.glosses,
	found=excluded.found,
	fetched_at=excluded.fetched_at;
`, t.Lemma, string(glossJSON), t.Found, t.FetchedAt.UTC().Format(timeLayout))
	return err
}
