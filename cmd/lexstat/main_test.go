package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/lexstat/pkg/lexstat/report"
	"github.com/cognicore/lexstat/pkg/lexstat/store/sqlite"
)

func writeCorpus(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "corpus.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	docs := map[string]string{
		"doc1.xml": `<text><word><lemma entry="A" POS="noun"/></word><word><lemma entry="B" POS="verb"/></word><word><lemma entry="A" POS="noun"/></word></text>`,
		"doc2.xml": `<text><word><lemma entry="B" POS="verb"/></word><word><lemma entry="A" POS="noun"/></word></text>`,
	}
	for _, name := range []string{"doc1.xml", "doc2.xml"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(docs[name]))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return path
}

func TestRunTextReport(t *testing.T) {
	dir := t.TempDir()
	corpus := writeCorpus(t, dir)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-corpus", corpus, "-top", "5"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{
		"Total tokens: 5",
		"A: 3 (rank: 1, product: 3)",
		"B: 2 (rank: 2, product: 4)",
		"Top 1 noun by weighted degree:",
		"Core vocabulary: 2 lemmas",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRunJSONWithStoreAndGraph(t *testing.T) {
	dir := t.TempDir()
	corpus := writeCorpus(t, dir)
	outPath := filepath.Join(dir, "report.json")
	graphPath := filepath.Join(dir, "graph.json")
	dbPath := filepath.Join(dir, "results.db")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"-corpus", corpus, "-format", "json", "-out", outPath, "-graph", graphPath, "-db", dbPath,
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("report should go to the file, stdout = %q", stdout.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.TotalTokens != 5 || len(rep.Ranking) != 2 {
		t.Errorf("report = %+v", rep)
	}

	data, err = os.ReadFile(graphPath)
	if err != nil {
		t.Fatal(err)
	}
	var g report.GraphDoc
	if err := json.Unmarshal(data, &g); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	if len(g.Edges) != 1 || g.Edges[0].Weight != 4 {
		t.Errorf("graph edges = %+v", g.Edges)
	}

	st, err := sqlite.OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	saved, err := st.GetRun(context.Background(), rep.ID)
	if err != nil {
		t.Fatalf("run not stored: %v", err)
	}
	if saved.TotalTokens != 5 {
		t.Errorf("stored run = %+v", saved)
	}
}

func TestRunMissingCorpusExitsOne(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-corpus", filepath.Join(t.TempDir(), "missing.zip")}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunMalformedDocumentExitsOne(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(bad, []byte(`<text><word>`), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-corpus", bad}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("no report expected on failure, got %q", stdout.String())
	}
}

func TestRunInvalidConfigExitsOne(t *testing.T) {
	corpus := writeCorpus(t, t.TempDir())
	tests := [][]string{
		{"-corpus", corpus, "-coverage", "1.5"},
		{"-corpus", corpus, "-format", "html"},
		{"-corpus", corpus, "-top", "-1"},
		{"-config", filepath.Join(t.TempDir(), "none.yaml")},
		{},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(context.Background(), args, &stdout, &stderr); code != 1 {
			t.Errorf("run(%v) exit code = %d, want 1", args, code)
		}
	}
}

func TestRunStoredRunHistory(t *testing.T) {
	dir := t.TempDir()
	corpus := writeCorpus(t, dir)
	dbPath := filepath.Join(dir, "results.db")

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-corpus", corpus, "-db", dbPath, "-format", "json"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	var rep report.Report
	if err := json.Unmarshal(stdout.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}

	stdout.Reset()
	if code := run(context.Background(), []string{"-db", dbPath, "-list-runs"}, &stdout, &stderr); code != 0 {
		t.Fatalf("list exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), rep.ID) {
		t.Errorf("listing missing run %s:\n%s", rep.ID, stdout.String())
	}

	stdout.Reset()
	if code := run(context.Background(), []string{"-db", dbPath, "-show-run", rep.ID}, &stdout, &stderr); code != 0 {
		t.Fatalf("show exit code = %d, stderr = %s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{
		"Run " + rep.ID,
		"Total tokens: 5",
		"A: 3 (rank: 1, product: 3, degree: 4)",
		"next to: B (4)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stored run missing %q:\n%s", want, out)
		}
	}

	if code := run(context.Background(), []string{"-db", dbPath, "-show-run", "01UNKNOWN"}, &stdout, &stderr); code != 1 {
		t.Errorf("unknown run exit code = %d, want 1", code)
	}
	if code := run(context.Background(), []string{"-list-runs"}, &stdout, &stderr); code != 1 {
		t.Errorf("listing without a database exit code = %d, want 1", code)
	}
}
