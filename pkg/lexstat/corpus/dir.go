package corpus

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DirSource walks a directory tree in lexical order.
type DirSource struct {
	root   string
	filter Filter
}

// NewDirSource creates a source rooted at root.
func NewDirSource(root string, filter Filter) *DirSource {
	return &DirSource{root: root, filter: filter}
}

// Documents implements Source. Names are slash-separated paths relative to the root.
func (s *DirSource) Documents(ctx context.Context) ([]Document, error) {
	var out []Document
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if !s.filter.accept(name) {
			return nil
		}
		full := path
		out = append(out, NewDocument(name, func() (io.ReadCloser, error) {
			return os.Open(full)
		}))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}
	return out, nil
}

// Close implements Source.
func (s *DirSource) Close() error { return nil }
