// Package corpus enumerates the structured documents that make up a corpus.
//
// A Source hands out documents in a fixed order; the ingest reader relies on
// that order being stable, since adjacency is computed over the concatenated
// token stream.
package corpus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Document is a named, lazily opened byte stream.
type Document struct {
	Name string
	open func() (io.ReadCloser, error)
}

// NewDocument creates a document backed by the given opener.
func NewDocument(name string, open func() (io.ReadCloser, error)) Document {
	return Document{Name: name, open: open}
}

// Open returns a fresh reader over the document contents.
// Each call starts from the beginning of the document.
func (d Document) Open() (io.ReadCloser, error) {
	if d.open == nil {
		return nil, fmt.Errorf("document %s: no opener", d.Name)
	}
	return d.open()
}

// Source is an ordered collection of documents.
type Source interface {
	// Documents lists the documents in enumeration order.
	Documents(ctx context.Context) ([]Document, error)
	Close() error
}

// Filter decides whether a document name takes part in the corpus.
type Filter func(name string) bool

// ExtFilter accepts names ending in ext, case-insensitively.
// An empty ext accepts everything.
func ExtFilter(ext string) Filter {
	ext = strings.ToLower(ext)
	return func(name string) bool {
		if ext == "" {
			return true
		}
		return strings.HasSuffix(strings.ToLower(name), ext)
	}
}

func (f Filter) accept(name string) bool {
	if f == nil {
		return true
	}
	return f(name)
}

// Open picks a Source for path: a directory is walked, a .zip file is read as
// an archive, and any other file is a single-document corpus.
func Open(path string, filter Filter) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	if info.IsDir() {
		return NewDirSource(path, filter), nil
	}
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return OpenZip(path, filter)
	}
	return &fileSource{path: path}, nil
}

type fileSource struct {
	path string
}

func (s *fileSource) Documents(ctx context.Context) ([]Document, error) {
	path := s.path
	return []Document{NewDocument(filepath.Base(path), func() (io.ReadCloser, error) {
		return os.Open(path)
	})}, nil
}

func (s *fileSource) Close() error { return nil }

// MemDoc is an in-memory document for MemSource.
type MemDoc struct {
	Name string
	Data []byte
}

// MemSource serves documents from memory in the order given.
type MemSource struct {
	docs   []MemDoc
	filter Filter
}

// NewMemSource creates an in-memory source.
func NewMemSource(filter Filter, docs ...MemDoc) *MemSource {
	return &MemSource{docs: docs, filter: filter}
}

// Documents implements Source.
func (s *MemSource) Documents(ctx context.Context) ([]Document, error) {
	out := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		if !s.filter.accept(d.Name) {
			continue
		}
		data := d.Data
		out = append(out, NewDocument(d.Name, func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		}))
	}
	return out, nil
}

// Close implements Source.
func (s *MemSource) Close() error { return nil }
