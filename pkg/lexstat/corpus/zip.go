package corpus

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
)

// ZipSource reads documents from a zip archive in central-directory order.
type ZipSource struct {
	rc     *zip.ReadCloser
	filter Filter
}

// OpenZip opens the archive at path.
func OpenZip(path string, filter Filter) (*ZipSource, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", path, err)
	}
	return &ZipSource{rc: rc, filter: filter}, nil
}

// Documents implements Source. Directory entries are skipped.
func (s *ZipSource) Documents(ctx context.Context) ([]Document, error) {
	var out []Document
	for _, f := range s.rc.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() || !s.filter.accept(f.Name) {
			continue
		}
		file := f
		out = append(out, NewDocument(file.Name, func() (io.ReadCloser, error) {
			return file.Open()
		}))
	}
	return out, nil
}

// Close releases the archive.
func (s *ZipSource) Close() error {
	return s.rc.Close()
}
