package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink receives rendered output. Write opens the destination, hands it to fn
// and closes it again whatever fn returns.
type Sink interface {
	Write(fn func(io.Writer) error) error
}

// FileSink appends to a file, creating it and its directory if needed.
type FileSink struct {
	Path string
}

// Write implements Sink.
func (s FileSink) Write(fn func(io.Writer) error) (err error) {
	if dir := filepath.Dir(s.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: create dir: %w", err)
		}
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("report: open %s: %w", s.Path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("report: close %s: %w", s.Path, cerr)
		}
	}()
	return fn(f)
}

// WriterSink writes to an existing writer, such as os.Stdout, and never
// closes it.
type WriterSink struct {
	W io.Writer
}

// Write implements Sink.
func (s WriterSink) Write(fn func(io.Writer) error) error {
	return fn(s.W)
}

// Emit renders r in format into sink.
func Emit(sink Sink, r Report, format string) error {
	return sink.Write(func(w io.Writer) error {
		return Render(w, r, format)
	})
}
