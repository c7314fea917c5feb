package ingest

import (
	"errors"
	"fmt"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
)

// Token is one lemma occurrence. POS is empty when the annotation carries no tag.
type Token struct {
	Lemma string
	POS   string
}

// CorpusReadError reports a document that could not be read or parsed.
// Document names the failing document, or the corpus path when the
// collection itself could not be opened.
type CorpusReadError struct {
	Document string
	Err      error
}

func (e *CorpusReadError) Error() string {
	return fmt.Sprintf("corpus read %s: %v", e.Document, e.Err)
}

func (e *CorpusReadError) Unwrap() error { return e.Err }

// Is lets errors.Is match internalerr.ErrCorpusRead.
func (e *CorpusReadError) Is(target error) bool {
	return target == internalerr.ErrCorpusRead
}

// AsCorpusReadError extracts a CorpusReadError from err, if any.
func AsCorpusReadError(err error) (*CorpusReadError, bool) {
	var cre *CorpusReadError
	if errors.As(err, &cre) {
		return cre, true
	}
	return nil, false
}
