package ingest

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

// Schema names the elements and attributes that carry annotations.
type Schema struct {
	WordElement  string // occurrence element, e.g. <word>
	LemmaElement string // annotation element nested directly under the word
	LemmaAttr    string // attribute holding the lemma head-form
	POSAttr      string // attribute holding the part-of-speech tag
}

// DefaultSchema matches <word><lemma entry="..." POS="..."/></word>.
func DefaultSchema() Schema {
	return Schema{
		WordElement:  "word",
		LemmaElement: "lemma",
		LemmaAttr:    "entry",
		POSAttr:      "POS",
	}
}

func (s Schema) withDefaults() Schema {
	d := DefaultSchema()
	if s.WordElement == "" {
		s.WordElement = d.WordElement
	}
	if s.LemmaElement == "" {
		s.LemmaElement = d.LemmaElement
	}
	if s.LemmaAttr == "" {
		s.LemmaAttr = d.LemmaAttr
	}
	if s.POSAttr == "" {
		s.POSAttr = d.POSAttr
	}
	return s
}

// Normalizer rewrites a lemma before it is emitted.
type Normalizer func(string) string

// NFC composes lemmas to Unicode normalization form C and trims surrounding space.
func NFC(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Identity trims surrounding space only.
func Identity(s string) string {
	return strings.TrimSpace(s)
}

// NormalizerByName maps a config value to a Normalizer.
// Unknown names fall back to Identity.
func NormalizerByName(name string) Normalizer {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nfc":
		return NFC
	default:
		return Identity
	}
}

var errNoRoot = errors.New("no root element")

// Scanner emits tokens from one XML document in textual order.
//
// It decodes element by element and keeps only the state of the word being
// read, so memory does not grow with document size. Only the first lemma
// element directly under a word is consulted; a word without one, or whose
// lemma attribute is missing or blank, yields nothing.
type Scanner struct {
	dec       *xml.Decoder
	schema    Schema
	normalize Normalizer

	depth     int
	sawRoot   bool
	wordDepth int // depth of the open word element, 0 when outside one
	consulted bool
	pending   Token
	hasLemma  bool

	skipped int
}

// NewScanner creates a scanner over r.
func NewScanner(r io.Reader, schema Schema, normalize Normalizer) *Scanner {
	if normalize == nil {
		normalize = Identity
	}
	dec := xml.NewDecoder(r)
	// Declared encodings other than UTF-8 (ISO-8859-1, windows-1253, the
	// "utf8" alias) are decoded to UTF-8 before tokenizing.
	dec.CharsetReader = charset.NewReaderLabel
	return &Scanner{
		dec:       dec,
		schema:    schema.withDefaults(),
		normalize: normalize,
	}
}

// Next returns the next token, or io.EOF once the document is exhausted.
// Any other error means the document is malformed and scanning cannot go on.
func (s *Scanner) Next() (Token, error) {
	for {
		tok, err := s.dec.Token()
		if err == io.EOF {
			if !s.sawRoot {
				return Token{}, errNoRoot
			}
			if s.depth != 0 {
				return Token{}, io.ErrUnexpectedEOF
			}
			return Token{}, io.EOF
		}
		if err != nil {
			return Token{}, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			s.sawRoot = true
			s.depth++
			s.start(el)
		case xml.EndElement:
			if s.wordDepth != 0 && s.depth == s.wordDepth {
				out, ok := s.finishWord()
				s.depth--
				if ok {
					return out, nil
				}
				continue
			}
			s.depth--
		}
	}
}

// SkippedWords counts word elements that carried no usable lemma.
func (s *Scanner) SkippedWords() int {
	return s.skipped
}

func (s *Scanner) start(el xml.StartElement) {
	if s.wordDepth == 0 {
		if el.Name.Local == s.schema.WordElement {
			s.wordDepth = s.depth
			s.consulted = false
			s.hasLemma = false
			s.pending = Token{}
		}
		return
	}
	if s.consulted || s.depth != s.wordDepth+1 || el.Name.Local != s.schema.LemmaElement {
		return
	}
	s.consulted = true
	for _, attr := range el.Attr {
		switch attr.Name.Local {
		case s.schema.LemmaAttr:
			if lemma := s.normalize(attr.Value); lemma != "" {
				s.pending.Lemma = lemma
				s.hasLemma = true
			}
		case s.schema.POSAttr:
			s.pending.POS = strings.TrimSpace(attr.Value)
		}
	}
}

func (s *Scanner) finishWord() (Token, bool) {
	out, ok := s.pending, s.hasLemma
	s.wordDepth = 0
	s.pending = Token{}
	s.hasLemma = false
	if !ok {
		s.skipped++
	}
	return out, ok
}
