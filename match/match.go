// Package match implements exact-phrase name matching against corpus
// documents. A contact's full name matches when it appears as a
// contiguous, word-bounded, case-insensitive phrase in the document
// text; partial-word hits do not count.
package match

import (
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/namedrop/contact"
	"github.com/codeGROOVE-dev/namedrop/corpus"
)

// Default excerpt policy. Window is the number of context bytes kept on
// each side of a match (rounded to rune boundaries); MaxExcerpts caps
// stored excerpts per document while Count still reflects every hit.
const (
	DefaultWindow      = 80
	DefaultMaxExcerpts = 10
)

// Record reports the occurrences of one contact's name in one document.
// Records are only produced for pairs with at least one occurrence and
// are never mutated after creation.
type Record struct {
	Contact   contact.Contact
	DocID     string
	SourceURL string
	Count     int      // Non-overlapping occurrences, always >= 1
	Excerpts  []string // One bounded context window per hit, capped
}

// Engine scans documents for a fixed contact list.
type Engine struct {
	logger      *slog.Logger
	contacts    []contact.Contact
	window      int
	maxExcerpts int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWindow sets the excerpt context window in bytes per side.
func WithWindow(n int) Option {
	return func(e *Engine) { e.window = n }
}

// WithMaxExcerpts caps stored excerpts per (contact, document) pair.
func WithMaxExcerpts(n int) Option {
	return func(e *Engine) { e.maxExcerpts = n }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine for the given contacts. Contacts with empty
// names are assumed to have been rejected upstream by the normalizer.
func New(contacts []contact.Contact, opts ...Option) *Engine {
	e := &Engine{
		logger:      slog.Default(),
		contacts:    contacts,
		window:      DefaultWindow,
		maxExcerpts: DefaultMaxExcerpts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scan searches one document for every contact, returning a Record per
// contact with at least one occurrence, in contact-list order.
// It only reads the document, so Scan is safe to call concurrently
// from multiple goroutines on distinct documents.
func (e *Engine) Scan(doc corpus.Document) []Record {
	if doc.Text == "" {
		return nil
	}

	var records []Record
	for _, c := range e.contacts {
		count, excerpts := e.scanOne(doc.Text, c.Name)
		if count == 0 {
			continue
		}
		records = append(records, Record{
			Contact:   c,
			DocID:     doc.ID,
			SourceURL: doc.SourceURL,
			Count:     count,
			Excerpts:  excerpts,
		})
	}

	if len(records) > 0 {
		e.logger.Debug("document scanned", "doc", doc.ID, "contacts_hit", len(records))
	}
	return records
}

// scanOne counts non-overlapping occurrences of name in text and
// extracts a bounded excerpt per hit, left to right.
func (e *Engine) scanOne(text, name string) (count int, excerpts []string) {
	if name == "" {
		return 0, nil
	}

	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])

		end, ok := foldMatch(text, name, i)
		if !ok || !boundedAt(text, i, end) {
			i += size
			continue
		}

		count++
		if len(excerpts) < e.maxExcerpts {
			excerpts = append(excerpts, excerpt(text, i, end, e.window))
		}
		i = end
	}
	return count, excerpts
}

// foldMatch reports whether text[i:] begins with name under simple case
// folding, returning the byte offset just past the match. A single
// space in the normalized name matches any whitespace run in the text,
// so a line break between first and last name still counts. Offsets
// are computed against the original text so excerpts stay aligned.
func foldMatch(text, name string, i int) (end int, ok bool) {
	j := 0
	for j < len(name) {
		if i >= len(text) {
			return 0, false
		}
		nr, nn := utf8.DecodeRuneInString(name[j:])

		if nr == ' ' {
			tr, tn := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(tr) {
				return 0, false
			}
			i += tn
			for i < len(text) {
				tr, tn = utf8.DecodeRuneInString(text[i:])
				if !unicode.IsSpace(tr) {
					break
				}
				i += tn
			}
			j += nn
			continue
		}

		tr, tn := utf8.DecodeRuneInString(text[i:])
		if !foldEqual(tr, nr) {
			return 0, false
		}
		i += tn
		j += nn
	}
	return i, true
}

// foldEqual reports whether two runes are equal under simple Unicode
// case folding, cycling SimpleFold the way strings.EqualFold does.
// Plain ToLower misses one-way foldings like final sigma vs capital
// sigma.
func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// boundedAt reports whether a match spanning text[start:end] sits on
// word boundaries. A hyphen joins words, so "Anne" does not match
// inside "Anne-Marie"; an apostrophe does not, so "Jane Doe" still
// matches in "Jane Doe's".
func boundedAt(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) ||
		r == '-' || r == '_'
}

// excerpt returns the match plus up to window bytes of context on each
// side, trimmed to rune boundaries and whitespace-collapsed.
func excerpt(text string, start, end, window int) string {
	lo := start - window
	if lo < 0 {
		lo = 0
	}
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}

	hi := end + window
	if hi > len(text) {
		hi = len(text)
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}

	return collapseSpace(text[lo:hi])
}

func collapseSpace(s string) string {
	var b []byte
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && len(b) > 0 {
			b = append(b, ' ')
		}
		inSpace = false
		b = utf8.AppendRune(b, r)
	}
	return string(b)
}
