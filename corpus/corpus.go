// Package corpus exposes the document corpus as a stream of readable
// text documents. Documents come from a local directory, a remote
// manifest, or both.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Document is a single searchable text from the corpus.
type Document struct {
	ID        string // Stable identifier (relative path or manifest id)
	SourceURL string // External reference used for citation in the report
	Text      string // Plain text content; empty for undecodable documents
}

// Source streams documents one at a time. Implementations skip
// documents that fail to load, counting them via Skipped.
type Source interface {
	// Documents calls fn for every readable document. It stops early
	// and returns fn's error if fn fails, or ctx.Err on cancellation.
	Documents(ctx context.Context, fn func(Document) error) error

	// Skipped reports how many documents failed to load during the
	// last Documents call.
	Skipped() int
}

// DirSource reads corpus documents from a local directory tree.
// Files ending in .txt or .md are used verbatim; .html and .htm files
// are reduced to their visible text. Anything else is ignored.
type DirSource struct {
	logger  *slog.Logger
	dir     string
	baseURL string
	skipped int
}

// NewDirSource creates a source over the given directory. baseURL, if
// non-empty, is joined with each file's relative path to form the
// citation link; otherwise a file:// URL is used.
func NewDirSource(dir, baseURL string, logger *slog.Logger) *DirSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirSource{dir: dir, baseURL: baseURL, logger: logger}
}

// Documents walks the directory in lexical order so repeated runs see
// the same document sequence.
func (s *DirSource) Documents(ctx context.Context, fn func(Document) error) error {
	s.skipped = 0

	var paths []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A missing or unreadable corpus root is fatal; anything
			// below it is skipped and counted like a bad file.
			if path == s.dir {
				return err
			}
			s.skipped++
			s.logger.Warn("skipping unreadable corpus entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isCorpusFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking corpus directory: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		doc, err := s.load(path)
		if err != nil {
			s.skipped++
			s.logger.Warn("skipping unreadable document", "path", path, "error", err)
			continue
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}

// Skipped reports documents dropped during the last Documents call.
func (s *DirSource) Skipped() int { return s.skipped }

func (s *DirSource) load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)

	text := string(data)
	if isHTMLFile(path) {
		text = ExtractText(text)
	} else if !utf8.ValidString(text) {
		// Undecodable content counts as an empty document, not a failure.
		text = ""
	}

	url := s.baseURL
	if url != "" {
		url = strings.TrimSuffix(url, "/") + "/" + rel
	} else {
		url = "file://" + path
	}

	return Document{ID: rel, SourceURL: url, Text: text}, nil
}

func isCorpusFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".html", ".htm":
		return true
	default:
		return false
	}
}

func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}
