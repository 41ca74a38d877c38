// Package namedrop cross-references a personal contact list against a
// corpus of public court-document text, reporting which contacts are
// mentioned, how often, and in what context.
//
// Basic usage:
//
//	contacts, skipped, err := linkedin.ParseFile("Connections.csv", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	src := corpus.NewDirSource("./corpus", "", nil)
//	result, err := namedrop.Run(ctx, contact.Dedupe(contacts), src)
//
// The result's reports are ordered by total mentions descending and
// feed directly into report.WriteHTML.
package namedrop

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/namedrop/contact"
	"github.com/codeGROOVE-dev/namedrop/corpus"
	"github.com/codeGROOVE-dev/namedrop/match"
	"github.com/codeGROOVE-dev/namedrop/report"
)

// DefaultConcurrency is the number of documents scanned in parallel.
const DefaultConcurrency = 4

// Option configures a Run call.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	concurrency int
	window      int
	maxExcerpts int
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithConcurrency bounds the number of parallel document scanners.
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithExcerptWindow sets the excerpt context window in bytes per side.
func WithExcerptWindow(n int) Option {
	return func(c *config) { c.window = n }
}

// WithMaxExcerpts caps stored excerpts per (contact, document) pair.
func WithMaxExcerpts(n int) Option {
	return func(c *config) { c.maxExcerpts = n }
}

// Result is the outcome of a full matching run.
type Result struct {
	Reports              []report.ContactReport // Ordered by mentions desc, name asc
	ContactsSearched     int
	ContactsWithMentions int
	DocumentsScanned     int
	SkippedDocs          int
}

// Summary builds the report summary, folding in the counters the
// contact-parsing stage collected.
func (r *Result) Summary(skippedRows, unresolved int) report.Summary {
	return report.Summary{
		ContactsSearched:     r.ContactsSearched,
		ContactsWithMentions: r.ContactsWithMentions,
		SkippedRows:          skippedRows,
		Unresolved:           unresolved,
		SkippedDocs:          r.SkippedDocs,
	}
}

// Run scans every document from src for every contact and aggregates
// the matches. Documents stream through a bounded worker pool; workers
// only read shared state and each collects into its own record list,
// so the merge is data-race free. Output is deterministic regardless
// of worker scheduling because aggregation sorts.
//
// When ctx is cancelled mid-run, Run returns the records collected so
// far together with the context error, so an interrupted run can still
// produce a partial report.
func Run(ctx context.Context, contacts []contact.Contact, src corpus.Source, opts ...Option) (*Result, error) {
	cfg := &config{
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
		window:      match.DefaultWindow,
		maxExcerpts: match.DefaultMaxExcerpts,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	engine := match.New(contacts,
		match.WithLogger(cfg.logger),
		match.WithWindow(cfg.window),
		match.WithMaxExcerpts(cfg.maxExcerpts),
	)

	docs := make(chan corpus.Document)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(docs)
		return src.Documents(ctx, func(doc corpus.Document) error {
			select {
			case docs <- doc:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	var mu sync.Mutex
	var records []match.Record
	scanned := 0

	for range cfg.concurrency {
		g.Go(func() error {
			for doc := range docs {
				recs := engine.Scan(doc)
				mu.Lock()
				records = append(records, recs...)
				scanned++
				mu.Unlock()
			}
			return nil
		})
	}

	runErr := g.Wait()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return nil, runErr
	}

	reports := report.Aggregate(records)

	result := &Result{
		Reports:              reports,
		ContactsSearched:     len(contacts),
		ContactsWithMentions: len(reports),
		DocumentsScanned:     scanned,
		SkippedDocs:          src.Skipped(),
	}

	// A cancelled run still returns what it collected so the caller
	// can render a partial report, alongside the error.
	if runErr != nil {
		cfg.logger.Warn("matching run interrupted",
			"documents_scanned", result.DocumentsScanned,
			"with_mentions", result.ContactsWithMentions,
		)
		return result, runErr
	}

	cfg.logger.InfoContext(ctx, "matching run finished",
		"contacts", result.ContactsSearched,
		"documents", result.DocumentsScanned,
		"with_mentions", result.ContactsWithMentions,
		"skipped_docs", result.SkippedDocs,
	)
	return result, nil
}
