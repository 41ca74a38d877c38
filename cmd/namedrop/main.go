// Command namedrop searches a document corpus for mentions of your
// contacts (LinkedIn and/or X/Twitter exports) and writes a static
// HTML report.
//
// Usage:
//
//	namedrop -connections Connections.csv -corpus ./docs
//	namedrop -x-following following.js -x-bearer-token TOKEN -corpus-url https://example.com/manifest.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/codeGROOVE-dev/namedrop"
	"github.com/codeGROOVE-dev/namedrop/auth"
	"github.com/codeGROOVE-dev/namedrop/contact"
	"github.com/codeGROOVE-dev/namedrop/corpus"
	"github.com/codeGROOVE-dev/namedrop/httpcache"
	"github.com/codeGROOVE-dev/namedrop/linkedin"
	"github.com/codeGROOVE-dev/namedrop/report"
	"github.com/codeGROOVE-dev/namedrop/twitter"
)

func main() {
	connections := flag.String("connections", "", "path to LinkedIn Connections.csv export")
	xFollowing := flag.String("x-following", "", "path to X/Twitter following.js export")
	xBearerToken := flag.String("x-bearer-token", "", "X API bearer token (or set "+auth.EnvVar+")")
	corpusDir := flag.String("corpus", "", "directory of corpus documents (.txt, .md, .html)")
	corpusURL := flag.String("corpus-url", "", "URL of a remote corpus manifest (JSON array of {id, url})")
	corpusBaseURL := flag.String("corpus-base-url", "", "base URL for citation links to local corpus files")
	output := flag.String("output", "namedrop.html", "output HTML report path")
	concurrency := flag.Int("concurrency", namedrop.DefaultConcurrency, "parallel document scanners")
	noCache := flag.Bool("no-cache", false, "disable the HTTP/document disk cache")
	cacheTTL := flag.Duration("cache-ttl", 30*24*time.Hour, "cache time-to-live")
	noBrowser := flag.Bool("no-browser", false, "disable reading x.com session cookies from browser stores")
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if *connections == "" && *xFollowing == "" {
		printSourceHelp()
		os.Exit(1)
	}
	if *corpusDir == "" && *corpusURL == "" {
		fmt.Fprintln(os.Stderr, "Error: no corpus configured. Pass -corpus or -corpus-url.")
		os.Exit(1)
	}

	// Ctrl+C cancels the run; whatever was scanned by then still goes
	// into the report.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var httpCache *httpcache.Cache
	if !*noCache {
		var err error
		httpCache, err = httpcache.New(*cacheTTL)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
			httpCache = nil
		}
	}

	var contacts []contact.Contact
	skippedRows := 0
	unresolved := 0

	if *connections != "" {
		parsed, skipped, err := linkedin.ParseFile(*connections, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("parsed LinkedIn connections", "path", *connections, "contacts", len(parsed), "skipped", skipped)
		contacts = append(contacts, parsed...)
		skippedRows += skipped
	}

	if *xFollowing != "" {
		ids, err := twitter.ParseFollowingFile(*xFollowing)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("parsed X following export", "path", *xFollowing, "accounts", len(ids))

		opts := []twitter.Option{
			twitter.WithToken(*xBearerToken),
			twitter.WithLogger(logger),
		}
		if httpCache != nil {
			opts = append(opts, twitter.WithHTTPCache(httpCache))
		}
		if !*noBrowser {
			opts = append(opts, twitter.WithBrowserCookies())
		}

		client, err := twitter.New(ctx, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		res, err := client.Resolve(ctx, ids)
		switch {
		case errors.Is(err, contact.ErrAuthFailed) && *connections != "":
			// The LinkedIn source can still produce a useful run.
			logger.Warn("X resolution failed, continuing with LinkedIn contacts only", "error", err)
			unresolved += len(ids)
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		default:
			contacts = append(contacts, res.Contacts...)
			unresolved += res.Unresolved
		}
	}

	// Merge duplicates across sources, first occurrence wins.
	contacts = contact.Dedupe(contacts)
	if len(contacts) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no contacts found. Check your input files.")
		os.Exit(1)
	}
	logger.Info("contacts ready", "total", len(contacts))

	var src corpus.Source
	if *corpusDir != "" {
		src = corpus.NewDirSource(*corpusDir, *corpusBaseURL, logger)
	} else {
		src = corpus.NewRemoteSource(*corpusURL, cacher(httpCache), logger)
	}

	result, err := namedrop.Run(ctx, contacts, src,
		namedrop.WithLogger(logger),
		namedrop.WithConcurrency(*concurrency),
	)
	if err != nil {
		if result == nil || !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Warn("interrupted, writing partial report",
			"documents_scanned", result.DocumentsScanned)
	}

	summary := result.Summary(skippedRows, unresolved)
	if err := report.WriteHTMLFile(*output, summary, result.Reports); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSummary(summary, result, *output)
}

// cacher converts the concrete cache to the interface, preserving nil.
func cacher(c *httpcache.Cache) httpcache.Cacher {
	if c == nil {
		return nil
	}
	return c
}

func printSummary(summary report.Summary, result *namedrop.Result, output string) {
	fmt.Println("============================================================")
	fmt.Println("SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Total contacts searched: %d\n", summary.ContactsSearched)
	fmt.Printf("Contacts with mentions:  %d\n", summary.ContactsWithMentions)
	fmt.Printf("Documents scanned:       %d\n", result.DocumentsScanned)
	if summary.SkippedRows > 0 {
		fmt.Printf("Skipped export rows:     %d\n", summary.SkippedRows)
	}
	if summary.Unresolved > 0 {
		fmt.Printf("Unresolved accounts:     %d\n", summary.Unresolved)
	}
	if summary.SkippedDocs > 0 {
		fmt.Printf("Skipped documents:       %d\n", summary.SkippedDocs)
	}

	if len(result.Reports) > 0 {
		fmt.Println("\nTop mentions:")
		top := result.Reports
		if len(top) > 20 {
			top = top[:20]
		}
		for _, r := range top {
			fmt.Printf("  %6d - %s\n", r.TotalMentions, r.Contact.Name)
		}
	} else {
		fmt.Println("\nNo contacts found in the corpus.")
	}

	fmt.Printf("\nFull report saved to: %s\n", output)
}

func printSourceHelp() {
	fmt.Fprint(os.Stderr, `
No contact source specified. Provide at least one:

  LinkedIn:
     namedrop -connections /path/to/Connections.csv -corpus ./docs

  X/Twitter:
     namedrop -x-following /path/to/following.js -x-bearer-token YOUR_TOKEN -corpus ./docs

To export your LinkedIn connections:
  1. Go to linkedin.com and log in
  2. Click your profile icon > Settings & Privacy > Data privacy
  3. Click "Get a copy of your data" and select Connections
  4. Download and extract the ZIP file

To export your X/Twitter following list:
  1. Go to x.com > Settings > Your Account > Download an archive of your data
  2. Wait for X's email, then download and extract the archive
  3. Locate data/following.js in the extracted archive
`)
}
