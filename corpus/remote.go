package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/namedrop/httpcache"
)

// RemoteSource streams documents listed in a remote JSON manifest: an
// array of {"id": ..., "url": ...} entries. Document bodies are fetched
// through the disk-backed HTTP cache so repeated runs against the same
// corpus do not refetch.
type RemoteSource struct {
	logger      *slog.Logger
	httpClient  *http.Client
	cache       httpcache.Cacher
	manifestURL string
	skipped     int
}

// NewRemoteSource creates a source over the manifest at manifestURL.
// cache may be nil to disable caching.
func NewRemoteSource(manifestURL string, cache httpcache.Cacher, logger *slog.Logger) *RemoteSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteSource{
		logger:      logger,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		cache:       cache,
		manifestURL: manifestURL,
	}
}

type manifestEntry struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Documents fetches the manifest and then each listed document in
// manifest order. Documents that fail to fetch are skipped and counted.
func (s *RemoteSource) Documents(ctx context.Context, fn func(Document) error) error {
	s.skipped = 0

	body, err := s.fetch(ctx, s.manifestURL)
	if err != nil {
		return fmt.Errorf("fetching corpus manifest: %w", err)
	}

	var entries []manifestEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return fmt.Errorf("parsing corpus manifest: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.URL == "" {
			s.skipped++
			continue
		}

		data, err := s.fetch(ctx, entry.URL)
		if err != nil {
			s.skipped++
			s.logger.Warn("skipping unfetchable document", "id", entry.ID, "url", entry.URL, "error", err)
			continue
		}

		id := entry.ID
		if id == "" {
			id = entry.URL
		}

		text := string(data)
		switch {
		case isHTMLURL(entry.URL):
			text = ExtractText(text)
		case !utf8.ValidString(text):
			text = ""
		}

		if err := fn(Document{ID: id, SourceURL: entry.URL, Text: text}); err != nil {
			return err
		}
	}
	return nil
}

// Skipped reports documents dropped during the last Documents call.
func (s *RemoteSource) Skipped() int { return s.skipped }

func (s *RemoteSource) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "text/html,text/plain,application/json;q=0.9,*/*;q=0.8")

	return httpcache.FetchURL(ctx, s.cache, s.httpClient, req, s.logger)
}

func isHTMLURL(rawURL string) bool {
	u := strings.ToLower(rawURL)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.HasSuffix(u, ".html") || strings.HasSuffix(u, ".htm")
}
