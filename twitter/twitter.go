// Package twitter resolves X/Twitter numeric account IDs to display
// names via the X API v2 and parses X data-export files.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/namedrop/auth"
	"github.com/codeGROOVE-dev/namedrop/contact"
	"github.com/codeGROOVE-dev/namedrop/httpcache"
)

// DefaultBaseURL is the X API v2 endpoint.
const DefaultBaseURL = "https://api.x.com"

// maxBatch is the maximum number of IDs the users lookup accepts per
// request.
const maxBatch = 100

// webBearerToken is the public token the x.com web client ships; it
// only works together with session cookies.
const webBearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

// Client resolves account IDs against the X API.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	cache      httpcache.Cacher
	baseURL    string
	bearer     string
	csrf       string
	cookieAuth bool
}

// Option configures a Client.
type Option func(*config)

type config struct {
	token          string
	logger         *slog.Logger
	cache          httpcache.Cacher
	baseURL        string
	browserCookies bool
}

// WithToken sets an explicit bearer token.
func WithToken(token string) Option {
	return func(c *config) { c.token = token }
}

// WithBrowserCookies enables reading x.com session cookies from
// browser stores when no bearer token is available.
func WithBrowserCookies() Option {
	return func(c *config) { c.browserCookies = true }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHTTPCache sets the cache for resolved lookups.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = baseURL }
}

// New creates a resolver client. Credential sources, in order: explicit
// token > X_BEARER_TOKEN > browser session cookies.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}

	var sources []auth.Source
	if cfg.token != "" {
		sources = append(sources, auth.NewStaticSource(cfg.token))
	}
	sources = append(sources, auth.EnvSource{})
	if cfg.browserCookies {
		sources = append(sources, auth.NewBrowserSource(cfg.logger))
	}

	creds, err := auth.ChainSources(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("credential retrieval failed: %w", err)
	}
	if creds.Empty() {
		return nil, fmt.Errorf("%w: pass -x-bearer-token or set %s", contact.ErrNoCredentials, auth.EnvVar)
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     cfg.logger,
		cache:      cfg.cache,
		baseURL:    strings.TrimSuffix(cfg.baseURL, "/"),
		bearer:     creds.Bearer,
	}

	if creds.Bearer == "" {
		// Cookie auth: web bearer token plus session cookies and the
		// ct0 CSRF header.
		jar, err := auth.NewCookieJar("x.com", creds.Cookies)
		if err != nil {
			return nil, fmt.Errorf("cookie jar creation failed: %w", err)
		}
		client.httpClient.Jar = jar
		client.bearer = webBearerToken
		client.csrf = creds.Cookies["ct0"]
		client.cookieAuth = true
	}

	cfg.logger.InfoContext(ctx, "twitter resolver created", "cookie_auth", client.cookieAuth)
	return client, nil
}

// Result carries the outcome of a Resolve call. Unresolved counts IDs
// the API could not name: suspended or deleted accounts, IDs missing
// from the response, and whole batches lost to transient failures.
type Result struct {
	Contacts   []contact.Contact
	Unresolved int
}

// Resolve maps account IDs to contacts in batches. Per-ID failures are
// logged and counted; an authentication failure aborts with
// contact.ErrAuthFailed since no further batch can succeed.
func (c *Client) Resolve(ctx context.Context, ids []string) (*Result, error) {
	res := &Result{}

	for start := 0; start < len(ids); start += maxBatch {
		batch := ids[start:min(start+maxBatch, len(ids))]

		contacts, unresolved, err := c.resolveBatch(ctx, batch)
		if err != nil {
			if errors.Is(err, contact.ErrAuthFailed) {
				return nil, err
			}
			// Transient batch failure: the rest of the run still counts.
			c.logger.Warn("batch resolution failed", "batch_size", len(batch), "error", err)
			res.Unresolved += len(batch)
			continue
		}

		res.Contacts = append(res.Contacts, contacts...)
		res.Unresolved += unresolved
	}

	c.logger.InfoContext(ctx, "account resolution finished",
		"requested", len(ids), "resolved", len(res.Contacts), "unresolved", res.Unresolved)
	return res, nil
}

func (c *Client) resolveBatch(ctx context.Context, ids []string) (contacts []contact.Contact, unresolved int, err error) {
	apiURL := c.baseURL + "/2/users?ids=" + strings.Join(ids, ",")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("request creation failed: %w", err)
	}
	c.setHeaders(req)

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		var httpErr *httpcache.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusUnauthorized:
				return nil, 0, fmt.Errorf("%w: check your bearer token", contact.ErrAuthFailed)
			case http.StatusForbidden:
				return nil, 0, fmt.Errorf("%w: token lacks the required permissions", contact.ErrAuthFailed)
			case http.StatusTooManyRequests:
				return nil, 0, fmt.Errorf("%w: %v", contact.ErrRateLimited, err)
			}
		}
		return nil, 0, err
	}

	var resp struct {
		Data []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"data"`
		Errors []struct {
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, fmt.Errorf("parsing users response: %w", err)
	}

	// Suspended and deleted accounts come back in the errors array.
	for _, e := range resp.Errors {
		c.logger.Warn("account not resolved", "detail", e.Detail)
	}

	for _, u := range resp.Data {
		name := contact.Normalize(u.Name)
		if name == "" {
			continue
		}
		position := ""
		if u.Username != "" {
			position = "@" + u.Username
		}
		contacts = append(contacts, contact.Contact{
			Name:     name,
			Position: position,
			Source:   contact.SourceTwitter,
		})
	}

	unresolved = len(ids) - len(contacts)
	return contacts, unresolved, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.bearer)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", httpcache.UserAgent)
	if c.cookieAuth {
		req.Header.Set("X-Twitter-Auth-Type", "OAuth2Session")
		req.Header.Set("X-Twitter-Active-User", "yes")
		if c.csrf != "" {
			req.Header.Set("X-Csrf-Token", c.csrf)
		}
	}
}
