package auth

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all" // Import all browser cookie stores
	"github.com/browserutils/kooky/browser/firefox"
)

const cookieDomain = "x.com"

// essentialCookies are the x.com session cookies the resolver can
// authenticate with when no bearer token is available.
var essentialCookies = []string{"auth_token", "ct0", "kdt", "twid", "att"}

// BrowserSource reads x.com session cookies from browser cookie stores.
type BrowserSource struct {
	logger *slog.Logger
}

// NewBrowserSource creates a new browser credential source.
func NewBrowserSource(logger *slog.Logger) *BrowserSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrowserSource{logger: logger}
}

// Credentials returns x.com session cookies found in browser stores.
// A failed browser read is not an error, just an empty result.
func (s *BrowserSource) Credentials(ctx context.Context) (Credentials, error) {
	if cookies := s.tryFirefoxProfiles(ctx); len(cookies) > 0 {
		return Credentials{Cookies: cookies}, nil
	}

	kookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(cookieDomain))
	if err != nil {
		s.logger.Debug("failed to read browser cookies", "error", err)
		return Credentials{}, nil
	}

	return Credentials{Cookies: filterEssential(kookies)}, nil
}

// tryFirefoxProfiles attempts to read cookies from Firefox profiles
// directly, which is faster than kooky's full browser scan.
func (s *BrowserSource) tryFirefoxProfiles(ctx context.Context) map[string]string {
	home := os.Getenv("HOME")
	if home == "" {
		return nil
	}

	dir := filepath.Join(home, "Library", "Application Support", "Firefox", "Profiles")
	matches, err := filepath.Glob(filepath.Join(dir, "*", "cookies.sqlite"))
	if err != nil || len(matches) == 0 {
		return nil
	}

	for _, f := range matches {
		kookies, err := firefox.ReadCookies(ctx, f, kooky.Valid, kooky.DomainHasSuffix(cookieDomain))
		if err != nil || len(kookies) == 0 {
			continue
		}
		if cookies := filterEssential(kookies); len(cookies) > 0 {
			s.logger.Debug("found Firefox session cookies",
				"profile", filepath.Base(filepath.Dir(f)), "count", len(cookies))
			return cookies
		}
	}
	return nil
}

// filterEssential keeps only the session cookies the resolver uses.
func filterEssential(kookies []*kooky.Cookie) map[string]string {
	wanted := make(map[string]bool, len(essentialCookies))
	for _, name := range essentialCookies {
		wanted[name] = true
	}

	cookies := make(map[string]string)
	for _, c := range kookies {
		if wanted[c.Name] {
			cookies[c.Name] = c.Value
		}
	}

	// Without auth_token the rest are useless.
	if cookies["auth_token"] == "" {
		return nil
	}
	return cookies
}
