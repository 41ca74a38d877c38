// Package auth discovers X API credentials for the account resolver.
// A bearer token can come from an explicit flag value or the
// environment; as a last resort, x.com session cookies are read from
// browser cookie stores.
package auth

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// Credentials holds what the resolver needs to authenticate against
// the X API. Either Bearer or Cookies is set, never both.
type Credentials struct {
	Bearer  string            // OAuth2 bearer token
	Cookies map[string]string // x.com session cookies (browser fallback)
}

// Empty reports whether no usable credential was found.
func (c Credentials) Empty() bool {
	return c.Bearer == "" && len(c.Cookies) == 0
}

// Source represents one place credentials can come from.
type Source interface {
	// Credentials returns credentials, or an empty value if this
	// source has none. Unavailability is not an error.
	Credentials(ctx context.Context) (Credentials, error)
}

// ChainSources returns credentials from the first source that provides
// them.
func ChainSources(ctx context.Context, sources ...Source) (Credentials, error) {
	for _, src := range sources {
		creds, err := src.Credentials(ctx)
		if err != nil {
			return Credentials{}, err
		}
		if !creds.Empty() {
			return creds, nil
		}
	}
	return Credentials{}, nil
}

// NewCookieJar creates an http.CookieJar populated with the given
// cookies for a domain.
func NewCookieJar(domain string, cookies map[string]string) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse("https://" + domain)
	if err != nil {
		return nil, err
	}

	var httpCookies []*http.Cookie
	for name, value := range cookies {
		if value != "" {
			httpCookies = append(httpCookies, &http.Cookie{
				Name:   name,
				Value:  value,
				Domain: "." + domain,
				Path:   "/",
			})
		}
	}

	jar.SetCookies(u, httpCookies)
	return jar, nil
}
