package auth

import "context"

// StaticSource provides a bearer token supplied directly, typically
// from a command-line flag.
type StaticSource struct {
	token string
}

// NewStaticSource creates a credential source from a fixed token.
func NewStaticSource(token string) *StaticSource {
	return &StaticSource{token: token}
}

// Credentials returns the static token regardless of context.
func (s *StaticSource) Credentials(_ context.Context) (Credentials, error) {
	return Credentials{Bearer: s.token}, nil
}
