package auth

import (
	"context"
	"os"
)

// EnvVar is the environment variable checked for a bearer token.
const EnvVar = "X_BEARER_TOKEN"

// EnvSource reads the bearer token from the environment.
type EnvSource struct{}

// Credentials returns the token from X_BEARER_TOKEN, if set.
func (EnvSource) Credentials(_ context.Context) (Credentials, error) {
	return Credentials{Bearer: os.Getenv(EnvVar)}, nil
}
