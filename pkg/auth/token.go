package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "tweetsync"
	keyringKey     = "bearer_token"
)

// Errors
var (
	ErrTokenNotFound = errors.New("bearer token not found")
)

// TokenSource resolves a Twitter API bearer token from some backing store
type TokenSource interface {
	// Token returns the bearer token, or ErrTokenNotFound if the source
	// has nothing to offer
	Token() (string, error)
}

// EnvSource reads the bearer token from environment variables. The
// tool-specific variable takes precedence over the conventional one.
type EnvSource struct{}

// Token returns the token from TWEETSYNC_BEARER_TOKEN or TWITTER_BEARER_TOKEN
func (e EnvSource) Token() (string, error) {
	if token := os.Getenv("TWEETSYNC_BEARER_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv("TWITTER_BEARER_TOKEN"); token != "" {
		return token, nil
	}
	return "", ErrTokenNotFound
}

// KeyringSource reads the bearer token from the system keychain
type KeyringSource struct{}

// Token returns the token stored under tweetsync/bearer_token
func (k KeyringSource) Token() (string, error) {
	token, err := keyring.Get(keyringService, keyringKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// Resolver tries a chain of token sources in order
type Resolver struct {
	sources []TokenSource
}

// NewResolver creates a resolver with the default chain:
// environment first, then the system keychain.
func NewResolver() *Resolver {
	return &Resolver{
		sources: []TokenSource{
			EnvSource{},
			KeyringSource{},
		},
	}
}

// NewResolverWithSources creates a resolver with an explicit chain
func NewResolverWithSources(sources ...TokenSource) *Resolver {
	return &Resolver{sources: sources}
}

// Resolve returns the first token any source yields. Sources that fail
// for reasons other than absence (an unavailable keychain daemon, say)
// are skipped rather than treated as fatal.
func (r *Resolver) Resolve() (string, error) {
	for _, source := range r.sources {
		token, err := source.Token()
		if err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrTokenNotFound
}

// StoreToken writes the bearer token to the system keychain
func StoreToken(token string) error {
	if token == "" {
		return errors.New("token is required")
	}
	if err := keyring.Set(keyringService, keyringKey, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the bearer token from the system keychain
func DeleteToken() error {
	if err := keyring.Delete(keyringService, keyringKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// MaskToken masks all but the first 4 and last 4 characters of a token
// for safe display in logs
func MaskToken(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
