package auth

import (
	"errors"
	"os"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestEnvSource(t *testing.T) {
	os.Unsetenv("TWEETSYNC_BEARER_TOKEN")
	os.Unsetenv("TWITTER_BEARER_TOKEN")

	source := EnvSource{}

	if _, err := source.Token(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Expected ErrTokenNotFound with no env vars set, got %v", err)
	}

	os.Setenv("TWITTER_BEARER_TOKEN", "conventional-token")
	defer os.Unsetenv("TWITTER_BEARER_TOKEN")

	token, err := source.Token()
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	if token != "conventional-token" {
		t.Errorf("Expected conventional-token, got %s", token)
	}

	// Tool-specific variable wins over the conventional one
	os.Setenv("TWEETSYNC_BEARER_TOKEN", "specific-token")
	defer os.Unsetenv("TWEETSYNC_BEARER_TOKEN")

	token, err = source.Token()
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	if token != "specific-token" {
		t.Errorf("Expected specific-token, got %s", token)
	}
}

func TestKeyringSource(t *testing.T) {
	keyring.MockInit()

	source := KeyringSource{}

	if _, err := source.Token(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Expected ErrTokenNotFound for empty keyring, got %v", err)
	}

	if err := StoreToken("keychain-token"); err != nil {
		t.Fatalf("StoreToken() failed: %v", err)
	}

	token, err := source.Token()
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	if token != "keychain-token" {
		t.Errorf("Expected keychain-token, got %s", token)
	}

	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken() failed: %v", err)
	}
	if _, err := source.Token(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Expected ErrTokenNotFound after delete, got %v", err)
	}

	// Deleting again is not an error
	if err := DeleteToken(); err != nil {
		t.Errorf("DeleteToken() on empty keyring failed: %v", err)
	}
}

func TestStoreTokenRejectsEmpty(t *testing.T) {
	keyring.MockInit()

	if err := StoreToken(""); err == nil {
		t.Error("Expected error storing empty token")
	}
}

type staticSource struct {
	token string
	err   error
}

func (s staticSource) Token() (string, error) { return s.token, s.err }

func TestResolverChain(t *testing.T) {
	tests := []struct {
		name    string
		sources []TokenSource
		want    string
		wantErr bool
	}{
		{
			name: "first source wins",
			sources: []TokenSource{
				staticSource{token: "first"},
				staticSource{token: "second"},
			},
			want: "first",
		},
		{
			name: "falls through absent source",
			sources: []TokenSource{
				staticSource{err: ErrTokenNotFound},
				staticSource{token: "second"},
			},
			want: "second",
		},
		{
			name: "falls through failing source",
			sources: []TokenSource{
				staticSource{err: errors.New("keychain daemon unreachable")},
				staticSource{token: "second"},
			},
			want: "second",
		},
		{
			name: "all sources empty",
			sources: []TokenSource{
				staticSource{err: ErrTokenNotFound},
				staticSource{err: ErrTokenNotFound},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolverWithSources(tt.sources...)
			token, err := resolver.Resolve()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if token != tt.want {
				t.Errorf("Resolve() = %q, want %q", token, tt.want)
			}
		})
	}
}

func TestMaskToken(t *testing.T) {
	if got := MaskToken("AAAAAAAAAAAAAAAAAAAAAbcd1234"); got != "AAAA...1234" {
		t.Errorf("MaskToken() = %q", got)
	}
	if got := MaskToken("short"); got != "********" {
		t.Errorf("MaskToken() on short input = %q", got)
	}
}
