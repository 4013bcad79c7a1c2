package google

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

const clientJSON = `{"installed":{"client_id":"id.apps.googleusercontent.com","client_secret":"secret",
"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token",
"redirect_uris":["http://localhost"]}}`

func TestOAuthConfig(t *testing.T) {
	cfg, err := OAuthConfig(Config{OAuthClientJSON: clientJSON})
	if err != nil {
		t.Fatalf("OAuthConfig: %v", err)
	}
	if cfg.ClientID != "id.apps.googleusercontent.com" || len(cfg.Scopes) != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := OAuthConfig(Config{}); err == nil {
		t.Fatalf("expected error without client")
	}
}

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets", "token.json")
	want := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := SaveToken(path, want); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	got, err := LoadToken(Config{OAuthTokenFile: path})
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if got.RefreshToken != "r" || !got.Expiry.Equal(want.Expiry) {
		t.Fatalf("unexpected token: %+v", got)
	}

	if _, err := LoadToken(Config{OAuthTokenJSON: "{"}); err == nil {
		t.Fatalf("expected decode error")
	}
}
