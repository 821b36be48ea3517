package auth

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("issuer-key"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

func TestInspectCredential(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signedToken(t, jwt.MapClaims{
		"sub": "api@example.com",
		"exp": exp.Unix(),
		"iat": exp.Add(-2 * time.Hour).Unix(),
	})

	id, err := InspectCredential(tok)
	if err != nil {
		t.Fatalf("InspectCredential() error = %v", err)
	}
	if id.Principal != "api@example.com" {
		t.Errorf("Principal = %q", id.Principal)
	}
	if !id.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", id.ExpiresAt, exp)
	}
	if id.Method != AuthMethodBearer {
		t.Errorf("Method = %v", id.Method)
	}
	if id.IsExpired() {
		t.Error("IsExpired() = true for future exp")
	}
}

func TestInspectCredential_Errors(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "  ", ErrMissingCredentials},
		{"opaque", "00Dxx0000001gPL!AQ4AQFRv", ErrNotJWT},
		{"three bad segments", "a.b.c", ErrNotJWT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := InspectCredential(tt.token); !errors.Is(err, tt.want) {
				t.Errorf("InspectCredential() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCredentialExpired(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"expired jwt", signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), true},
		{"live jwt", signedToken(t, jwt.MapClaims{"exp": now.Add(time.Minute).Unix()}), false},
		{"jwt without exp", signedToken(t, jwt.MapClaims{"sub": "x"}), false},
		{"opaque", "opaque-session-id", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CredentialExpired(tt.token, now); got != tt.want {
				t.Errorf("CredentialExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBearer(t *testing.T) {
	h := http.Header{}
	SetBearer(h, "abc")
	if got := h.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Authorization = %q", got)
	}
}
