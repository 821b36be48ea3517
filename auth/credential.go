package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BearerPrefix is the Authorization scheme used for submission credentials.
const BearerPrefix = "Bearer "

// InspectCredential reads the claims of a JWT credential without verifying
// its signature. The credential was obtained directly from its issuer, so
// only the timing claims are of interest.
//
// Returns ErrNotJWT when the credential is not a JWT at all.
func InspectCredential(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingCredentials
	}
	if strings.Count(token, ".") != 2 {
		return nil, ErrNotJWT
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrNotJWT
		}
		return nil, ErrTokenMalformed
	}

	id := &Identity{
		Method: AuthMethodBearer,
		Claims: make(map[string]any, len(claims)),
	}
	for k, v := range claims {
		id.Claims[k] = v
	}
	if sub, err := claims.GetSubject(); err == nil {
		id.Principal = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		id.IssuedAt = iat.Time
	}
	return id, nil
}

// CredentialExpired reports whether token is a JWT whose exp claim is at or
// before now. Opaque credentials never report expired.
func CredentialExpired(token string, now time.Time) bool {
	id, err := InspectCredential(token)
	if err != nil {
		return false
	}
	return id.ExpiredAt(now)
}

// SetBearer sets the Authorization header to the bearer credential.
func SetBearer(h http.Header, token string) {
	h.Set("Authorization", BearerPrefix+token)
}
