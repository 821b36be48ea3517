package auth

import (
	"slices"
	"time"
)

// AuthMethod indicates how authentication was performed.
type AuthMethod string

const (
	AuthMethodNone   AuthMethod = "none"
	AuthMethodAPIKey AuthMethod = "api_key"
	AuthMethodBearer AuthMethod = "bearer"
)

// Identity represents an authenticated principal or an inspected credential.
type Identity struct {
	// Principal is the unique identifier (key ID, subject).
	Principal string

	// Roles are the roles assigned to this identity.
	Roles []string

	// Method indicates how the identity was established.
	Method AuthMethod

	// Claims contains the raw claims, if any.
	Claims map[string]any

	// ExpiresAt is when this identity expires. Zero means never.
	ExpiresAt time.Time

	// IssuedAt is when this identity was created.
	IssuedAt time.Time
}

// HasRole checks if the identity has a specific role.
func (id *Identity) HasRole(role string) bool {
	return slices.Contains(id.Roles, role)
}

// IsExpired checks if the identity has expired.
func (id *Identity) IsExpired() bool {
	return id.ExpiredAt(time.Now())
}

// ExpiredAt reports whether the identity has expired at now.
func (id *Identity) ExpiredAt(now time.Time) bool {
	if id.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(id.ExpiresAt)
}
