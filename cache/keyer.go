package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short, stable digest of an identity key for use in
// logs and admin output. Identity keys carry captcha tokens and email
// addresses and are never logged raw.
//
// Format: the first 8 bytes of SHA-256(key), hex encoded (16 characters).
func Fingerprint(key string) string {
	if key == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
