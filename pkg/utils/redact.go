package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashEmail returns a short SHA-256 digest of a normalized email address so
// requests from the same caller can be correlated in logs without storing
// the address itself. Empty input yields an empty string.
func HashEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}

	h := sha256.New()
	h.Write([]byte(email))

	return hex.EncodeToString(h.Sum(nil))[:12]
}
