package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a salted bcrypt digest of plain.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches digest. New digests are
// bcrypt; databases seeded by the legacy system hold unsalted SHA-256 hex
// digests, which still verify so existing staff can log in. Callers should
// rehash after a successful legacy match (see IsLegacyDigest).
func VerifyPassword(plain, digest string) bool {
	if IsLegacyDigest(digest) {
		sum := sha256.Sum256([]byte(plain))
		computed := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(digest))) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// IsLegacyDigest reports whether digest is an unsalted SHA-256 hex digest
// from the legacy schema rather than a bcrypt hash.
func IsLegacyDigest(digest string) bool {
	if len(digest) != 64 {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}
