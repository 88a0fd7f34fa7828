package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100000
	pbkdf2KeyLength  = 32
	saltLength       = 32

	// MinPasswordLength applies to registration, invites and password resets.
	MinPasswordLength = 8
)

// ErrCorruptCredential means a stored credential is not in digest:salt form.
var ErrCorruptCredential = errors.New("invalid password format")

// HashPassword derives the PBKDF2-HMAC-SHA256 digest of password. An empty salt
// is replaced by 32 random bytes, hex encoded. The salt is used as its hex text.
func HashPassword(password, salt string) (digest string, usedSalt string, err error) {
	if salt == "" {
		buf := make([]byte, saltLength)
		if _, err := rand.Read(buf); err != nil {
			return "", "", err
		}
		salt = hex.EncodeToString(buf)
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hex.EncodeToString(key), salt, nil
}

// VerifyPassword recomputes the digest and compares it in constant time.
func VerifyPassword(password, digest, salt string) bool {
	computed, _, err := HashPassword(password, salt)
	if err != nil || salt == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// NewCredential hashes password with a fresh salt into the stored digest:salt form.
func NewCredential(password string) (string, error) {
	digest, salt, err := HashPassword(password, "")
	if err != nil {
		return "", err
	}
	return digest + ":" + salt, nil
}

// CheckCredential verifies password against a stored digest:salt value.
func CheckCredential(password, stored string) (bool, error) {
	if strings.Count(stored, ":") != 1 {
		return false, ErrCorruptCredential
	}
	digest, salt, _ := strings.Cut(stored, ":")
	return VerifyPassword(password, digest, salt), nil
}
