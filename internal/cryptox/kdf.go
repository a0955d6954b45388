// Package cryptox implements the key derivation and authenticated
// encryption used for capsule content. All encryption happens on the
// client; the backend only ever stores ciphertext and nonces.
package cryptox

import (
	"crypto/sha256"

	"github.com/dkolesni/timecapsule/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// kdfIterations is the PBKDF2 work factor. Fixed: changing it changes
	// every derived key and orphans existing ciphertext.
	kdfIterations = 100000
	// saltContext is a versioned application constant mixed into the salt,
	// binding derived keys to this scheme.
	saltContext = "capsule_salt_2024"
)

// DeriveKey derives a 256-bit encryption key from a password and salt using
// PBKDF2-SHA256. Deterministic: the same inputs always produce the same key,
// which is the only way a user ever gets their key back.
//
// An empty password is rejected rather than silently accepted as a weak key.
func DeriveKey(password []byte, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, common.ErrEmptyPassword
	}
	return pbkdf2.Key(password, salt, kdfIterations, KeySize, sha256.New), nil
}

// SaltFor derives the per-user salt from the user's stable identifier.
// The salt is not secret: anyone who knows the scheme and the user id can
// compute it. Only the password protects the key.
func SaltFor(userID string) []byte {
	sum := sha256.Sum256([]byte(userID + saltContext))
	return sum[:]
}
