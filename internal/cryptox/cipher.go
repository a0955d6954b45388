package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/dkolesni/timecapsule/internal/common"
)

// NonceSize is the AES-GCM nonce length in bytes (96 bits). A fresh random
// nonce is generated for every encryption; a nonce must never be reused
// under the same key.
const NonceSize = 12

// EncryptedField is the result of one encryption operation over a text
// field, transport-encoded for storage in text-oriented record columns.
type EncryptedField struct {
	// Ciphertext is base64(AES-GCM ciphertext incl. tag).
	Ciphertext string
	// Nonce is base64 of the 12-byte nonce used for this operation.
	Nonce string
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, common.ErrInvalidKeyLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptString encrypts plaintext under key with a fresh random nonce and
// returns the transport-encoded field.
func EncryptString(plaintext string, key []byte) (EncryptedField, error) {
	ciphertext, nonce, err := EncryptBlob([]byte(plaintext), key)
	if err != nil {
		return EncryptedField{}, err
	}
	return EncryptedField{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

// DecryptString reverses EncryptString. It fails with
// common.ErrAuthenticationFailed if the tag does not verify (wrong key,
// corrupted ciphertext, or tampering), and never returns partial plaintext.
func DecryptString(field EncryptedField, key []byte) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(field.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext encoding", common.ErrAuthenticationFailed)
	}
	nonce, err := base64.StdEncoding.DecodeString(field.Nonce)
	if err != nil {
		return "", fmt.Errorf("%w: bad encoding", common.ErrInvalidNonce)
	}
	plaintext, err := DecryptBlob(ciphertext, nonce, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptBlob encrypts a raw byte buffer (e.g. file contents) under key.
// The ciphertext stays binary; only the returned nonce needs transport
// encoding when stored in a text field.
func EncryptBlob(plaintext []byte, key []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// DecryptBlob reverses EncryptBlob. The nonce length is validated before
// use; a failed tag check is reported as common.ErrAuthenticationFailed.
func DecryptBlob(ciphertext, nonce, key []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, common.ErrInvalidNonce
	}
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAuthenticationFailed, err)
	}
	return plaintext, nil
}
