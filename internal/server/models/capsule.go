// Package models defines server-side data models persisted in the database.
// The server stores ciphertext and nonces as opaque values; it has no key
// and cannot read capsule content.
package models

import "time"

// Capsule is a stored capsule record. Title and content arrive already
// encrypted from the client; only unlock_date/created_at/is_unlocked and
// capsule_type are plaintext, because the server needs them for querying
// and for the lazy unlock flip.
type Capsule struct {
	ID     string
	UserID string

	// TitleEncrypted / TitleIV: base64 ciphertext and nonce of the title.
	TitleEncrypted string
	TitleIV        string
	// ContentEncrypted / ContentIV: base64 ciphertext and nonce of the body.
	ContentEncrypted string
	ContentIV        string

	// UnlockDate is the instant the capsule becomes readable to its owner.
	UnlockDate time.Time
	CreatedAt  time.Time

	// IsUnlocked caches "now >= UnlockDate" once observed true. Monotonic:
	// set exactly once, never cleared.
	IsUnlocked bool

	// CapsuleType is one of "text", "image", "mixed".
	CapsuleType string
}
