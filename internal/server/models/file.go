package models

import "time"

// File describes server-side metadata for an encrypted blob attached to a
// capsule. The ciphertext itself lives in object storage under FilePath;
// this record carries only encrypted metadata plus the nonce used for the
// bulk encryption (a separate operation from the metadata encryption,
// tracked independently).
type File struct {
	ID        string
	CapsuleID string
	UserID    string

	// FilePath is the object-storage key of the ciphertext blob.
	FilePath string

	// NameEncrypted / NameIV: base64 ciphertext and nonce of the file name.
	NameEncrypted string
	NameIV        string
	// TypeEncrypted / TypeIV: base64 ciphertext and nonce of the MIME type.
	TypeEncrypted string
	TypeIV        string

	// FileIV is the base64 nonce used for the blob ciphertext.
	FileIV string

	CreatedAt time.Time
}
