// Package common contains shared constants and sentinel errors used across
// time capsule components.
package common

// AccessTokenHeaderName is the HTTP header used to carry the access token
// on authenticated requests.
const AccessTokenHeaderName = "Authorization"

// LockedContentPlaceholder is what a capsule's content is replaced with on
// every read path before the unlock instant. The real plaintext is never
// shown early, whatever the underlying state of the record.
const LockedContentPlaceholder = "[Locked until unlock date]"

// CapsuleType enumerates the kinds of capsules a user can create.
type CapsuleType string

const (
	CapsuleTypeText  CapsuleType = "text"
	CapsuleTypeImage CapsuleType = "image"
	CapsuleTypeMixed CapsuleType = "mixed"
)

// Valid reports whether t is one of the known capsule types.
func (t CapsuleType) Valid() bool {
	switch t {
	case CapsuleTypeText, CapsuleTypeImage, CapsuleTypeMixed:
		return true
	}
	return false
}
