package models

import "time"

// RefreshToken is a server-stored, long-lived token exchanged for new
// access tokens. Rotated on every use.
type RefreshToken struct {
	Token   string
	UserID  string
	Expires time.Time
}
