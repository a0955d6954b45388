// Package api is the client-side adapter for the capsule server REST API.
// Everything crossing this boundary is ciphertext or plaintext scheduling
// metadata; encryption happens above it, in the client services.
package api

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnauthorized = errors.New("client unauthorized")
	ErrNotFound     = errors.New("not found")
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Capsule is the wire form of a capsule record.
type Capsule struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	TitleEncrypted   string    `json:"title_encrypted"`
	TitleIV          string    `json:"title_iv"`
	ContentEncrypted string    `json:"content_encrypted"`
	ContentIV        string    `json:"content_iv"`
	UnlockDate       time.Time `json:"unlock_date"`
	CreatedAt        time.Time `json:"created_at"`
	IsUnlocked       bool      `json:"is_unlocked"`
	CapsuleType      string    `json:"capsule_type"`
}

// FileSlot is a reserved blob location: the storage key to record and a
// presigned URL to PUT the ciphertext to.
type FileSlot struct {
	FilePath  string `json:"file_path"`
	UploadURL string `json:"upload_url"`
}

// File is the wire form of an attached-file record. DownloadURL is set
// only in listings and expires shortly after issue.
type File struct {
	ID            string    `json:"id"`
	CapsuleID     string    `json:"capsule_id"`
	FilePath      string    `json:"file_path"`
	NameEncrypted string    `json:"name_encrypted"`
	NameIV        string    `json:"name_iv"`
	TypeEncrypted string    `json:"type_encrypted"`
	TypeIV        string    `json:"type_iv"`
	FileIV        string    `json:"file_iv"`
	CreatedAt     time.Time `json:"created_at"`
	DownloadURL   string    `json:"download_url"`
}

// Client is the server adapter used by the client services and the CLI.
type Client interface {
	Register(ctx context.Context, email, password, name string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout()

	CreateCapsule(ctx context.Context, capsule *Capsule) (string, error)
	ListCapsules(ctx context.Context) ([]*Capsule, error)
	GetCapsule(ctx context.Context, id string) (*Capsule, error)
	UnlockCapsule(ctx context.Context, id string) error

	CreateFileSlot(ctx context.Context, capsuleID string) (*FileSlot, error)
	CreateFile(ctx context.Context, file *File) (string, error)
	ListFiles(ctx context.Context, capsuleID string) ([]*File, error)

	UploadBlob(ctx context.Context, url string, data []byte) error
	DownloadBlob(ctx context.Context, url string) ([]byte, error)
}
