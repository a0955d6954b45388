// Package services contains the client-side application services: the
// capsule store, which encrypts and decrypts everything crossing the API
// boundary, and reflection generation over unlocked capsules.
package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dkolesni/timecapsule/internal/client/api"
	"github.com/dkolesni/timecapsule/internal/client/session"
	"github.com/dkolesni/timecapsule/internal/common"
	"github.com/dkolesni/timecapsule/internal/cryptox"
	"github.com/dkolesni/timecapsule/internal/logging"
)

// FileUpload is one plaintext attachment handed to Create.
type FileUpload struct {
	Name     string
	MIMEType string
	Data     []byte
}

// CapsuleView is a decrypted capsule as shown to the user. While the
// capsule is locked, Content carries the placeholder instead of plaintext.
type CapsuleView struct {
	ID          string
	Title       string
	Content     string
	UnlockDate  time.Time
	CreatedAt   time.Time
	Unlocked    bool
	CapsuleType string
}

// FileView is a decrypted attachment listing entry. Data is filled only
// by DownloadFile.
type FileView struct {
	ID       string
	Name     string
	MIMEType string
	Data     []byte
}

// CapsuleStore encrypts capsules on the way to the server and decrypts
// them on the way back. The unlock gate is evaluated here, against local
// time, because only the client can read the content anyway.
type CapsuleStore struct {
	client  api.Client
	session *session.Manager
	logger  logging.Logger

	// nowFn is replaced in tests to simulate the passage of time.
	nowFn func() time.Time
}

func NewCapsuleStore(client api.Client, session *session.Manager, logger logging.Logger) *CapsuleStore {
	return &CapsuleStore{
		client:  client,
		session: session,
		logger:  logger,
		nowFn:   time.Now,
	}
}

// capsuleTypeFor classifies a capsule by its parts: text only, files only,
// or both.
func capsuleTypeFor(content string, files []FileUpload) string {
	switch {
	case len(files) == 0:
		return string(common.CapsuleTypeText)
	case content == "":
		return string(common.CapsuleTypeImage)
	default:
		return string(common.CapsuleTypeMixed)
	}
}

// Create encrypts and stores a capsule with its attachments. The capsule
// record is committed first; attachments follow one by one. A failed
// attachment does not roll the capsule back, the error is returned with
// the already-created capsule id so the user knows what was saved.
func (s *CapsuleStore) Create(ctx context.Context, title, content string, unlockDate time.Time, files []FileUpload) (string, error) {
	key, err := s.session.Key()
	if err != nil {
		return "", err
	}

	encTitle, err := cryptox.EncryptString(title, key)
	if err != nil {
		return "", fmt.Errorf("title encryption error: %w", err)
	}
	encContent, err := cryptox.EncryptString(content, key)
	if err != nil {
		return "", fmt.Errorf("content encryption error: %w", err)
	}

	capsule := &api.Capsule{
		TitleEncrypted:   encTitle.Ciphertext,
		TitleIV:          encTitle.Nonce,
		ContentEncrypted: encContent.Ciphertext,
		ContentIV:        encContent.Nonce,
		UnlockDate:       unlockDate.UTC(),
		CapsuleType:      capsuleTypeFor(content, files),
	}

	id, err := s.client.CreateCapsule(ctx, capsule)
	if err != nil {
		return "", fmt.Errorf("error creating capsule: %w", err)
	}

	for _, f := range files {
		if err := s.attachFile(ctx, id, key, f); err != nil {
			return id, fmt.Errorf("capsule %s saved, attachment %q failed: %w", id, f.Name, err)
		}
	}
	return id, nil
}

func (s *CapsuleStore) attachFile(ctx context.Context, capsuleID string, key []byte, f FileUpload) error {
	slot, err := s.client.CreateFileSlot(ctx, capsuleID)
	if err != nil {
		return fmt.Errorf("error reserving file slot: %w", err)
	}

	blob, nonce, err := cryptox.EncryptBlob(f.Data, key)
	if err != nil {
		return fmt.Errorf("blob encryption error: %w", err)
	}
	if err := s.client.UploadBlob(ctx, slot.UploadURL, blob); err != nil {
		return fmt.Errorf("blob upload error: %w", err)
	}

	encName, err := cryptox.EncryptString(f.Name, key)
	if err != nil {
		return fmt.Errorf("name encryption error: %w", err)
	}
	encType, err := cryptox.EncryptString(f.MIMEType, key)
	if err != nil {
		return fmt.Errorf("type encryption error: %w", err)
	}

	record := &api.File{
		CapsuleID:     capsuleID,
		FilePath:      slot.FilePath,
		NameEncrypted: encName.Ciphertext,
		NameIV:        encName.Nonce,
		TypeEncrypted: encType.Ciphertext,
		TypeIV:        encType.Nonce,
		FileIV:        base64.StdEncoding.EncodeToString(nonce),
	}
	if _, err := s.client.CreateFile(ctx, record); err != nil {
		return fmt.Errorf("error creating file record: %w", err)
	}
	return nil
}

// List returns the user's capsules, newest first. Records that fail to
// decrypt are skipped, one bad record must not take the listing down.
func (s *CapsuleStore) List(ctx context.Context) ([]*CapsuleView, error) {
	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}

	capsules, err := s.client.ListCapsules(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing capsules: %w", err)
	}

	result := make([]*CapsuleView, 0, len(capsules))
	for _, c := range capsules {
		view, err := s.decryptCapsule(ctx, c, key)
		if err != nil {
			s.logger.Warn(ctx, "skipping unreadable capsule", "id", c.ID, "error", err)
			continue
		}
		result = append(result, view)
	}
	return result, nil
}

// GetByID returns one decrypted capsule. Unknown and foreign ids are both
// common.ErrorNotFound.
func (s *CapsuleStore) GetByID(ctx context.Context, id string) (*CapsuleView, error) {
	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}

	c, err := s.client.GetCapsule(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting capsule: %w", err)
	}

	view, err := s.decryptCapsule(ctx, c, key)
	if err != nil {
		// a record this key cannot open is as good as absent
		s.logger.Warn(ctx, "unreadable capsule", "id", c.ID, "error", err)
		return nil, common.ErrorNotFound
	}
	return view, nil
}

// decryptCapsule turns a wire capsule into a view. The title is always
// decrypted; the content only once the unlock date has passed. The first
// read past the unlock date also flips the server-side flag, in the
// background because the view itself does not depend on it.
func (s *CapsuleStore) decryptCapsule(ctx context.Context, c *api.Capsule, key []byte) (*CapsuleView, error) {
	title, err := cryptox.DecryptString(cryptox.EncryptedField{Ciphertext: c.TitleEncrypted, Nonce: c.TitleIV}, key)
	if err != nil {
		return nil, fmt.Errorf("title decryption error: %w", err)
	}

	// content is decrypted regardless of the gate, so a corrupt record is
	// caught now instead of on unlock day. The plaintext is withheld below.
	content, err := cryptox.DecryptString(cryptox.EncryptedField{Ciphertext: c.ContentEncrypted, Nonce: c.ContentIV}, key)
	if err != nil {
		return nil, fmt.Errorf("content decryption error: %w", err)
	}

	unlocked := c.IsUnlocked || !s.nowFn().Before(c.UnlockDate)
	if !unlocked {
		content = common.LockedContentPlaceholder
	}

	if unlocked && !c.IsUnlocked {
		go s.flipUnlocked(c.ID)
	}

	return &CapsuleView{
		ID:          c.ID,
		Title:       title,
		Content:     content,
		UnlockDate:  c.UnlockDate,
		CreatedAt:   c.CreatedAt,
		Unlocked:    unlocked,
		CapsuleType: c.CapsuleType,
	}, nil
}

func (s *CapsuleStore) flipUnlocked(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.UnlockCapsule(ctx, id); err != nil {
		s.logger.Warn(ctx, "error persisting unlock flag", "id", id, "error", err)
	}
}

// ListFiles returns decrypted attachment metadata for a capsule. Like
// List, it skips records it cannot decrypt.
func (s *CapsuleStore) ListFiles(ctx context.Context, capsuleID string) ([]*FileView, error) {
	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}

	records, err := s.client.ListFiles(ctx, capsuleID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error listing files: %w", err)
	}

	result := make([]*FileView, 0, len(records))
	for _, f := range records {
		name, err := cryptox.DecryptString(cryptox.EncryptedField{Ciphertext: f.NameEncrypted, Nonce: f.NameIV}, key)
		if err != nil {
			s.logger.Warn(ctx, "skipping unreadable file record", "id", f.ID, "error", err)
			continue
		}
		mimeType, err := cryptox.DecryptString(cryptox.EncryptedField{Ciphertext: f.TypeEncrypted, Nonce: f.TypeIV}, key)
		if err != nil {
			s.logger.Warn(ctx, "skipping unreadable file record", "id", f.ID, "error", err)
			continue
		}
		result = append(result, &FileView{ID: f.ID, Name: name, MIMEType: mimeType})
	}
	return result, nil
}

// DownloadFile fetches and decrypts one attachment blob. The capsule gate
// applies: a locked capsule's files stay sealed.
func (s *CapsuleStore) DownloadFile(ctx context.Context, capsuleID, fileID string) (*FileView, error) {
	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}

	capsule, err := s.GetByID(ctx, capsuleID)
	if err != nil {
		return nil, err
	}
	if !capsule.Unlocked {
		return nil, fmt.Errorf("capsule is locked until %s", capsule.UnlockDate.Format(time.RFC3339))
	}

	records, err := s.client.ListFiles(ctx, capsuleID)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}

	for _, f := range records {
		if f.ID != fileID {
			continue
		}

		name, err := cryptox.DecryptString(cryptox.EncryptedField{Ciphertext: f.NameEncrypted, Nonce: f.NameIV}, key)
		if err != nil {
			return nil, fmt.Errorf("name decryption error: %w", err)
		}
		mimeType, err := cryptox.DecryptString(cryptox.EncryptedField{Ciphertext: f.TypeEncrypted, Nonce: f.TypeIV}, key)
		if err != nil {
			return nil, fmt.Errorf("type decryption error: %w", err)
		}

		blob, err := s.client.DownloadBlob(ctx, f.DownloadURL)
		if err != nil {
			return nil, fmt.Errorf("blob download error: %w", err)
		}
		nonce, err := base64.StdEncoding.DecodeString(f.FileIV)
		if err != nil {
			return nil, common.ErrInvalidNonce
		}
		data, err := cryptox.DecryptBlob(blob, nonce, key)
		if err != nil {
			return nil, fmt.Errorf("blob decryption error: %w", err)
		}

		return &FileView{ID: f.ID, Name: name, MIMEType: mimeType, Data: data}, nil
	}
	return nil, common.ErrorNotFound
}
