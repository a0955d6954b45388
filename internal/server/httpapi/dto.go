package httpapi

import (
	"time"

	"github.com/dkolesni/timecapsule/internal/server/models"
	"github.com/dkolesni/timecapsule/internal/server/services"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type capsuleRequest struct {
	TitleEncrypted   string    `json:"title_encrypted"`
	TitleIV          string    `json:"title_iv"`
	ContentEncrypted string    `json:"content_encrypted"`
	ContentIV        string    `json:"content_iv"`
	UnlockDate       time.Time `json:"unlock_date"`
	CapsuleType      string    `json:"capsule_type"`
}

type capsuleResponse struct {
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

type createdResponse struct {
	ID string `json:"id"`
}

type fileSlotResponse struct {
	FilePath  string `json:"file_path"`
	UploadURL string `json:"upload_url"`
}

type fileRequest struct {
	FilePath      string `json:"file_path"`
	NameEncrypted string `json:"name_encrypted"`
	NameIV        string `json:"name_iv"`
	TypeEncrypted string `json:"type_encrypted"`
	TypeIV        string `json:"type_iv"`
	FileIV        string `json:"file_iv"`
}

type fileResponse struct {
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

func toCapsuleResponse(c *models.Capsule) capsuleResponse {
	return capsuleResponse{
		ID:               c.ID,
		UserID:           c.UserID,
		TitleEncrypted:   c.TitleEncrypted,
		TitleIV:          c.TitleIV,
		ContentEncrypted: c.ContentEncrypted,
		ContentIV:        c.ContentIV,
		UnlockDate:       c.UnlockDate,
		CreatedAt:        c.CreatedAt,
		IsUnlocked:       c.IsUnlocked,
		CapsuleType:      c.CapsuleType,
	}
}

func toFileResponse(v *services.FileView) fileResponse {
	return fileResponse{
		ID:            v.File.ID,
		CapsuleID:     v.File.CapsuleID,
		FilePath:      v.File.FilePath,
		NameEncrypted: v.File.NameEncrypted,
		NameIV:        v.File.NameIV,
		TypeEncrypted: v.File.TypeEncrypted,
		TypeIV:        v.File.TypeIV,
		FileIV:        v.File.FileIV,
		CreatedAt:     v.File.CreatedAt,
		DownloadURL:   v.DownloadURL,
	}
}
