// Package httpapi implements the HTTP transport layer of the server.
// Handlers decode JSON requests, call the service layer, and map service
// errors to HTTP statuses. Authentication is enforced by a bearer-token
// middleware before capsule routes are reached.
package httpapi

import (
	"context"

	"github.com/dkolesni/timecapsule/internal/logging"
	"github.com/dkolesni/timecapsule/internal/server/models"
	"github.com/dkolesni/timecapsule/internal/server/services"
)

// UserService is the part of the service layer the auth routes need.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// CapsuleService is the part of the service layer the capsule routes need.
type CapsuleService interface {
	Create(ctx context.Context, userID string, capsule *models.Capsule) (string, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Capsule, error)
	GetForUser(ctx context.Context, id string, userID string) (*models.Capsule, error)
	Unlock(ctx context.Context, id string, userID string) error
	CreateFileSlot(ctx context.Context, capsuleID string, userID string) (*services.FileSlot, error)
	CreateFile(ctx context.Context, userID string, file *models.File) (string, error)
	ListFiles(ctx context.Context, capsuleID string, userID string) ([]*services.FileView, error)
}

// Handler holds the services and dependencies shared by all routes.
type Handler struct {
	users     UserService
	capsules  CapsuleService
	jwtSecret []byte
	logger    logging.Logger
}

func NewHandler(users UserService, capsules CapsuleService, jwtSecret []byte, logger logging.Logger) *Handler {
	return &Handler{users: users, capsules: capsules, jwtSecret: jwtSecret, logger: logger}
}
