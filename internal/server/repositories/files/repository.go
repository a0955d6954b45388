package files

import (
	"context"

	"github.com/dkolesni/timecapsule/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) error
	SelectByCapsule(ctx context.Context, capsuleID string, userID string) ([]*models.File, error)
}
