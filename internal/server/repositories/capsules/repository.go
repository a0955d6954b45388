package capsules

import (
	"context"

	"github.com/dkolesni/timecapsule/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, capsule *models.Capsule) error
	SelectByUser(ctx context.Context, userID string) ([]*models.Capsule, error)
	GetByID(ctx context.Context, id string) (*models.Capsule, error)
	MarkUnlocked(ctx context.Context, id string, userID string) error
}
