package shares

import (
	"context"

	"github.com/dmitrijs2005/tourgo/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Share) error
	GetByID(ctx context.Context, id string) (*models.Share, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, user string) ([]*models.Share, error)
}
