package follows

import (
	"context"

	"github.com/dmitrijs2005/tourgo/internal/server/models"
)

type Repository interface {
	// Create inserts the edge unless it already exists and reports whether
	// a row was written.
	Create(ctx context.Context, f *models.Follow) (bool, error)
	Delete(ctx context.Context, user, follow string) (bool, error)
	// GetForUpdate reads an edge by id and locks it for the rest of the
	// transaction.
	GetForUpdate(ctx context.Context, id string) (*models.Follow, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, user, follow string) (bool, error)
	ListFollowing(ctx context.Context, user string) ([]*models.Follow, error)
	ListFollowers(ctx context.Context, user string) ([]*models.Follow, error)
}
