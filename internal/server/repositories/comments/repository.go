package comments

import (
	"context"

	"github.com/dmitrijs2005/tourgo/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
	UpdateScore(ctx context.Context, id string, score int) error
	ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error)
}
