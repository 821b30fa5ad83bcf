package messages

import (
	"context"

	"github.com/dmitrijs2005/tourgo/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Message) error
	// ListByReceiver returns every message addressed to receiver, newest first.
	ListByReceiver(ctx context.Context, receiver string) ([]*models.Message, error)
	MarkRead(ctx context.Context, id, receiver string) (bool, error)
	MarkAllRead(ctx context.Context, receiver string) (int64, error)
	Delete(ctx context.Context, id, receiver string) (bool, error)
}
