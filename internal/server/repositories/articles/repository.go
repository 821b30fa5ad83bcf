// Package articles is the narrow read/counter view over article content that
// the ledger needs. Authoring articles is handled elsewhere.
package articles

import (
	"context"

	"github.com/dmitrijs2005/tourgo/internal/server/models"
)

type Counter int

const (
	CounterLike Counter = iota
	CounterCollect
	CounterComment
	CounterShare
)

func (c Counter) column() (string, bool) {
	switch c {
	case CounterLike:
		return "like_count", true
	case CounterCollect:
		return "collect_count", true
	case CounterComment:
		return "comment_count", true
	case CounterShare:
		return "share_count", true
	}
	return "", false
}

type Repository interface {
	GetOwner(ctx context.Context, articleID string) (string, error)
	AdjustCounter(ctx context.Context, articleID string, counter Counter, delta int) error
	Get(ctx context.Context, articleID string) (*models.Article, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Article, error)
	ListByLabel(ctx context.Context, label string, limit int) ([]*models.Article, error)
	// ListFollowedBy returns articles written by the users that follower
	// follows.
	ListFollowedBy(ctx context.Context, follower string, limit int) ([]*models.Article, error)
	Search(ctx context.Context, keyword string, limit int) ([]*models.Article, error)
}
