// Package engagements stores like, collect and viewing-history edges. All
// kinds share one shape and differ only in the table they live in.
package engagements

import (
	"context"

	"github.com/dmitrijs2005/tourgo/internal/server/models"
)

type Kind int

const (
	KindLike Kind = iota
	KindCollect
	KindHistory
)

type table struct {
	name string
	id   string
}

func (k Kind) table() (table, bool) {
	switch k {
	case KindLike:
		return table{name: "likes", id: "like_id"}, true
	case KindCollect:
		return table{name: "collects", id: "collect_id"}, true
	case KindHistory:
		return table{name: "histories", id: "history_id"}, true
	}
	return table{}, false
}

func (k Kind) String() string {
	switch k {
	case KindLike:
		return "like"
	case KindCollect:
		return "collect"
	case KindHistory:
		return "history"
	}
	return "unknown"
}

type Repository interface {
	Create(ctx context.Context, kind Kind, e *models.Engagement) (bool, error)
	Delete(ctx context.Context, kind Kind, user, articleID string) (bool, error)
	Exists(ctx context.Context, kind Kind, user, articleID string) (bool, error)
	// ListByUser returns the user's edges, newest first, each with the
	// article owner resolved in the same query.
	ListByUser(ctx context.Context, kind Kind, user string) ([]*models.Engagement, error)
}
