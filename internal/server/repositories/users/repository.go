package users

import (
	"context"

	"github.com/dmitrijs2005/tourgo/internal/server/models"
)

// SecretKind selects which stored digest an operation targets.
type SecretKind int

const (
	SecretPassword SecretKind = iota
	SecretCertify
)

func (k SecretKind) column() (string, bool) {
	switch k {
	case SecretPassword:
		return "password", true
	case SecretCertify:
		return "certify", true
	}
	return "", false
}

// Counter is the closed set of identity counters.
type Counter int

const (
	CounterFollow Counter = iota
	CounterFollower
	CounterLike
	CounterCollect
	CounterArticle
	CounterPlan
	CounterDraft
	CounterHistory
)

func (c Counter) column() (string, bool) {
	switch c {
	case CounterFollow:
		return "follow_count", true
	case CounterFollower:
		return "follower_count", true
	case CounterLike:
		return "like_count", true
	case CounterCollect:
		return "collect_count", true
	case CounterArticle:
		return "article_count", true
	case CounterPlan:
		return "plan_count", true
	case CounterDraft:
		return "draft_count", true
	case CounterHistory:
		return "history_count", true
	}
	return "", false
}

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	Exists(ctx context.Context, userName string) (bool, error)
	GetDigest(ctx context.Context, userName string, kind SecretKind) (string, error)
	UpdateDigest(ctx context.Context, userName string, kind SecretKind, digest string) error
	SetAvatar(ctx context.Context, userName, avatar string) error
	AdjustCounter(ctx context.Context, userName string, counter Counter, delta int) error
}
