package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/logging"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/users"
	"github.com/google/uuid"
)

// GraphService maintains follow edges together with the follow/follower
// counters of both ends.
type GraphService struct {
	c      coordinator
	logger logging.Logger
}

func NewGraphService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *GraphService {
	return &GraphService{c: newCoordinator(db, rm), logger: logger.With("module", "graph")}
}

// Follow makes actor follow target. Following twice is a no-op; following
// oneself is rejected.
func (s *GraphService) Follow(ctx context.Context, actor, target string) error {
	if target == "" {
		return fmt.Errorf("%w: follow target is required", common.ErrValidation)
	}
	if actor == target {
		return fmt.Errorf("%w: cannot follow yourself", common.ErrValidation)
	}

	return s.c.run(ctx, func(ctx context.Context, u unit) error {
		ok, err := u.users().Exists(ctx, target)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %s: %w", target, common.ErrNotFound)
		}

		inserted, err := u.follows().Create(ctx, &models.Follow{ID: uuid.NewString(), User: actor, Follow: target})
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}

		if err := u.users().AdjustCounter(ctx, actor, users.CounterFollow, 1); err != nil {
			return err
		}
		if err := u.users().AdjustCounter(ctx, target, users.CounterFollower, 1); err != nil {
			return err
		}
		return emit(ctx, u, actor, target, models.MessageFollow, Payload{Message: "started following you"})
	})
}

// Unfollow removes the (actor, target) edge. Counters move only when an edge
// was actually deleted.
func (s *GraphService) Unfollow(ctx context.Context, actor, target string) error {
	if target == "" {
		return fmt.Errorf("%w: unfollow target is required", common.ErrValidation)
	}

	return s.c.run(ctx, func(ctx context.Context, u unit) error {
		deleted, err := u.follows().Delete(ctx, actor, target)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return decrementFollow(ctx, u, actor, target)
	})
}

// UnfollowByID removes an edge by its id. The edge is read and locked before
// deletion so both counter owners are known; only the follower may remove it.
func (s *GraphService) UnfollowByID(ctx context.Context, actor, edgeID string) error {
	if edgeID == "" {
		return fmt.Errorf("%w: follow id is required", common.ErrValidation)
	}

	return s.c.run(ctx, func(ctx context.Context, u unit) error {
		edge, err := u.follows().GetForUpdate(ctx, edgeID)
		if err != nil {
			return err
		}
		if edge.User != actor {
			return fmt.Errorf("follow %s: %w", edgeID, common.ErrNotFound)
		}

		deleted, err := u.follows().DeleteByID(ctx, edgeID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return decrementFollow(ctx, u, edge.User, edge.Follow)
	})
}

func decrementFollow(ctx context.Context, u unit, follower, followed string) error {
	if err := u.users().AdjustCounter(ctx, follower, users.CounterFollow, -1); err != nil {
		return err
	}
	return u.users().AdjustCounter(ctx, followed, users.CounterFollower, -1)
}

func (s *GraphService) ListFollowing(ctx context.Context, actor string) ([]*models.Follow, error) {
	return s.c.read().follows().ListFollowing(ctx, actor)
}

func (s *GraphService) ListFollowers(ctx context.Context, actor string) ([]*models.Follow, error) {
	return s.c.read().follows().ListFollowers(ctx, actor)
}

func (s *GraphService) IsFollowing(ctx context.Context, actor, target string) (bool, error) {
	return s.c.read().follows().Exists(ctx, actor, target)
}
