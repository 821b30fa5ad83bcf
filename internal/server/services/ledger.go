package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/logging"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/articles"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/engagements"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/users"
	"github.com/google/uuid"
)

const (
	DefaultCommentScore = 5
	maxCommentScore     = 10
)

// CommentRater asks an external model to score a comment. The reply is free
// text; the first integer in it is taken as the score.
type CommentRater interface {
	RateComment(ctx context.Context, text string) (string, error)
}

// LedgerService records likes, collects, comments and shares. Each mutation
// touches the edge, the affected counters and the owner's notification in a
// single unit of work.
type LedgerService struct {
	c      coordinator
	rater  CommentRater
	logger logging.Logger
}

func NewLedgerService(db *sql.DB, rm repomanager.RepositoryManager, rater CommentRater, logger logging.Logger) *LedgerService {
	return &LedgerService{c: newCoordinator(db, rm), rater: rater, logger: logger.With("module", "ledger")}
}

// engagementSpec ties an edge kind to the counters and notification it drives.
type engagementSpec struct {
	kind    engagements.Kind
	article articles.Counter
	profile users.Counter
	message models.MessageType
	text    string
}

var (
	likeSpec = engagementSpec{
		kind:    engagements.KindLike,
		article: articles.CounterLike,
		profile: users.CounterLike,
		message: models.MessageLike,
		text:    "liked your article",
	}
	collectSpec = engagementSpec{
		kind:    engagements.KindCollect,
		article: articles.CounterCollect,
		profile: users.CounterCollect,
		message: models.MessageCollect,
		text:    "collected your article",
	}
)

func requireArticleID(articleID string) error {
	if articleID == "" {
		return fmt.Errorf("%w: article id is required", common.ErrValidation)
	}
	return nil
}

func (s *LedgerService) engage(ctx context.Context, spec engagementSpec, actor, articleID string) error {
	if err := requireArticleID(articleID); err != nil {
		return err
	}

	return s.c.run(ctx, func(ctx context.Context, u unit) error {
		owner, err := u.articles().GetOwner(ctx, articleID)
		if err != nil {
			return err
		}

		inserted, err := u.engagements().Create(ctx, spec.kind, &models.Engagement{
			ID:        uuid.NewString(),
			User:      actor,
			ArticleID: articleID,
		})
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}

		if err := u.articles().AdjustCounter(ctx, articleID, spec.article, 1); err != nil {
			return err
		}
		if err := u.users().AdjustCounter(ctx, actor, spec.profile, 1); err != nil {
			return err
		}
		return emit(ctx, u, actor, owner, spec.message, Payload{ArticleID: articleID, Message: spec.text})
	})
}

func (s *LedgerService) disengage(ctx context.Context, spec engagementSpec, actor, articleID string) error {
	if err := requireArticleID(articleID); err != nil {
		return err
	}

	return s.c.run(ctx, func(ctx context.Context, u unit) error {
		deleted, err := u.engagements().Delete(ctx, spec.kind, actor, articleID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		if err := u.articles().AdjustCounter(ctx, articleID, spec.article, -1); err != nil {
			return err
		}
		return u.users().AdjustCounter(ctx, actor, spec.profile, -1)
	})
}

func (s *LedgerService) Like(ctx context.Context, actor, articleID string) error {
	return s.engage(ctx, likeSpec, actor, articleID)
}

func (s *LedgerService) Unlike(ctx context.Context, actor, articleID string) error {
	return s.disengage(ctx, likeSpec, actor, articleID)
}

func (s *LedgerService) HasLike(ctx context.Context, actor, articleID string) (bool, error) {
	return s.c.read().engagements().Exists(ctx, engagements.KindLike, actor, articleID)
}

func (s *LedgerService) ListLikes(ctx context.Context, actor string) ([]*models.Engagement, error) {
	return s.c.read().engagements().ListByUser(ctx, engagements.KindLike, actor)
}

func (s *LedgerService) Collect(ctx context.Context, actor, articleID string) error {
	return s.engage(ctx, collectSpec, actor, articleID)
}

func (s *LedgerService) Uncollect(ctx context.Context, actor, articleID string) error {
	return s.disengage(ctx, collectSpec, actor, articleID)
}

func (s *LedgerService) HasCollect(ctx context.Context, actor, articleID string) (bool, error) {
	return s.c.read().engagements().Exists(ctx, engagements.KindCollect, actor, articleID)
}

func (s *LedgerService) ListCollects(ctx context.Context, actor string) ([]*models.Engagement, error) {
	return s.c.read().engagements().ListByUser(ctx, engagements.KindCollect, actor)
}

// AddHistory records that actor viewed an article. It reports whether the
// view was new; only new views raise the history counter.
func (s *LedgerService) AddHistory(ctx context.Context, actor, articleID string) (bool, error) {
	if err := requireArticleID(articleID); err != nil {
		return false, err
	}

	var added bool
	err := s.c.run(ctx, func(ctx context.Context, u unit) error {
		if _, err := u.articles().GetOwner(ctx, articleID); err != nil {
			return err
		}
		inserted, err := u.engagements().Create(ctx, engagements.KindHistory, &models.Engagement{
			ID:        uuid.NewString(),
			User:      actor,
			ArticleID: articleID,
		})
		if err != nil || !inserted {
			return err
		}
		added = true
		return u.users().AdjustCounter(ctx, actor, users.CounterHistory, 1)
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// ListHistories returns one entry per viewed article, newest first.
func (s *LedgerService) ListHistories(ctx context.Context, actor string) ([]*models.Engagement, error) {
	return s.c.read().engagements().ListByUser(ctx, engagements.KindHistory, actor)
}

// AddComment stores a comment with the default score and returns its id.
func (s *LedgerService) AddComment(ctx context.Context, actor, articleID, text string) (*models.Comment, error) {
	if err := requireArticleID(articleID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", common.ErrValidation)
	}

	c := &models.Comment{
		ID:        uuid.NewString(),
		User:      actor,
		ArticleID: articleID,
		Text:      text,
		Score:     DefaultCommentScore,
	}

	err := s.c.run(ctx, func(ctx context.Context, u unit) error {
		owner, err := u.articles().GetOwner(ctx, articleID)
		if err != nil {
			return err
		}
		if err := u.comments().Create(ctx, c); err != nil {
			return err
		}
		if err := u.articles().AdjustCounter(ctx, articleID, articles.CounterComment, 1); err != nil {
			return err
		}
		return emit(ctx, u, actor, owner, models.MessageComment, Payload{ArticleID: articleID, CommentID: c.ID, Message: text})
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment removes a comment written by actor. Comments of other users
// are reported as not found.
func (s *LedgerService) DeleteComment(ctx context.Context, actor, commentID string) error {
	if commentID == "" {
		return fmt.Errorf("%w: comment id is required", common.ErrValidation)
	}

	return s.c.run(ctx, func(ctx context.Context, u unit) error {
		c, err := u.comments().GetByID(ctx, commentID)
		if err != nil {
			return err
		}
		if c.User != actor {
			return fmt.Errorf("comment %s: %w", commentID, common.ErrNotFound)
		}
		deleted, err := u.comments().Delete(ctx, commentID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return u.articles().AdjustCounter(ctx, c.ArticleID, articles.CounterComment, -1)
	})
}

var firstInt = regexp.MustCompile(`\d+`)

// ParseScore extracts the first run of digits in a rater reply, capped at 10.
// Replies without a number score the default.
func ParseScore(reply string) int {
	m := firstInt.FindString(reply)
	if m == "" {
		return DefaultCommentScore
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return maxCommentScore
	}
	return min(n, maxCommentScore)
}

// UpdateScore rates the stored text of actor's comment and saves the result.
// Comments of other users are reported as not found. A failing rater is not
// an error: the comment keeps the default score.
func (s *LedgerService) UpdateScore(ctx context.Context, actor, commentID string) (int, error) {
	if commentID == "" {
		return 0, fmt.Errorf("%w: comment id is required", common.ErrValidation)
	}

	repo := s.c.read().comments()
	c, err := repo.GetByID(ctx, commentID)
	if err != nil {
		return 0, err
	}
	if c.User != actor {
		return 0, fmt.Errorf("comment %s: %w", commentID, common.ErrNotFound)
	}

	score := DefaultCommentScore
	if s.rater != nil {
		reply, err := s.rater.RateComment(ctx, c.Text)
		if err != nil {
			s.logger.Warn(ctx, "comment rating failed", "comment_id", commentID, "error", err)
		} else {
			score = ParseScore(reply)
		}
	}

	if err := repo.UpdateScore(ctx, commentID, score); err != nil {
		return 0, err
	}
	return score, nil
}

func (s *LedgerService) ListComments(ctx context.Context, articleID string) ([]*models.Comment, error) {
	if err := requireArticleID(articleID); err != nil {
		return nil, err
	}
	return s.c.read().comments().ListByArticle(ctx, articleID)
}

// Share records that actor sent an article to recipient.
func (s *LedgerService) Share(ctx context.Context, actor, articleID, recipient string) (*models.Share, error) {
	if err := requireArticleID(articleID); err != nil {
		return nil, err
	}
	if recipient == "" {
		return nil, fmt.Errorf("%w: share recipient is required", common.ErrValidation)
	}

	sh := &models.Share{
		ID:        uuid.NewString(),
		User:      actor,
		ArticleID: articleID,
		Recipient: recipient,
	}

	err := s.c.run(ctx, func(ctx context.Context, u unit) error {
		if _, err := u.articles().GetOwner(ctx, articleID); err != nil {
			return err
		}
		ok, err := u.users().Exists(ctx, recipient)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %s: %w", recipient, common.ErrNotFound)
		}
		if err := u.shares().Create(ctx, sh); err != nil {
			return err
		}
		if err := u.articles().AdjustCounter(ctx, articleID, articles.CounterShare, 1); err != nil {
			return err
		}
		return emit(ctx, u, actor, recipient, models.MessageShare, Payload{ArticleID: articleID, Message: "shared an article with you"})
	})
	if err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *LedgerService) Unshare(ctx context.Context, actor, shareID string) error {
	if shareID == "" {
		return fmt.Errorf("%w: share id is required", common.ErrValidation)
	}

	return s.c.run(ctx, func(ctx context.Context, u unit) error {
		sh, err := u.shares().GetByID(ctx, shareID)
		if err != nil {
			return err
		}
		if sh.User != actor {
			return fmt.Errorf("share %s: %w", shareID, common.ErrNotFound)
		}
		deleted, err := u.shares().Delete(ctx, shareID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return u.articles().AdjustCounter(ctx, sh.ArticleID, articles.CounterShare, -1)
	})
}

func (s *LedgerService) ListShares(ctx context.Context, actor string) ([]*models.Share, error) {
	return s.c.read().shares().ListByUser(ctx, actor)
}
