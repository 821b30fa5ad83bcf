package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/labels"
	"github.com/dmitrijs2005/tourgo/internal/logging"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/repomanager"
)

const articleListLimit = 60

// ImageGenerator turns a text prompt into an image URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ErrGenerationTimeout is returned when the image generator does not answer
// within the configured bound.
var ErrGenerationTimeout = errors.New("image generation timed out")

// ArticleService serves the read-only article feeds and cover generation.
type ArticleService struct {
	c         coordinator
	generator ImageGenerator
	timeout   time.Duration
	logger    logging.Logger
}

func NewArticleService(db *sql.DB, rm repomanager.RepositoryManager, generator ImageGenerator, timeout time.Duration, logger logging.Logger) *ArticleService {
	return &ArticleService{
		c:         newCoordinator(db, rm),
		generator: generator,
		timeout:   timeout,
		logger:    logger.With("module", "articles"),
	}
}

func (s *ArticleService) Recommended(ctx context.Context) ([]*models.Article, error) {
	return s.c.read().articles().ListRecent(ctx, articleListLimit)
}

func (s *ArticleService) Get(ctx context.Context, articleID string) (*models.Article, error) {
	if err := requireArticleID(articleID); err != nil {
		return nil, err
	}
	return s.c.read().articles().Get(ctx, articleID)
}

// ByLabel accepts only tags of the closed label set.
func (s *ArticleService) ByLabel(ctx context.Context, tag string) ([]*models.Article, error) {
	l, err := labels.Lookup(tag)
	if err != nil {
		return nil, err
	}
	return s.c.read().articles().ListByLabel(ctx, l.Tag, articleListLimit)
}

// FollowedBy lists articles written by the users username follows.
func (s *ArticleService) FollowedBy(ctx context.Context, username string) ([]*models.Article, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	return s.c.read().articles().ListFollowedBy(ctx, username, articleListLimit)
}

func (s *ArticleService) Search(ctx context.Context, keyword string) ([]*models.Article, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword is required", common.ErrValidation)
	}
	return s.c.read().articles().Search(ctx, keyword, articleListLimit)
}

// GenerateImage asks the generator for a cover image. The call is bounded by
// the service timeout and is not retried.
func (s *ArticleService) GenerateImage(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: prompt is required", common.ErrValidation)
	}
	if s.generator == nil {
		return "", fmt.Errorf("%w: image generation is not configured", common.ErrInternal)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url, err := s.generator.GenerateImage(ctx, text)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrGenerationTimeout
		}
		return "", fmt.Errorf("generate image: %w", err)
	}
	return url, nil
}
