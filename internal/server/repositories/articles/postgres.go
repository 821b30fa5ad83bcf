package articles

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/dbx"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/pgerr"
)

const selectArticle = `SELECT article_id, user_name, title, content, human_labels, cover,
		        like_count, collect_count, comment_count, share_count, created_at
		 FROM articles`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetOwner(ctx context.Context, articleID string) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT user_name FROM articles WHERE article_id = $1`, articleID).Scan(&owner)
	if err != nil {
		return "", pgerr.Wrap(err)
	}
	return owner, nil
}

func (r *PostgresRepository) AdjustCounter(ctx context.Context, articleID string, counter Counter, delta int) error {
	col, ok := counter.column()
	if !ok {
		return fmt.Errorf("%w: unknown article counter %d", common.ErrValidation, counter)
	}
	query := fmt.Sprintf(`UPDATE articles SET %[1]s = %[1]s + $2 WHERE article_id = $1`, col)

	n, err := dbx.ExecAffected(ctx, r.db, query, articleID, delta)
	if err != nil {
		return pgerr.Wrap(err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, articleID string) (*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, selectArticle+` WHERE article_id = $1`, articleID)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	list, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, common.ErrNotFound
	}
	return list[0], nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*models.Article, error) {
	return r.query(ctx, selectArticle+` ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *PostgresRepository) ListByLabel(ctx context.Context, label string, limit int) ([]*models.Article, error) {
	return r.query(ctx, selectArticle+` WHERE human_labels @> jsonb_build_array($1::text) ORDER BY created_at DESC LIMIT $2`, label, limit)
}

func (r *PostgresRepository) ListFollowedBy(ctx context.Context, follower string, limit int) ([]*models.Article, error) {
	return r.query(ctx, selectArticle+`
		 WHERE user_name IN (SELECT follow FROM follows WHERE user_name = $1)
		 ORDER BY created_at DESC LIMIT $2`, follower, limit)
}

func (r *PostgresRepository) Search(ctx context.Context, keyword string, limit int) ([]*models.Article, error) {
	return r.query(ctx, selectArticle+`
		 WHERE title ILIKE '%' || $1 || '%' OR content ILIKE '%' || $1 || '%'
		 ORDER BY created_at DESC LIMIT $2`, keyword, limit)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

func scanArticles(rows *sql.Rows) ([]*models.Article, error) {
	var out []*models.Article
	for rows.Next() {
		a := &models.Article{}
		var labels []byte
		if err := rows.Scan(&a.ID, &a.User, &a.Title, &a.Content, &labels, &a.Cover,
			&a.Like, &a.Collect, &a.Comment, &a.Share, &a.CreatedAt); err != nil {
			return nil, pgerr.Wrap(err)
		}
		if len(labels) > 0 {
			if err := json.Unmarshal(labels, &a.Labels); err != nil {
				return nil, fmt.Errorf("decode labels of %s: %w", a.ID, err)
			}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return out, nil
}
