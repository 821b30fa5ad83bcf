package comments

import (
	"context"

	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/dbx"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/pgerr"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Comment) error {
	query :=
		`INSERT INTO comments (comment_id, user_name, article_id, comment, score)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, c.ID, c.User, c.ArticleID, c.Text, c.Score).Scan(&c.CreatedAt)
	return pgerr.Wrap(err)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query :=
		`SELECT comment_id, user_name, article_id, comment, score, created_at
		 FROM comments
		 WHERE comment_id = $1`

	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.User, &c.ArticleID, &c.Text, &c.Score, &c.CreatedAt)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := dbx.ExecAffected(ctx, r.db, `DELETE FROM comments WHERE comment_id = $1`, id)
	if err != nil {
		return false, pgerr.Wrap(err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) UpdateScore(ctx context.Context, id string, score int) error {
	n, err := dbx.ExecAffected(ctx, r.db, `UPDATE comments SET score = $2 WHERE comment_id = $1`, id, score)
	if err != nil {
		return pgerr.Wrap(err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error) {
	query :=
		`SELECT comment_id, user_name, article_id, comment, score, created_at
		 FROM comments
		 WHERE article_id = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	var out []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.User, &c.ArticleID, &c.Text, &c.Score, &c.CreatedAt); err != nil {
			return nil, pgerr.Wrap(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return out, nil
}
