package shares

import (
	"context"

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

func (r *PostgresRepository) Create(ctx context.Context, s *models.Share) error {
	query :=
		`INSERT INTO shares (share_id, user_name, article_id, recipient)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, s.ID, s.User, s.ArticleID, s.Recipient).Scan(&s.CreatedAt)
	return pgerr.Wrap(err)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Share, error) {
	query :=
		`SELECT share_id, user_name, article_id, recipient, created_at
		 FROM shares
		 WHERE share_id = $1`

	s := &models.Share{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.User, &s.ArticleID, &s.Recipient, &s.CreatedAt); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := dbx.ExecAffected(ctx, r.db, `DELETE FROM shares WHERE share_id = $1`, id)
	if err != nil {
		return false, pgerr.Wrap(err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, user string) ([]*models.Share, error) {
	query :=
		`SELECT share_id, user_name, article_id, recipient, created_at
		 FROM shares
		 WHERE user_name = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, user)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	var out []*models.Share
	for rows.Next() {
		s := &models.Share{}
		if err := rows.Scan(&s.ID, &s.User, &s.ArticleID, &s.Recipient, &s.CreatedAt); err != nil {
			return nil, pgerr.Wrap(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return out, nil
}
