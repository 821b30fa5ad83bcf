package engagements

import (
	"context"
	"fmt"

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

func tableFor(kind Kind) (table, error) {
	t, ok := kind.table()
	if !ok {
		return table{}, fmt.Errorf("%w: unknown engagement kind %d", common.ErrValidation, kind)
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, kind Kind, e *models.Engagement) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, user_name, article_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_name, article_id) DO NOTHING`, t.name, t.id)

	n, err := dbx.ExecAffected(ctx, r.db, query, e.ID, e.User, e.ArticleID)
	if err != nil {
		return false, pgerr.Wrap(err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, kind Kind, user, articleID string) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_name = $1 AND article_id = $2`, t.name)

	n, err := dbx.ExecAffected(ctx, r.db, query, user, articleID)
	if err != nil {
		return false, pgerr.Wrap(err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, kind Kind, user, articleID string) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE user_name = $1 AND article_id = $2)`, t.name)

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, user, articleID).Scan(&ok); err != nil {
		return false, pgerr.Wrap(err)
	}
	return ok, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, kind Kind, user string) ([]*models.Engagement, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		`SELECT e.%s, e.user_name, e.article_id, a.user_name, e.created_at
		 FROM %s e
		 JOIN articles a ON a.article_id = e.article_id
		 WHERE e.user_name = $1
		 ORDER BY e.created_at DESC`, t.id, t.name)

	rows, err := r.db.QueryContext(ctx, query, user)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	var out []*models.Engagement
	for rows.Next() {
		e := &models.Engagement{}
		if err := rows.Scan(&e.ID, &e.User, &e.ArticleID, &e.Owner, &e.CreatedAt); err != nil {
			return nil, pgerr.Wrap(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return out, nil
}
