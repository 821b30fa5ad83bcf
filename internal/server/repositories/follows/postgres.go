package follows

import (
	"context"
	"database/sql"

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

func (r *PostgresRepository) Create(ctx context.Context, f *models.Follow) (bool, error) {
	query :=
		`INSERT INTO follows (follow_id, user_name, follow)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_name, follow) DO NOTHING`

	n, err := dbx.ExecAffected(ctx, r.db, query, f.ID, f.User, f.Follow)
	if err != nil {
		return false, pgerr.Wrap(err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, user, follow string) (bool, error) {
	query := `DELETE FROM follows WHERE user_name = $1 AND follow = $2`

	n, err := dbx.ExecAffected(ctx, r.db, query, user, follow)
	if err != nil {
		return false, pgerr.Wrap(err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Follow, error) {
	query :=
		`SELECT follow_id, user_name, follow, created_at FROM follows
		 WHERE follow_id = $1
		 FOR UPDATE`

	f := &models.Follow{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.User, &f.Follow, &f.CreatedAt); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return f, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	n, err := dbx.ExecAffected(ctx, r.db, `DELETE FROM follows WHERE follow_id = $1`, id)
	if err != nil {
		return false, pgerr.Wrap(err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, user, follow string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE user_name = $1 AND follow = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, user, follow).Scan(&ok); err != nil {
		return false, pgerr.Wrap(err)
	}
	return ok, nil
}

func (r *PostgresRepository) ListFollowing(ctx context.Context, user string) ([]*models.Follow, error) {
	query :=
		`SELECT follow_id, user_name, follow, created_at FROM follows
		 WHERE user_name = $1
		 ORDER BY created_at DESC`
	return r.list(ctx, query, user)
}

func (r *PostgresRepository) ListFollowers(ctx context.Context, user string) ([]*models.Follow, error) {
	query :=
		`SELECT follow_id, user_name, follow, created_at FROM follows
		 WHERE follow = $1
		 ORDER BY created_at DESC`
	return r.list(ctx, query, user)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg string) ([]*models.Follow, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	return scanAll(rows)
}

func scanAll(rows *sql.Rows) ([]*models.Follow, error) {
	var out []*models.Follow
	for rows.Next() {
		f := &models.Follow{}
		if err := rows.Scan(&f.ID, &f.User, &f.Follow, &f.CreatedAt); err != nil {
			return nil, pgerr.Wrap(err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return out, nil
}
