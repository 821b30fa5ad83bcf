package users

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (user_name, name, password, certify)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Name, user.PasswordDigest, user.CertifyDigest).Scan(&user.CreatedAt)
	return pgerr.Wrap(err)
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT user_name, name, avatar, bio, follow_count, follower_count, like_count,
		        collect_count, article_count, plan_count, draft_count, history_count, created_at
		 FROM users
		 WHERE user_name = $1`

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userName).Scan(
		&u.UserName, &u.Name, &u.Avatar, &u.Bio, &u.Follow, &u.Follower, &u.Like,
		&u.Collect, &u.Article, &u.Plan, &u.Draft, &u.History, &u.CreatedAt)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return u, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userName string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE user_name = $1)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userName).Scan(&ok); err != nil {
		return false, pgerr.Wrap(err)
	}
	return ok, nil
}

func (r *PostgresRepository) GetDigest(ctx context.Context, userName string, kind SecretKind) (string, error) {
	col, ok := kind.column()
	if !ok {
		return "", fmt.Errorf("%w: unknown secret kind %d", common.ErrValidation, kind)
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE user_name = $1`, col)

	var digest string
	if err := r.db.QueryRowContext(ctx, query, userName).Scan(&digest); err != nil {
		return "", pgerr.Wrap(err)
	}
	return digest, nil
}

func (r *PostgresRepository) UpdateDigest(ctx context.Context, userName string, kind SecretKind, digest string) error {
	col, ok := kind.column()
	if !ok {
		return fmt.Errorf("%w: unknown secret kind %d", common.ErrValidation, kind)
	}
	query := fmt.Sprintf(`UPDATE users SET %s = $2 WHERE user_name = $1`, col)

	return r.expectOne(dbx.ExecAffected(ctx, r.db, query, userName, digest))
}

func (r *PostgresRepository) SetAvatar(ctx context.Context, userName, avatar string) error {
	query := `UPDATE users SET avatar = $2 WHERE user_name = $1`

	return r.expectOne(dbx.ExecAffected(ctx, r.db, query, userName, avatar))
}

func (r *PostgresRepository) AdjustCounter(ctx context.Context, userName string, counter Counter, delta int) error {
	col, ok := counter.column()
	if !ok {
		return fmt.Errorf("%w: unknown counter %d", common.ErrValidation, counter)
	}
	query := fmt.Sprintf(`UPDATE users SET %[1]s = %[1]s + $2 WHERE user_name = $1`, col)

	return r.expectOne(dbx.ExecAffected(ctx, r.db, query, userName, delta))
}

func (r *PostgresRepository) expectOne(n int64, err error) error {
	if err != nil {
		return pgerr.Wrap(err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
