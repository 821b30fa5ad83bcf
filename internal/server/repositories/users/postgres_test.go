package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(user_name,\s*name,\s*password,\s*certify\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(insertQ).
		WithArgs("alice", "Alice", "pw-digest", "cert-digest").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	u := &models.User{UserName: "alice", Name: "Alice", PasswordDigest: "pw-digest", CertifyDigest: "cert-digest"}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !u.CreatedAt.Equal(now) {
		t.Fatalf("created_at not scanned: %v", u.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("alice", "", "a", "b").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"})

	err := repo.Create(context.Background(), &models.User{UserName: "alice", PasswordDigest: "a", CertifyDigest: "b"})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.User{UserName: "alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByUserName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+user_name,\s*name,.*history_count,\s*created_at\s+FROM\s+users\s+WHERE\s+user_name\s*=\s*\$1$`

	cols := []string{"user_name", "name", "avatar", "bio", "follow_count", "follower_count", "like_count",
		"collect_count", "article_count", "plan_count", "draft_count", "history_count", "created_at"}
	mock.ExpectQuery(q).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("alice", "Alice", "a.png", "", 1, 2, 3, 4, 5, 6, 7, 8, time.Now()))
	mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	u, err := repo.GetByUserName(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUserName error: %v", err)
	}
	if u.Follow != 1 || u.Follower != 2 || u.History != 8 || u.Avatar != "a.png" {
		t.Fatalf("unexpected user: %+v", u)
	}

	_, err = repo.GetByUserName(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+user_name\s*=\s*\$1\)$`
	mock.ExpectQuery(q).WithArgs("bob").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "bob")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
}

func TestGetDigest_SelectsColumnByKind(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT\s+password\s+FROM\s+users\s+WHERE\s+user_name\s*=\s*\$1$`).
		WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow("pw"))
	mock.ExpectQuery(`^SELECT\s+certify\s+FROM\s+users\s+WHERE\s+user_name\s*=\s*\$1$`).
		WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"certify"}).AddRow("cert"))

	got, err := repo.GetDigest(context.Background(), "alice", SecretPassword)
	if err != nil || got != "pw" {
		t.Fatalf("password digest = %q, %v", got, err)
	}
	got, err = repo.GetDigest(context.Background(), "alice", SecretCertify)
	if err != nil || got != "cert" {
		t.Fatalf("certify digest = %q, %v", got, err)
	}

	if _, err := repo.GetDigest(context.Background(), "alice", SecretKind(42)); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation for unknown kind, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateDigest(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^UPDATE\s+users\s+SET\s+password\s*=\s*\$2\s+WHERE\s+user_name\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs("alice", "new").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("ghost", "new").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateDigest(context.Background(), "alice", SecretPassword, "new"); err != nil {
		t.Fatalf("UpdateDigest error: %v", err)
	}
	if err := repo.UpdateDigest(context.Background(), "ghost", SecretPassword, "new"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSetAvatar(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+users\s+SET\s+avatar\s*=\s*\$2\s+WHERE\s+user_name\s*=\s*\$1$`).
		WithArgs("alice", "avatars/a.png").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetAvatar(context.Background(), "alice", "avatars/a.png"); err != nil {
		t.Fatalf("SetAvatar error: %v", err)
	}
}

func TestAdjustCounter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+users\s+SET\s+follower_count\s*=\s*follower_count\s*\+\s*\$2\s+WHERE\s+user_name\s*=\s*\$1$`).
		WithArgs("bob", -1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE\s+users\s+SET\s+like_count`).
		WithArgs("ghost", 1).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^UPDATE\s+users\s+SET\s+collect_count`).
		WithArgs("bob", 1).WillReturnError(errors.New("db err"))

	if err := repo.AdjustCounter(context.Background(), "bob", CounterFollower, -1); err != nil {
		t.Fatalf("AdjustCounter error: %v", err)
	}
	if err := repo.AdjustCounter(context.Background(), "ghost", CounterLike, 1); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := repo.AdjustCounter(context.Background(), "bob", CounterCollect, 1); err == nil {
		t.Fatal("expected db error")
	}
	if err := repo.AdjustCounter(context.Background(), "bob", Counter(99), 1); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}
