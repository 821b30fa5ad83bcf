package follows

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_InsertedAndDuplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+follows\s*\(follow_id,\s*user_name,\s*follow\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*ON\s+CONFLICT\s*\(user_name,\s*follow\)\s*DO\s+NOTHING$`
	mock.ExpectExec(q).WithArgs("f1", "alice", "bob").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("f2", "alice", "bob").WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Create(context.Background(), &models.Follow{ID: "f1", User: "alice", Follow: "bob"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Create(context.Background(), &models.Follow{ID: "f2", User: "alice", Follow: "bob"})
	require.NoError(t, err)
	assert.False(t, ok, "duplicate edge must report no insert")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `^DELETE\s+FROM\s+follows\s+WHERE\s+user_name\s*=\s*\$1\s+AND\s+follow\s*=\s*\$2$`
	mock.ExpectExec(q).WithArgs("alice", "bob").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("alice", "bob").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs("alice", "bob").WillReturnError(errors.New("db err"))

	ok, err := repo.Delete(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Delete(context.Background(), "alice", "bob")
	require.Error(t, err)
}

func TestGetForUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+follow_id,\s*user_name,\s*follow,\s*created_at\s+FROM\s+follows\s+WHERE\s+follow_id\s*=\s*\$1\s+FOR\s+UPDATE$`
	mock.ExpectQuery(q).WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"follow_id", "user_name", "follow", "created_at"}).AddRow("f1", "alice", "bob", time.Now()))
	mock.ExpectQuery(q).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	f, err := repo.GetForUpdate(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "alice", f.User)
	assert.Equal(t, "bob", f.Follow)

	_, err = repo.GetForUpdate(context.Background(), "nope")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDeleteByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE\s+FROM\s+follows\s+WHERE\s+follow_id\s*=\s*\$1$`).WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.DeleteByID(context.Background(), "f1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExists(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT\s+EXISTS`).WithArgs("alice", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.Exists(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListFollowingAndFollowers(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	cols := []string{"follow_id", "user_name", "follow", "created_at"}
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM\s+follows\s+WHERE\s+user_name\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC$`).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("f1", "alice", "bob", now).AddRow("f2", "alice", "carol", now))
	mock.ExpectQuery(`(?s)FROM\s+follows\s+WHERE\s+follow\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC$`).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectQuery(`(?s)FROM\s+follows\s+WHERE\s+follow\s*=\s*\$1`).WithArgs("bob").
		WillReturnError(errors.New("db err"))

	following, err := repo.ListFollowing(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, following, 2)
	assert.Equal(t, "carol", following[1].Follow)

	followers, err := repo.ListFollowers(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, followers)

	_, err = repo.ListFollowers(context.Background(), "bob")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
