package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS counters (id INTEGER PRIMARY KEY, n INTEGER NOT NULL DEFAULT 0);
		CREATE TABLE IF NOT EXISTS edges (a TEXT NOT NULL, b TEXT NOT NULL, UNIQUE(a, b));
		DELETE FROM counters; DELETE FROM edges;
		INSERT INTO counters(id, n) VALUES (1, 0);`)
	require.NoError(t, err)
	return db
}

func counter(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT n FROM counters WHERE id = 1`).Scan(&n))
	return n
}

func edges(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM edges`).Scan(&n))
	return n
}

func TestWithTx_CommitsEdgeAndCounter(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO edges(a, b) VALUES ('alice', 'bob')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE counters SET n = n + 1 WHERE id = 1`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, edges(t, db))
	require.Equal(t, 1, counter(t, db))
}

func TestWithTx_RollsBackEverythingOnLateFailure(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO edges(a, b) VALUES ('alice', 'bob')`)
		require.NoError(t, e)
		_, e = tx.ExecContext(ctx, `UPDATE counters SET n = n + 1 WHERE id = 1`)
		require.NoError(t, e)
		return errors.New("notification insert failed")
	})
	require.Error(t, err)

	require.Equal(t, 0, edges(t, db), "edge must be rolled back")
	require.Equal(t, 0, counter(t, db), "counter must be rolled back")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, edges(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO edges(a, b) VALUES ('x', 'y')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
}

func TestExecAffected_ReportsChangedRows(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	n, err := ExecAffected(ctx, db, `INSERT OR IGNORE INTO edges(a, b) VALUES ('alice', 'bob')`)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = ExecAffected(ctx, db, `INSERT OR IGNORE INTO edges(a, b) VALUES ('alice', 'bob')`)
	require.NoError(t, err)
	require.EqualValues(t, 0, n, "duplicate edge must not count")

	n, err = ExecAffected(ctx, db, `DELETE FROM edges WHERE a = 'nobody'`)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	_, err = ExecAffected(ctx, db, `DELETE FROM missing_table`)
	require.Error(t, err)
}
