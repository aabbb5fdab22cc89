package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db), "second run must be a no-op")

	require.True(t, tableExists(t, db, "session_kv"))
	require.True(t, tableExists(t, db, "goose_db_version"))
}

func TestSQLite_GetErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM session_kv").
		WithArgs("k").
		WillReturnError(errors.New("disk I/O error"))

	_, ok, err := NewSQLite(db).Get(context.Background(), "k")
	require.Error(t, err)
	require.False(t, ok)
	require.Contains(t, err.Error(), "failed to get session_kv[k]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_SetErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO session_kv").
		WithArgs("k", "v").
		WillReturnError(errors.New("read-only database"))

	err = NewSQLite(db).Set(context.Background(), "k", "v")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to set session_kv[k]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_RemoveErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM session_kv").
		WithArgs("k").
		WillReturnError(errors.New("locked"))

	err = NewSQLite(db).Remove(context.Background(), "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to delete session_kv[k]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_UpdateRollsBackOnWriteError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO session_kv").
		WithArgs("user", "{}").
		WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err = NewSQLite(db).Update(context.Background(), func(ctx context.Context, kv KV) error {
		return kv.Set(ctx, "user", "{}")
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
