package kv

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS portal_documents")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewPostgresStore(sqlx.NewDb(db, "postgres"))
	require.NoError(t, err)
	return store, mock
}

func TestPostgresStoreGet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT doc FROM portal_documents WHERE key = $1")).
		WithArgs("edusync_students").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow([]byte(`[{"id":"1"}]`)))

	doc, err := store.Get(context.Background(), "edusync_students")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT doc FROM portal_documents WHERE key = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO portal_documents")).
		WithArgs("edusync_school_profile", []byte(`{"name":"x"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Set(context.Background(), "edusync_school_profile", []byte(`{"name":"x"}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDelete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM portal_documents WHERE key = $1")).
		WithArgs("edusync_user").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Delete(context.Background(), "edusync_user")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
