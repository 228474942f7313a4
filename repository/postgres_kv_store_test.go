package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresKVStore_Get(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresKVStore(db)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = $1`)

	t.Run("found", func(t *testing.T) {
		dbMock.ExpectQuery(query).WithArgs("authToken").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("abc"))

		value, ok, err := store.Get(ctx, "authToken")

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abc", value)
	})

	t.Run("missing", func(t *testing.T) {
		dbMock.ExpectQuery(query).WithArgs("authToken").WillReturnError(sql.ErrNoRows)

		value, ok, err := store.Get(ctx, "authToken")

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, value)
	})

	t.Run("db error", func(t *testing.T) {
		dbMock.ExpectQuery(query).WithArgs("authToken").WillReturnError(errors.New("connection reset"))

		_, ok, err := store.Get(ctx, "authToken")

		assert.Error(t, err)
		assert.False(t, ok)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgresKVStore_SetAndDelete(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresKVStore(db)
	ctx := context.Background()

	dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_store (key, value, updated_at)`)).
		WithArgs("authToken", "abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_store WHERE key = $1`)).
		WithArgs("authToken").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_store WHERE key = $1`)).
		WithArgs("authToken").
		WillReturnResult(sqlmock.NewResult(0, 0))
	dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_store`)).
		WithArgs("authToken", "def").
		WillReturnError(errors.New("read-only transaction"))

	assert.NoError(t, store.Set(ctx, "authToken", "abc"))
	assert.NoError(t, store.Delete(ctx, "authToken"))
	assert.NoError(t, store.Delete(ctx, "authToken"), "deleting a missing key succeeds")
	assert.Error(t, store.Set(ctx, "authToken", "def"))

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTokenRepository_OnPostgres(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(NewPostgresKVStore(db), "authToken")
	ctx := context.Background()

	dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_store`)).
		WithArgs("authToken", "abc").
		WillReturnError(errors.New("disk full"))
	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store`)).
		WithArgs("authToken").
		WillReturnError(errors.New("relation does not exist"))

	var writeErr *StorageWriteError
	assert.ErrorAs(t, repo.Save(ctx, "abc"), &writeErr)
	assert.False(t, repo.IsAuthenticated(ctx))

	assert.NoError(t, dbMock.ExpectationsWereMet())
}
