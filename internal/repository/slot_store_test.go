package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/config"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/database"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "postgres")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func fixedNow() time.Time {
	return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
}

func TestMemorySlotStoreTTL(t *testing.T) {
	store := NewMemorySlotStore()
	now := fixedNow()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, store.Put(ctx, "b", []byte("2"), 0))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrSlotNotFound)
	_, err = store.Get(ctx, "b")
	assert.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "b"))
	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestMemorySlotStoreCopiesPayload(t *testing.T) {
	store := NewMemorySlotStore()
	ctx := context.Background()
	payload := []byte("abc")
	require.NoError(t, store.Put(ctx, "k", payload, 0))
	payload[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestSQLSlotStoreGet(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewSQLSlotStore(db)
	store.now = fixedNow

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload, expires_at FROM kv_slots WHERE slot_key = $1")).
		WithArgs("l2l:milestones").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "expires_at"}).AddRow(`[{"id":1}]`, nil))

	got, err := store.Get(context.Background(), "l2l:milestones")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSlotStoreGetExpiredAndMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewSQLSlotStore(db)
	store.now = fixedNow

	mock.ExpectQuery("SELECT payload, expires_at FROM kv_slots").
		WithArgs("old").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "expires_at"}).AddRow("x", fixedNow().Add(-time.Second).Unix()))
	mock.ExpectQuery("SELECT payload, expires_at FROM kv_slots").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "expires_at"}))

	_, err := store.Get(context.Background(), "old")
	assert.ErrorIs(t, err, ErrSlotNotFound)
	_, err = store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSlotStorePutUpserts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewSQLSlotStore(db)
	store.now = fixedNow

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_slots (slot_key, payload, expires_at, updated_at) VALUES ($1, $2, $3, $4)")).
		WithArgs("k", "v", fixedNow().Add(time.Hour).Unix(), fixedNow().Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Put(context.Background(), "k", []byte("v"), time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSlotStorePurgeExpired(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewSQLSlotStore(db)
	store.now = fixedNow

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_slots WHERE expires_at IS NOT NULL AND expires_at <= $1")).
		WithArgs(fixedNow().Unix()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSlotStoreOnSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLite(ctx, config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLSlotStore(db)
	require.NoError(t, store.EnsureSchema(ctx))

	require.NoError(t, store.Put(ctx, "k", []byte("first"), 0))
	require.NoError(t, store.Put(ctx, "k", []byte("second"), time.Hour))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
