package clientdata

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockwise/internal/domain"
)

const testSchema = `
CREATE TABLE current_prices (symbol TEXT PRIMARY KEY, data BLOB NOT NULL, expires_at INTEGER NOT NULL);
CREATE INDEX idx_prices_expires ON current_prices(expires_at);
`

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

// stored reads an entry regardless of expiry
func stored(r *Repository, key string, out interface{}) (bool, error) {
	return r.load(TableCurrentPrices, out, "SELECT data FROM current_prices WHERE symbol = ?", key)
}

func TestStoreAndGetIfFresh(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	captured := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	q := domain.Quote{Symbol: "TCS", Price: 3450.5, CapturedAt: captured}
	require.NoError(t, repo.Store(TableCurrentPrices, "TCS", q, time.Hour))

	var got domain.Quote
	ok, err := repo.GetIfFresh(TableCurrentPrices, "TCS", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "TCS", got.Symbol)
	assert.Equal(t, 3450.5, got.Price)
	assert.True(t, captured.Equal(got.CapturedAt))
}

func TestGetIfFresh_Expired(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	base := time.Now()
	repo.now = func() time.Time { return base }

	require.NoError(t, repo.Store(TableCurrentPrices, "INFY", domain.Quote{Symbol: "INFY", Price: 1500}, time.Minute))

	repo.now = func() time.Time { return base.Add(2 * time.Minute) }

	var fresh domain.Quote
	ok, err := repo.GetIfFresh(TableCurrentPrices, "INFY", &fresh)
	require.NoError(t, err)
	assert.False(t, ok)

	var stale domain.Quote
	ok, err = stored(repo, "INFY", &stale)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1500.0, stale.Price)
}

func TestLoad_Missing(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	var q domain.Quote
	ok, err := stored(repo, "NOPE", &q)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidTable(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	err := repo.Store("holdings; DROP TABLE x", "k", 1, time.Minute)
	assert.ErrorContains(t, err, "invalid table name")

	_, err = repo.GetIfFresh("nope", "k", new(int))
	assert.Error(t, err)

	_, err = repo.DeleteExpired("nope")
	assert.Error(t, err)
}

func TestStore_Overwrites(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Store(TableCurrentPrices, "SBIN", domain.Quote{Symbol: "SBIN", Price: 600}, time.Hour))
	require.NoError(t, repo.Store(TableCurrentPrices, "SBIN", domain.Quote{Symbol: "SBIN", Price: 612.25}, time.Hour))

	var q domain.Quote
	ok, err := stored(repo, "SBIN", &q)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 612.25, q.Price)
}

func TestDelete(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Store(TableCurrentPrices, "WIPRO", domain.Quote{Symbol: "WIPRO"}, time.Hour))
	require.NoError(t, repo.Delete(TableCurrentPrices, "WIPRO"))

	ok, err := stored(repo, "WIPRO", &domain.Quote{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteAllExpired(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	base := time.Now()
	repo.now = func() time.Time { return base }

	require.NoError(t, repo.Store(TableCurrentPrices, "OLD", domain.Quote{Symbol: "OLD"}, time.Minute))
	require.NoError(t, repo.Store(TableCurrentPrices, "NEW", domain.Quote{Symbol: "NEW"}, time.Hour))

	repo.now = func() time.Time { return base.Add(10 * time.Minute) }

	results, err := repo.DeleteAllExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), results[TableCurrentPrices])

	ok, err := stored(repo, "NEW", &domain.Quote{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestQuoteStore_RememberRecall(t *testing.T) {
	store := NewQuoteStore(NewRepository(setupTestDB(t)))

	_, ok, err := store.Recall("RELIANCE")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Remember(domain.Quote{Symbol: "RELIANCE", Price: 2890.1, CapturedAt: time.Now()}))

	q, ok, err := store.Recall("RELIANCE")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2890.1, q.Price)
}

func TestCleanupJob(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	base := time.Now()
	repo.now = func() time.Time { return base }
	require.NoError(t, repo.Store(TableCurrentPrices, "OLD", domain.Quote{Symbol: "OLD"}, time.Second))
	repo.now = func() time.Time { return base.Add(time.Hour) }

	job := NewCleanupJob(repo, zerolog.Nop())
	assert.Equal(t, "client_data_cleanup", job.Name())
	require.NoError(t, job.Run())

	ok, err := stored(repo, "OLD", &domain.Quote{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuoteStore_Forget(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	store := NewQuoteStore(repo)

	require.NoError(t, store.Remember(domain.Quote{Symbol: "TCS", Price: 3600, CapturedAt: time.Now()}))
	require.NoError(t, store.Remember(domain.Quote{Symbol: "INFY", Price: 1400, CapturedAt: time.Now()}))
	require.NoError(t, store.Forget("TCS"))

	_, ok, err := store.Recall("TCS")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Recall("INFY")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, store.Forget("MISSING"))
}
