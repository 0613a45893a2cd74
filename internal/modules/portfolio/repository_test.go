package portfolio

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockwise/internal/domain"
	testingpkg "github.com/aristath/stockwise/internal/testing"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, cleanup := testingpkg.NewTestDB(t, "portfolio")
	t.Cleanup(cleanup)
	return NewRepository(db.Conn(), zerolog.Nop())
}

var (
	jan = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	mar = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
)

func TestRepository_UpsertInsertsAndOrders(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Upsert(domain.NewHolding("tcs", 10, 3000, jan, "IT")))
	require.NoError(t, repo.Upsert(domain.NewHolding("HDFC", 5, 1500, jan, "")))

	holdings, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	assert.Equal(t, "HDFC", holdings[0].Symbol)
	assert.Equal(t, domain.UnknownSector, holdings[0].Sector)
	assert.Equal(t, "TCS", holdings[1].Symbol)
	assert.Equal(t, jan, holdings[1].AcquiredOn)
}

func TestRepository_UpsertMergesAverageCost(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Upsert(domain.NewHolding("X", 10, 100, jan, "Old")))
	require.NoError(t, repo.Upsert(domain.NewHolding("X", 10, 120, mar, "New")))

	holdings, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	h := holdings[0]
	assert.Equal(t, 20.0, h.Quantity)
	assert.Equal(t, 110.0, h.CostBasis)
	assert.Equal(t, mar, h.AcquiredOn)
	assert.Equal(t, "New", h.Sector)
}

func TestRepository_UpsertRejectsEmptySymbol(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Upsert(domain.NewHolding("  ", 1, 1, jan, ""))
	assert.ErrorIs(t, err, ErrStore)
}

func TestMergeCost(t *testing.T) {
	qty, cost := MergeCost(10, 100, 10, 120)
	assert.Equal(t, 20.0, qty)
	assert.Equal(t, 110.0, cost)

	qty, cost = MergeCost(3, 10, 1, 30)
	assert.Equal(t, 4.0, qty)
	assert.Equal(t, 15.0, cost)

	qty, cost = MergeCost(5, 100, -5, 90)
	assert.Zero(t, qty)
	assert.Equal(t, 90.0, cost)
}

func TestRepository_ReplaceAll(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Upsert(domain.NewHolding("OLD", 1, 1, jan, "")))

	require.NoError(t, repo.ReplaceAll([]domain.Holding{
		domain.NewHolding("INFY", 5, 1400, jan, "IT"),
		domain.NewHolding("SBIN", 10, 600, jan, "Banking"),
		domain.NewHolding("INFY", 5, 1600, mar, "IT"),
	}))

	holdings, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "INFY", holdings[0].Symbol)
	assert.Equal(t, 10.0, holdings[0].Quantity)
	assert.Equal(t, 1500.0, holdings[0].CostBasis)
	assert.Equal(t, "SBIN", holdings[1].Symbol)
}

func TestRepository_ReplaceAllEmpty(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Upsert(domain.NewHolding("TCS", 1, 1, jan, "")))

	require.NoError(t, repo.ReplaceAll(nil))

	holdings, err := repo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestRepository_DeleteBySymbol(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Upsert(domain.NewHolding("WIPRO", 1, 400, jan, "IT")))
	require.NoError(t, repo.Upsert(domain.NewHolding("TCS", 1, 3000, jan, "IT")))

	require.NoError(t, repo.DeleteBySymbol(" wipro "))
	require.NoError(t, repo.DeleteBySymbol("missing"))

	holdings, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "TCS", holdings[0].Symbol)
}

func TestRepository_ClosedDBWrapsErrStore(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "portfolio")
	repo := NewRepository(db.Conn(), zerolog.Nop())
	cleanup()

	_, err := repo.FindAll()
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, repo.Upsert(domain.NewHolding("TCS", 1, 1, jan, "")), ErrStore)
	assert.ErrorIs(t, repo.ReplaceAll(nil), ErrStore)
	assert.ErrorIs(t, repo.DeleteBySymbol("TCS"), ErrStore)
}

func TestStoreErrKeepsCause(t *testing.T) {
	err := storeErr("query holdings", sql.ErrConnDone)

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "query holdings")
}
