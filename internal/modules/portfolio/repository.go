package portfolio

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/stockwise/internal/database"
	"github.com/aristath/stockwise/internal/domain"
)

// ErrStore wraps every persistence failure
var ErrStore = errors.New("holdings store")

// HoldingRepository is the persistence contract the service depends on
type HoldingRepository interface {
	FindAll() ([]domain.Holding, error)
	Upsert(h domain.Holding) error
	ReplaceAll(holdings []domain.Holding) error
	DeleteBySymbol(symbol string) error
}

// Repository stores holdings in portfolio.db, one row per symbol
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new holdings repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "holdings").Logger(),
	}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// FindAll returns all holdings ordered by symbol
func (r *Repository) FindAll() ([]domain.Holding, error) {
	rows, err := r.db.Query(`SELECT symbol, quantity, cost_basis, acquired_on, sector
		FROM holdings ORDER BY symbol`)
	if err != nil {
		return nil, storeErr("query holdings", err)
	}
	defer rows.Close()

	holdings := []domain.Holding{}
	for rows.Next() {
		var (
			symbol, acquiredOn, sector string
			quantity, costBasis        float64
		)
		if err := rows.Scan(&symbol, &quantity, &costBasis, &acquiredOn, &sector); err != nil {
			return nil, storeErr("scan holding", err)
		}

		date, err := domain.ParseDate(acquiredOn)
		if err != nil {
			r.log.Warn().Str("symbol", symbol).Str("acquired_on", acquiredOn).Msg("Invalid stored date, using today")
			date = domain.Today()
		}
		holdings = append(holdings, domain.NewHolding(symbol, quantity, costBasis, date, sector))
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate holdings", err)
	}

	return holdings, nil
}

// Upsert inserts the holding or merges it into the existing row for its symbol.
// A merge sums quantities and averages cost weighted by quantity; the
// acquisition date and sector come from h.
func (r *Repository) Upsert(h domain.Holding) error {
	h = domain.NewHolding(h.Symbol, h.Quantity, h.CostBasis, h.AcquiredOn, h.Sector)
	if h.Symbol == "" {
		return storeErr("upsert", errors.New("empty symbol"))
	}

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		return upsertTx(tx, h)
	})
	if err != nil {
		return storeErr("upsert "+h.Symbol, err)
	}

	r.log.Debug().Str("symbol", h.Symbol).Float64("quantity", h.Quantity).Msg("Holding upserted")
	return nil
}

func upsertTx(tx *sql.Tx, h domain.Holding) error {
	var oldQty, oldCost float64
	err := tx.QueryRow("SELECT quantity, cost_basis FROM holdings WHERE symbol = ?", h.Symbol).Scan(&oldQty, &oldCost)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return insertTx(tx, h)
	case err != nil:
		return fmt.Errorf("failed to read existing holding: %w", err)
	}

	qty, cost := MergeCost(oldQty, oldCost, h.Quantity, h.CostBasis)
	_, err = tx.Exec(`UPDATE holdings SET quantity = ?, cost_basis = ?, acquired_on = ?, sector = ?, updated_at = ?
		WHERE symbol = ?`,
		qty, cost, h.AcquiredOn.Format(domain.DateLayout), h.Sector, time.Now().Unix(), h.Symbol)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}
	return nil
}

func insertTx(tx *sql.Tx, h domain.Holding) error {
	_, err := tx.Exec(`INSERT INTO holdings (symbol, quantity, cost_basis, acquired_on, sector, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.Symbol, h.Quantity, h.CostBasis, h.AcquiredOn.Format(domain.DateLayout), h.Sector, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}
	return nil
}

// MergeCost combines an existing position with a new lot.
// cost = (oldQty*oldCost + newQty*newCost) / (oldQty + newQty). When the
// combined quantity is zero the new lot's cost is kept.
func MergeCost(oldQty, oldCost, newQty, newCost float64) (quantity, cost float64) {
	oq, oc := decimal.NewFromFloat(oldQty), decimal.NewFromFloat(oldCost)
	nq, nc := decimal.NewFromFloat(newQty), decimal.NewFromFloat(newCost)

	total := oq.Add(nq)
	if total.IsZero() {
		return total.InexactFloat64(), newCost
	}
	avg := oq.Mul(oc).Add(nq.Mul(nc)).Div(total)
	return total.InexactFloat64(), avg.InexactFloat64()
}

// ReplaceAll swaps the stored holdings for holdings in one transaction.
// Repeated symbols in the input are merged like Upsert.
func (r *Repository) ReplaceAll(holdings []domain.Holding) error {
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM holdings"); err != nil {
			return fmt.Errorf("failed to clear holdings: %w", err)
		}
		for _, h := range holdings {
			h = domain.NewHolding(h.Symbol, h.Quantity, h.CostBasis, h.AcquiredOn, h.Sector)
			if h.Symbol == "" {
				continue
			}
			if err := upsertTx(tx, h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeErr("replace all", err)
	}

	r.log.Info().Int("count", len(holdings)).Msg("Holdings replaced")
	return nil
}

// DeleteBySymbol removes the holding for symbol (case-insensitive)
func (r *Repository) DeleteBySymbol(symbol string) error {
	symbol = domain.NormalizeSymbol(symbol)
	if _, err := r.db.Exec("DELETE FROM holdings WHERE symbol = ?", symbol); err != nil {
		return storeErr("delete "+symbol, err)
	}
	return nil
}
