// Package csvio reads and writes portfolio holdings as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/stockwise/internal/domain"
	"github.com/aristath/stockwise/internal/modules/analytics"
)

// Recognized input columns
const (
	ColSymbol   = "symbol"
	ColQuantity = "quantity"
	ColBuyPrice = "buy_price"
	ColBuyDate  = "buy_date"
	ColSector   = "sector"
)

// ExportHeader is the column set written by WriteHoldings
var ExportHeader = []string{
	"symbol", "quantity", "buy_price", "buy_date", "current_price",
	"invested", "current_value", "unrealized_pl", "unrealized_pl_percent", "sector",
}

// ParseError reports the 1-based file line of a bad record
type ParseError struct {
	Err  error
	Line int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("CSV error at line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrMissingSymbol is reported for a record without a symbol
var ErrMissingSymbol = errors.New("missing symbol")

// ParseHoldings reads holdings from a headered CSV.
// Columns may appear in any order and any case; unknown columns are ignored.
// Unparseable numbers read as 0, a missing or invalid buy_date as today, and a
// missing sector as Unknown. A record without a symbol fails the whole parse.
func ParseHoldings(r io.Reader) ([]domain.Holding, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Holding{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	field := func(rec []string, col string) string {
		i, ok := columns[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	holdings := []domain.Holding{}
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &ParseError{Line: line, Err: err}
		}
		line, _ := reader.FieldPos(0)
		if isBlank(rec) {
			continue
		}

		symbol := field(rec, ColSymbol)
		if symbol == "" {
			return nil, &ParseError{Line: line, Err: ErrMissingSymbol}
		}

		var acquired time.Time
		if d, err := domain.ParseDate(field(rec, ColBuyDate)); err == nil {
			acquired = d
		}

		holdings = append(holdings, domain.NewHolding(
			symbol,
			parseFloat(field(rec, ColQuantity)),
			parseFloat(field(rec, ColBuyPrice)),
			acquired,
			field(rec, ColSector),
		))
	}

	return holdings, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// WriteHoldings writes holdings with their current valuation, two decimals per figure
func WriteHoldings(w io.Writer, holdings []domain.Holding) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, h := range holdings {
		rec := []string{
			h.Symbol,
			money2(h.Quantity),
			money2(h.CostBasis),
			h.AcquiredOn.Format(domain.DateLayout),
			money2(h.CurrentPrice),
			money2(analytics.InvestedAmount(h)),
			money2(analytics.CurrentValue(h)),
			money2(analytics.HoldingPL(h)),
			money2(analytics.HoldingPLPercent(h)),
			h.Sector,
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write %s: %w", h.Symbol, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func money2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
