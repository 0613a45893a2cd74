package clientdata

import (
	"github.com/aristath/stockwise/internal/domain"
)

// QuoteStore remembers the last successful quote per symbol.
type QuoteStore struct {
	repo *Repository
}

// NewQuoteStore wraps a repository as a last-known-good quote store.
func NewQuoteStore(repo *Repository) *QuoteStore {
	return &QuoteStore{repo: repo}
}

// Remember stores q as the latest good quote for its symbol.
func (s *QuoteStore) Remember(q domain.Quote) error {
	return s.repo.Store(TableCurrentPrices, q.Symbol, q, TTLLastKnownGood)
}

// Recall returns the last good quote for symbol, if one is still retained.
func (s *QuoteStore) Recall(symbol string) (domain.Quote, bool, error) {
	var q domain.Quote
	ok, err := s.repo.GetIfFresh(TableCurrentPrices, symbol, &q)
	if err != nil || !ok {
		return domain.Quote{}, false, err
	}
	return q, true, nil
}

// Forget drops the retained quote for symbol.
func (s *QuoteStore) Forget(symbol string) error {
	return s.repo.Delete(TableCurrentPrices, symbol)
}
