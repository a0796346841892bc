package exchange

import (
	"sync"

	"github.com/avoronin/exchange-sim/internal/model"
)

// registryState holds the thread-safe security map.
type registryState struct {
	mu sync.RWMutex

	// All listed securities indexed by ticker.
	securities map[string]*model.Security
}

func newState() *registryState {
	return &registryState{
		securities: make(map[string]*model.Security),
	}
}

// Get returns a security by ticker (read-locked, copy-out).
func (s *registryState) Get(ticker string) (model.Security, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.securities[ticker]
	if !ok {
		return model.Security{}, false
	}
	return *sec, true
}

// List returns a copy of all listed securities (read-locked).
func (s *registryState) List() []model.Security {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Security, 0, len(s.securities))
	for _, sec := range s.securities {
		result = append(result, *sec)
	}
	return result
}

// TryInsert lists a new security (write-locked check-and-set).
func (s *registryState) TryInsert(ticker, description string, price int) error {
	if ticker == "" {
		return ErrInvalidTicker
	}
	if price <= 0 {
		return ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.securities[ticker]; ok {
		return ErrAlreadyExists
	}
	s.securities[ticker] = &model.Security{
		Ticker:      ticker,
		Description: description,
		Price:       price,
	}
	return nil
}

// UpdatePrice replaces the price of an existing security (write-locked).
func (s *registryState) UpdatePrice(ticker string, price int) error {
	if price <= 0 {
		return ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.securities[ticker]
	if !ok {
		return ErrNotFound
	}
	sec.Price = price
	return nil
}
