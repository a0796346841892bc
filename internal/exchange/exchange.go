package exchange

import (
	"errors"

	"github.com/avoronin/exchange-sim/internal/model"
)

// Errors
var (
	ErrNotFound      = errors.New("security not found")
	ErrAlreadyExists = errors.New("security already listed")
	ErrInvalidPrice  = errors.New("price must be positive")
	ErrInvalidTicker = errors.New("ticker must not be empty")
)

// Registry is the shared, thread-safe security registry.
type Registry interface {
	// Get returns a copy of the security for ticker.
	Get(ticker string) (model.Security, bool)

	// List returns a snapshot of all listed securities. Safe to call while
	// inserts and price updates are in flight.
	List() []model.Security

	// TryInsert atomically lists a new security. Exactly one of any number
	// of concurrent callers with the same ticker succeeds; the rest get
	// ErrAlreadyExists.
	TryInsert(ticker, description string, price int) error

	// UpdatePrice atomically replaces the price of an existing security.
	UpdatePrice(ticker string, price int) error
}

// NewRegistry creates an empty security registry.
func NewRegistry() Registry {
	return newState()
}
