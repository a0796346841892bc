package model

import (
	"time"

	"github.com/google/uuid"
)

// Security is a listed instrument on the exchange.
type Security struct {
	// Ticker is the short unique symbol, e.g. "NVDA".
	Ticker string

	// Description is the human-readable name. Immutable after listing.
	Description string

	// Price is the current price in integer cents. Always > 0.
	Price int
}

// Order is a buy/sell instruction submitted on a trade session.
type Order struct {
	Ticker string

	// Amount is the signed number of contracts: positive buys, negative
	// sells. Zero-amount orders are invalid.
	Amount int

	// LimitPrice, when non-nil, gates execution: buys fill only at or below
	// the limit, sells only at or above it. Nil means market order.
	LimitPrice *int

	// ReceivedAt is the local timestamp when the order entered the session.
	ReceivedAt time.Time
}

// Side reports whether the order buys or sells.
func (o Order) Side() string {
	if o.Amount < 0 {
		return "sell"
	}
	return "buy"
}

// Execution statuses.
const (
	ExecutionFilled   = "filled"
	ExecutionCanceled = "canceled"
	ExecutionRejected = "rejected"
)

// Execution is the outcome of one processed order.
type Execution struct {
	ID     uuid.UUID
	Ticker string
	Amount int

	// Price is the fill price in cents. Zero for canceled/rejected orders.
	Price int

	// Status is one of the Execution* constants.
	Status string

	ExecutedAt time.Time
}
