package orders

import (
	"sync"

	"github.com/avoronin/exchange-sim/internal/model"
)

// Book accumulates pending orders per ticker in receipt order until the
// processor drains them.
type Book struct {
	mu      sync.Mutex
	pending map[string][]model.Order
}

// NewBook creates an empty order book.
func NewBook() *Book {
	return &Book{
		pending: make(map[string][]model.Order),
	}
}

// Add appends an order to its ticker's pending sequence.
func (b *Book) Add(order model.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending[order.Ticker] = append(b.pending[order.Ticker], order)
}

// Drain atomically takes every pending order, leaving the book empty. An
// order returned by one Drain call is never returned by another.
func (b *Book) Drain() map[string][]model.Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	drained := b.pending
	b.pending = make(map[string][]model.Order)
	return drained
}

// Len returns the total number of pending orders.
func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, orders := range b.pending {
		n += len(orders)
	}
	return n
}
