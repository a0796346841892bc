// Package model defines shared data types used across the exchange.
//
// Conventions:
//   - Prices: integer cents (e.g. 10000 = $100.00), always > 0 for a listed
//     security
//   - Order amounts: signed contracts, positive = buy, negative = sell
//   - IDs: string for tickers, uuid.UUID for execution IDs
package model
