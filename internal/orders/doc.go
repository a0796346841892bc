// Package orders implements the per-session pending-order book and the
// background processor that turns accumulated orders into executions and
// price movement.
//
// Each trade session owns one Book and one Processor; nothing here is shared
// across sessions except the security registry the processor reprices
// through.
package orders
