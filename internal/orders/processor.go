package orders

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avoronin/exchange-sim/internal/exchange"
	"github.com/avoronin/exchange-sim/internal/model"
)

// ExecutionBufferSize is the capacity of the executions channel.
const ExecutionBufferSize = 256

// Config holds processor configuration.
type Config struct {
	// TickInterval is the period of the processing task (default: 500ms).
	TickInterval time.Duration

	// MaxImpactBps caps the per-tick price movement in basis points
	// (default: 500, i.e. 5%).
	MaxImpactBps int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval: 500 * time.Millisecond,
		MaxImpactBps: 500,
	}
}

// Processor drains the book on a fixed period and applies the drained orders
// to the registry's prices. Its lifetime is tied to one trade session.
type Processor struct {
	cfg      Config
	book     *Book
	registry exchange.Registry
	logger   *slog.Logger

	executions chan model.Execution

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProcessor creates a processor over the given book and registry.
func NewProcessor(cfg Config, book *Book, registry exchange.Registry, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.MaxImpactBps <= 0 {
		cfg.MaxImpactBps = DefaultConfig().MaxImpactBps
	}
	return &Processor{
		cfg:        cfg,
		book:       book,
		registry:   registry,
		logger:     logger,
		executions: make(chan model.Execution, ExecutionBufferSize),
	}
}

// Executions returns the channel of execution reports.
func (p *Processor) Executions() <-chan model.Execution {
	return p.executions
}

// Start begins the recurring processing task. The first pass runs
// immediately.
func (p *Processor) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Debug("order processor started",
		"tick_interval", p.cfg.TickInterval,
		"max_impact_bps", p.cfg.MaxImpactBps,
	)
	return nil
}

// Stop cancels the recurring task and waits for an in-flight tick to finish.
// No tick fires after Stop returns.
func (p *Processor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Debug("order processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the processing loop.
func (p *Processor) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.TickInterval)
	defer ticker.Stop()

	// Process immediately at session open.
	p.tick()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick drains the book and applies every drained bucket. Drain and apply are
// one logical step: the single processor goroutine owns the drained orders,
// so no order is seen by two ticks and no tick observes a half-drained
// bucket.
func (p *Processor) tick() {
	drained := p.book.Drain()
	if len(drained) == 0 {
		return
	}

	for ticker, bucket := range drained {
		p.apply(ticker, bucket)
	}
}

// apply executes one ticker's drained orders against the current price and
// reprices the security from the net filled flow.
func (p *Processor) apply(ticker string, bucket []model.Order) {
	sec, ok := p.registry.Get(ticker)
	if !ok {
		// Orders against an unlisted ticker are rejected, not resubmitted.
		for _, order := range bucket {
			p.report(order, 0, model.ExecutionRejected)
		}
		p.logger.Warn("rejected orders for unknown ticker",
			"ticker", ticker,
			"count", len(bucket),
		)
		return
	}

	netFilled := 0
	for _, order := range bucket {
		price, status := executeAt(order, sec.Price)
		if status == model.ExecutionFilled {
			netFilled += order.Amount
		}
		p.report(order, price, status)
	}

	newPrice := reprice(sec.Price, netFilled, p.cfg.MaxImpactBps)
	if err := p.registry.UpdatePrice(ticker, newPrice); err != nil {
		p.logger.Error("price update failed", "ticker", ticker, "error", err)
		return
	}

	p.logger.Debug("processed orders",
		"ticker", ticker,
		"count", len(bucket),
		"net_filled", netFilled,
		"price", newPrice,
	)
}

// executeAt decides one order's outcome at the current price.
func executeAt(order model.Order, current int) (price int, status string) {
	if order.Amount == 0 {
		return 0, model.ExecutionRejected
	}
	if order.LimitPrice == nil {
		return current, model.ExecutionFilled
	}
	if order.Amount > 0 && current <= *order.LimitPrice {
		return current, model.ExecutionFilled
	}
	if order.Amount < 0 && current >= *order.LimitPrice {
		return current, model.ExecutionFilled
	}
	// Non-marketable limit orders are canceled rather than rested, so a
	// drained order never survives into a later tick.
	return 0, model.ExecutionCanceled
}

// reprice moves the current price by the net filled flow, one basis point
// per contract, capped at maxImpactBps and floored at one cent.
func reprice(current, netFilled, maxImpactBps int) int {
	impact := netFilled
	if impact > maxImpactBps {
		impact = maxImpactBps
	}
	if impact < -maxImpactBps {
		impact = -maxImpactBps
	}

	next := current * (10000 + impact) / 10000
	if impact != 0 && next == current {
		// Too small to round: nudge one cent in the flow's direction.
		if impact > 0 {
			next++
		} else {
			next--
		}
	}
	if next < 1 {
		next = 1
	}
	return next
}

// report emits an execution without ever blocking the tick. If the session
// is not consuming, the oldest report is dropped.
func (p *Processor) report(order model.Order, price int, status string) {
	exec := model.Execution{
		ID:         uuid.New(),
		Ticker:     order.Ticker,
		Amount:     order.Amount,
		Price:      price,
		Status:     status,
		ExecutedAt: time.Now(),
	}

	select {
	case p.executions <- exec:
	default:
		select {
		case <-p.executions:
			p.executions <- exec
		default:
		}
	}
}
