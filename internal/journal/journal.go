package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avoronin/exchange-sim/internal/config"
	"github.com/avoronin/exchange-sim/internal/model"
)

// Recorder accepts execution reports for persistence.
type Recorder interface {
	// Record enqueues an execution. It never blocks the caller; when the
	// journal cannot keep up the execution is dropped.
	Record(exec model.Execution)
}

// Nop is a Recorder that discards everything. Used when no database is
// configured.
type Nop struct{}

func (Nop) Record(model.Execution) {}

// executionRow is the database representation of an execution.
type executionRow struct {
	ID         string
	Ticker     string
	Amount     int
	Price      int
	Status     string
	ExecutedAt int64 // microseconds since epoch
}

// Writer batches executions and flushes them to the executions table.
type Writer struct {
	cfg    config.JournalConfig
	logger *slog.Logger

	input chan model.Execution
	db    *pgxpool.Pool

	// Batching
	batch       []executionRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics Metrics
}

// Metrics contains journal runtime counters.
type Metrics struct {
	Inserts   int64
	Conflicts int64
	Flushes   int64
	Dropped   int64
	Errors    int64
}

// NewWriter creates a journal writer over the given pool.
func NewWriter(cfg config.JournalConfig, db *pgxpool.Pool, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan model.Execution, cfg.BufferSize),
		batch:  make([]executionRow, 0, cfg.BatchSize),
	}
}

// Record enqueues an execution without blocking.
func (w *Writer) Record(exec model.Execution) {
	select {
	case w.input <- exec:
	default:
		w.batchMu.Lock()
		w.metrics.Dropped++
		w.batchMu.Unlock()
	}
}

// Start begins consuming executions and writing to the database.
func (w *Writer) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("execution journal started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer and flushes what remains.
func (w *Writer) Stop(ctx context.Context) error {
	w.logger.Info("stopping execution journal")

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("execution journal stopped")
	case <-ctx.Done():
		w.logger.Warn("execution journal stop timed out")
	}

	w.flush()
	return nil
}

// Stats returns current metrics.
func (w *Writer) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads executions and accumulates batches.
func (w *Writer) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case exec := <-w.input:
			w.handleExecution(exec)
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *Writer) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// handleExecution transforms and adds an execution to the batch.
func (w *Writer) handleExecution(exec model.Execution) {
	row := transform(exec)

	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// transform converts an Execution to its row form.
func transform(exec model.Execution) executionRow {
	return executionRow{
		ID:         exec.ID.String(),
		Ticker:     exec.Ticker,
		Amount:     exec.Amount,
		Price:      exec.Price,
		Status:     exec.Status,
		ExecutedAt: exec.ExecutedAt.UnixMicro(),
	}
}

// flush writes the current batch to the database.
func (w *Writer) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]executionRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed executions",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *Writer) batchInsert(rows []executionRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO executions (id, ticker, amount, price, status, executed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING
		`, r.ID, r.Ticker, r.Amount, r.Price, r.Status, r.ExecutedAt)
	}

	// Not the writer context: the final flush runs after cancellation.
	results := w.db.SendBatch(context.Background(), batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
