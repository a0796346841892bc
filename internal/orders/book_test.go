package orders

import (
	"sync"
	"testing"

	"github.com/avoronin/exchange-sim/internal/model"
)

func TestBook_AddAndDrain(t *testing.T) {
	b := NewBook()

	b.Add(model.Order{Ticker: "NVDA", Amount: 5})
	b.Add(model.Order{Ticker: "NVDA", Amount: -2})
	b.Add(model.Order{Ticker: "WMT", Amount: 1})

	if b.Len() != 3 {
		t.Errorf("Len() = %d, want 3", b.Len())
	}

	drained := b.Drain()
	if len(drained) != 2 {
		t.Fatalf("drained %d tickers, want 2", len(drained))
	}
	if len(drained["NVDA"]) != 2 {
		t.Errorf("NVDA bucket size = %d, want 2", len(drained["NVDA"]))
	}

	// Receipt order preserved.
	if drained["NVDA"][0].Amount != 5 || drained["NVDA"][1].Amount != -2 {
		t.Errorf("NVDA bucket out of order: %+v", drained["NVDA"])
	}

	if b.Len() != 0 {
		t.Errorf("Len() after drain = %d, want 0", b.Len())
	}
	if len(b.Drain()) != 0 {
		t.Error("second drain returned orders")
	}
}

func TestBook_DrainNeverDeliversTwice(t *testing.T) {
	b := NewBook()

	const total = 1000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			b.Add(model.Order{Ticker: "NVDA", Amount: 1})
		}
	}()

	seen := 0
	doneAdding := make(chan struct{})
	go func() { wg.Wait(); close(doneAdding) }()

	for {
		for _, bucket := range b.Drain() {
			seen += len(bucket)
		}
		select {
		case <-doneAdding:
			for _, bucket := range b.Drain() {
				seen += len(bucket)
			}
			if seen != total {
				t.Errorf("drained %d orders total, want %d", seen, total)
			}
			return
		default:
		}
	}
}
