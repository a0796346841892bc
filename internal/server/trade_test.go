package server

import (
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avoronin/exchange-sim/internal/config"
	"github.com/avoronin/exchange-sim/internal/model"
	"github.com/avoronin/exchange-sim/internal/protocol"
)

func sendOrder(t *testing.T, conn *websocket.Conn, ticker string, amount int, limit *int) {
	t.Helper()
	err := conn.WriteJSON(protocol.OrderRequest{
		Type:       protocol.TypeOrder,
		Ticker:     ticker,
		Amount:     amount,
		LimitPrice: limit,
	})
	if err != nil {
		t.Fatalf("send order: %v", err)
	}
}

func TestTrade_ExecutionsAndRepricing(t *testing.T) {
	ts, registry := startServer(t, nil)
	conn := dialWS(t, ts, "/v1/trade")

	sendOrder(t, conn, "NVDA", 30, nil)
	sendOrder(t, conn, "NVDA", 20, nil)

	got := make(map[string]int) // status -> count
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for fills := 0; fills < 2; {
		var report protocol.ExecutionReport
		if err := conn.ReadJSON(&report); err != nil {
			t.Fatalf("read execution: %v", err)
		}
		if report.Type != protocol.TypeExecution {
			t.Fatalf("frame type = %q, want %q", report.Type, protocol.TypeExecution)
		}
		if report.Ticker != "NVDA" {
			t.Errorf("ticker = %q, want NVDA", report.Ticker)
		}
		if report.ID == "" {
			t.Error("execution report without ID")
		}
		got[report.Status]++
		if report.Status == model.ExecutionFilled {
			fills++
		}
	}

	if got[model.ExecutionFilled] != 2 {
		t.Errorf("filled = %d, want 2", got[model.ExecutionFilled])
	}

	// Net flow +50 against a 10000 price: exactly one 50bps move,
	// regardless of how many ticks elapsed since.
	deadline := time.Now().Add(time.Second)
	for {
		sec, _ := registry.Get("NVDA")
		if sec.Price == 10050 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("price = %d, want 10050", sec.Price)
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Close the stream; the recurring task must stop with it.
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	time.Sleep(100 * time.Millisecond)

	before, _ := registry.Get("NVDA")
	time.Sleep(100 * time.Millisecond)
	after, _ := registry.Get("NVDA")
	if before.Price != after.Price {
		t.Errorf("price moved after session close: %d -> %d", before.Price, after.Price)
	}
}

func TestTrade_LimitOrderGating(t *testing.T) {
	ts, _ := startServer(t, nil)
	conn := dialWS(t, ts, "/v1/trade")

	tooLow := 5000 // NVDA trades at 10000
	sendOrder(t, conn, "NVDA", 10, &tooLow)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var report protocol.ExecutionReport
	if err := conn.ReadJSON(&report); err != nil {
		t.Fatalf("read execution: %v", err)
	}
	if report.Status != model.ExecutionCanceled {
		t.Errorf("status = %q, want %q", report.Status, model.ExecutionCanceled)
	}
	if report.Price != 0 {
		t.Errorf("price = %d, want 0 for a canceled order", report.Price)
	}
}

func TestTrade_StalledClientTeardown(t *testing.T) {
	ts, _ := startServer(t, func(cfg *config.ExchangeConfig) {
		cfg.Server.WriteTimeout = 150 * time.Millisecond
	})

	// A client with a tiny receive window that floods orders and never
	// reads a report: the outbound stream backs up until the write
	// deadline trips server-side.
	dialer := websocket.Dialer{
		NetDial: func(network, addr string) (net.Conn, error) {
			c, err := net.Dial(network, addr)
			if err != nil {
				return nil, err
			}
			if tc, ok := c.(*net.TCPConn); ok {
				tc.SetReadBuffer(4096)
			}
			return c, nil
		},
	}
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/trade"
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial /v1/trade: %v", err)
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < 8000; i++ {
		err := conn.WriteJSON(protocol.OrderRequest{
			Type:   protocol.TypeOrder,
			Ticker: "NVDA",
			Amount: 1,
		})
		if err != nil {
			// The server already hung up on us.
			break
		}
	}

	// The dead write pump must take the whole session down, read pump
	// included. Drain buffered reports until the teardown reaches us; a
	// timeout here means the session is still pinned.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				t.Fatal("session still open: stalled stream was never torn down")
			}
			return
		}
	}
}

func TestTrade_UnknownTickerRejected(t *testing.T) {
	ts, _ := startServer(t, nil)
	conn := dialWS(t, ts, "/v1/trade")

	sendOrder(t, conn, "GHOST", 5, nil)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var report protocol.ExecutionReport
	if err := conn.ReadJSON(&report); err != nil {
		t.Fatalf("read execution: %v", err)
	}
	if report.Status != model.ExecutionRejected {
		t.Errorf("status = %q, want %q", report.Status, model.ExecutionRejected)
	}
}
