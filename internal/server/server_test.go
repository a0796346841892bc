package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avoronin/exchange-sim/internal/config"
	"github.com/avoronin/exchange-sim/internal/exchange"
	"github.com/avoronin/exchange-sim/internal/protocol"
)

// startServer spins up the exchange over httptest with fast test timings.
func startServer(t *testing.T, mutate func(*config.ExchangeConfig)) (*httptest.Server, exchange.Registry) {
	t.Helper()

	cfg := config.Default()
	cfg.Follow.SessionLimit = 500 * time.Millisecond
	cfg.Follow.DefaultInterval = 50 * time.Millisecond
	cfg.Orders.TickInterval = 20 * time.Millisecond
	if mutate != nil {
		mutate(cfg)
	}

	registry := exchange.NewRegistry()
	if err := registry.TryInsert("NVDA", "NVIDIA Corporation Common Stock", 10000); err != nil {
		t.Fatalf("TryInsert failed: %v", err)
	}
	if err := registry.TryInsert("WMT", "Walmart Inc. Common Stock", 9500); err != nil {
		t.Fatalf("TryInsert failed: %v", err)
	}

	srv := New(cfg, registry, nil, slog.Default())
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, registry
}

// dialWS connects a websocket test client to path on ts.
func dialWS(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestList(t *testing.T) {
	ts, _ := startServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/stocks")
	if err != nil {
		t.Fatalf("GET /v1/stocks: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var list protocol.ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(list.Stocks) != 2 {
		t.Fatalf("len(Stocks) = %d, want 2", len(list.Stocks))
	}

	// Sorted by ticker, identity fields only.
	if list.Stocks[0].Ticker != "NVDA" || list.Stocks[1].Ticker != "WMT" {
		t.Errorf("tickers = %q, %q, want NVDA, WMT", list.Stocks[0].Ticker, list.Stocks[1].Ticker)
	}
	if list.Stocks[0].Description != "NVIDIA Corporation Common Stock" {
		t.Errorf("Description = %q", list.Stocks[0].Description)
	}
}

func TestList_OmitsPrice(t *testing.T) {
	ts, _ := startServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/stocks")
	if err != nil {
		t.Fatalf("GET /v1/stocks: %v", err)
	}
	defer resp.Body.Close()

	var raw map[string][]map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, stock := range raw["stocks"] {
		if _, ok := stock["price"]; ok {
			t.Errorf("listing leaked a price field: %v", stock)
		}
	}
}

func TestHealthz(t *testing.T) {
	ts, _ := startServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
