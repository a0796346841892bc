package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avoronin/exchange-sim/internal/protocol"
)

// handleFollow streams periodic price snapshots for one ticker. The session
// is capped by the configured limit; reaching the cap closes the stream
// normally, a client cancellation closes it with an error.
func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if _, ok := s.registry.Get(ticker); !ok {
		s.logger.Warn("follow for unknown ticker", "ticker", ticker)
		http.Error(w, "security not found", http.StatusNotFound)
		return
	}

	interval := s.follow.DefaultInterval
	if raw := r.URL.Query().Get("interval"); raw != "" {
		// A degenerate interval falls back to the default rather than
		// spinning or failing the session.
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			interval = d
		}
	}

	conn, err := s.upgrade(w, r)
	if err != nil {
		return
	}
	defer conn.Close()

	s.logger.Info("streaming the price",
		"ticker", ticker,
		"interval", interval,
		"session_limit", s.follow.SessionLimit,
	)

	ctx, cancel := context.WithTimeout(r.Context(), s.follow.SessionLimit)
	defer cancel()

	// The read pump exists only to notice the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	poll := time.NewTicker(interval)
	defer poll.Stop()

	// First snapshot goes out immediately.
	for {
		sec, ok := s.registry.Get(ticker)
		if !ok {
			s.writeJSON(conn, protocol.ErrorFrame{
				Type:    protocol.TypeError,
				Code:    "not_found",
				Message: "security not found",
			})
			return
		}

		tick := protocol.PriceTick{
			Type:   protocol.TypeTick,
			Ticker: sec.Ticker,
			Price:  sec.Price,
		}
		if err := s.writeJSON(conn, tick); err != nil {
			s.logger.Warn("finished streaming the price", "ticker", ticker, "error", err)
			return
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				// Session limit reached: a normal completion, not a failure.
				s.closeNormally(conn, "session limit reached")
				s.logger.Info("finished streaming the price", "ticker", ticker)
			} else {
				s.logger.Info("follow session cancelled", "ticker", ticker)
			}
			return
		case <-poll.C:
		}
	}
}
