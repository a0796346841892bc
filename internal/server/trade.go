package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/avoronin/exchange-sim/internal/model"
	"github.com/avoronin/exchange-sim/internal/orders"
	"github.com/avoronin/exchange-sim/internal/protocol"
)

// handleTrade runs one bidirectional trading session: inbound orders are
// bucketed into a session-owned book, a background processor applies them on
// a fixed period, and execution reports stream back as they happen.
func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrade(w, r)
	if err != nil {
		return
	}
	defer conn.Close()

	s.logger.Info("trade session opened", "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	book := orders.NewBook()
	proc := orders.NewProcessor(s.orders, book, s.registry, s.logger)
	if err := proc.Start(ctx); err != nil {
		s.logger.Error("start order processor", "error", err)
		return
	}

	g, gctx := errgroup.WithContext(ctx)

	// Whichever pump dies first must take the connection down with it:
	// conn.ReadMessage does not observe contexts, so a blocked read pump
	// would otherwise pin the session forever.
	go func() {
		<-gctx.Done()
		conn.Close()
	}()

	// Read pump: receipt-ordered appends into the book.
	g.Go(func() error {
		defer cancel()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}
				return err
			}
			s.acceptOrder(book, data)
		}
	})

	// Write pump: execution reports out, journal copy aside.
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case exec := <-proc.Executions():
				s.journal.Record(exec)
				report := protocol.ExecutionReport{
					Type:   protocol.TypeExecution,
					ID:     exec.ID.String(),
					Ticker: exec.Ticker,
					Amount: exec.Amount,
					Price:  exec.Price,
					Status: exec.Status,
				}
				if err := s.writeJSON(conn, report); err != nil {
					return err
				}
			}
		}
	})

	err = g.Wait()

	// The recurring task dies with the session; an in-flight tick may
	// finish.
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if stopErr := proc.Stop(stopCtx); stopErr != nil {
		s.logger.Error("stop order processor", "error", stopErr)
	}

	if err != nil {
		s.logger.Warn("trade session failed", "error", err)
		return
	}
	s.logger.Info("trade session closed", "remote", r.RemoteAddr)
}

// acceptOrder decodes one inbound frame and appends it to the book.
func (s *Server) acceptOrder(book *orders.Book, data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Warn("undecodable trade frame", "error", err)
		return
	}
	if env.Type != protocol.TypeOrder {
		s.logger.Warn("unexpected trade frame", "frame_type", env.Type)
		return
	}

	var req protocol.OrderRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.logger.Warn("undecodable order", "error", err)
		return
	}

	book.Add(model.Order{
		Ticker:     req.Ticker,
		Amount:     req.Amount,
		LimitPrice: req.LimitPrice,
		ReceivedAt: time.Now(),
	})
	s.logger.Debug("received order",
		"ticker", req.Ticker,
		"amount", req.Amount,
		"limit", req.LimitPrice != nil,
	)
}
