package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avoronin/exchange-sim/internal/config"
	"github.com/avoronin/exchange-sim/internal/exchange"
	"github.com/avoronin/exchange-sim/internal/journal"
	"github.com/avoronin/exchange-sim/internal/orders"
)

// Server serves the exchange RPC surface.
type Server struct {
	cfg      config.ServerConfig
	follow   config.FollowConfig
	orders   orders.Config
	registry exchange.Registry
	journal  journal.Recorder
	logger   *slog.Logger

	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// New creates a server over the given registry. rec may be nil; executions
// are then discarded.
func New(cfg *config.ExchangeConfig, registry exchange.Registry, rec journal.Recorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = journal.Nop{}
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = config.DefaultWriteTimeout
	}
	return &Server{
		cfg:    cfg.Server,
		follow: cfg.Follow,
		orders: orders.Config{
			TickInterval: cfg.Orders.TickInterval,
			MaxImpactBps: cfg.Orders.MaxImpactBps,
		},
		registry: registry,
		journal:  rec,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Routes returns the HTTP handler serving all endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/stocks", s.handleList)
	mux.HandleFunc("GET /v1/offer", s.handleOffer)
	mux.HandleFunc("GET /v1/follow", s.handleFollow)
	mux.HandleFunc("GET /v1/trade", s.handleTrade)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Start begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:        s.cfg.Listen,
		Handler:     s.Routes(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Listen)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts the listener down. Streaming sessions observe the
// base context and terminate on their own.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.httpSrv.Close()
		return err
	}
	return nil
}

// upgrade upgrades the request and applies the configured read limit.
func (s *Server) upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(s.cfg.ReadLimit)
	return conn, nil
}

// writeJSON writes one frame with a bounded deadline.
func (s *Server) writeJSON(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return conn.WriteJSON(v)
}

// closeNormally completes the closing handshake for a cleanly finished
// stream.
func (s *Server) closeNormally(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	conn.WriteMessage(websocket.CloseMessage, msg)
}
