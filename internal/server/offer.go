package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avoronin/exchange-sim/internal/exchange"
	"github.com/avoronin/exchange-sim/internal/protocol"
)

// Rejection reasons reported in the offer summary.
const (
	reasonAlreadyPresent = "already present"
	reasonInvalidPrice   = "invalid price"
	reasonInvalidTicker  = "invalid ticker"
)

// handleOffer consumes a stream of listing offers and answers with a single
// summary once the client signals it is done. Outcomes are accumulated in
// receipt order; each offer gets exactly one outcome.
func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrade(w, r)
	if err != nil {
		return
	}
	defer conn.Close()

	s.logger.Info("offer session opened", "remote", r.RemoteAddr)

	var summary protocol.OfferSummary
	summary.Type = protocol.TypeSummary

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Client went away mid-stream: accumulated outcomes are not
			// flushed.
			s.logger.Warn("offer session aborted", "error", err)
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.logger.Warn("undecodable offer frame", "error", err)
			continue
		}

		switch env.Type {
		case protocol.TypeOffer:
			var req protocol.OfferRequest
			if err := json.Unmarshal(data, &req); err != nil {
				s.logger.Warn("undecodable offer frame", "error", err)
				continue
			}
			s.processOffer(req, &summary)

		case protocol.TypeDone:
			if err := s.writeJSON(conn, summary); err != nil {
				s.logger.Error("write offer summary", "error", err)
				return
			}
			s.closeNormally(conn, "")
			s.logger.Info("offer session closed",
				"listed", len(summary.Listed),
				"rejected", len(summary.Rejected),
			)
			return

		default:
			s.logger.Warn("unexpected offer frame", "frame_type", env.Type)
		}
	}
}

// processOffer validates one offer and records its single outcome. The
// duplicate-ticker check precedes the price check.
func (s *Server) processOffer(req protocol.OfferRequest, summary *protocol.OfferSummary) {
	reject := func(reason string) {
		summary.Rejected = append(summary.Rejected, protocol.Stock{
			Ticker:      req.Ticker,
			Description: reason,
		})
	}

	if _, ok := s.registry.Get(req.Ticker); ok {
		reject(reasonAlreadyPresent)
		return
	}
	if req.InitialPrice <= 0 {
		reject(reasonInvalidPrice)
		return
	}

	err := s.registry.TryInsert(req.Ticker, req.Description, req.InitialPrice)
	switch {
	case err == nil:
		summary.Listed = append(summary.Listed, protocol.Stock{
			Ticker:      req.Ticker,
			Description: req.Description,
		})
	case errors.Is(err, exchange.ErrAlreadyExists):
		// Lost a race with a concurrent offer.
		reject(reasonAlreadyPresent)
	case errors.Is(err, exchange.ErrInvalidTicker):
		reject(reasonInvalidTicker)
	default:
		reject(err.Error())
	}
}
