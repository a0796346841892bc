package server

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/avoronin/exchange-sim/internal/protocol"
)

// handleList returns a snapshot of every listed security. The listing
// contract exposes identity only; prices come from the follow feed.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("giving the list of stocks")

	securities := s.registry.List()
	sort.Slice(securities, func(i, j int) bool {
		return securities[i].Ticker < securities[j].Ticker
	})

	resp := protocol.ListResponse{
		Stocks: make([]protocol.Stock, 0, len(securities)),
	}
	for _, sec := range securities {
		resp.Stocks = append(resp.Stocks, protocol.Stock{
			Ticker:      sec.Ticker,
			Description: sec.Description,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("write list response", "error", err)
	}
}
