package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/market"
)

type statusResponse struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:    "ok",
		Message:   "Bitcoin Pro API is running",
		Endpoints: []string{"/markets"},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res, err := s.snapshots.Snapshot(r.Context())
	if err != nil {
		// Full detail stays in the log; the wire carries a generic envelope.
		s.logger.Error().Err(err).Msg("snapshot build failed")
		msg := "failed to build market snapshot"
		if errors.Is(err, market.ErrAggregationTimeout) {
			msg = "market data aggregation timed out"
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:     "internal_error",
			Message:   msg,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	writeJSON(w, http.StatusOK, res.Snapshot)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
