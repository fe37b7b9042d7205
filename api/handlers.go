package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"sentient110/analysis"
	"sentient110/ledger"
	"sentient110/models"
)

// trendingEntries is static demo data, not computed.
var trendingEntries = []models.TrendingEntry{
	{Ticker: "TSLA", Signal: models.SignalBuy, Confidence: 89, Price: 248.32},
	{Ticker: "NVDA", Signal: models.SignalBuy, Confidence: 94, Price: 875.60},
	{Ticker: "AAPL", Signal: models.SignalHold, Confidence: 67, Price: 178.45},
	{Ticker: "GOOGL", Signal: models.SignalBuy, Confidence: 78, Price: 156.78},
	{Ticker: "GME", Signal: models.SignalSell, Confidence: 72, Price: 12.34},
}

type analyzeRequest struct {
	Ticker string `json:"ticker"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req.Ticker)
	if err != nil {
		if errors.Is(err, analysis.ErrInvalidTicker) {
			respondWithError(w, http.StatusBadRequest, "Invalid ticker", err)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Analysis failed", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trending": trendingEntries,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   serviceName,
		"version":   serviceVersion,
		"real_api":  s.llmEnabled,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type verifyRequest struct {
	Ticker     string `json:"ticker"`
	Signal     string `json:"signal"`
	Confidence int    `json:"confidence"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Ticker == "" {
		// Query parameters are the alternate carrier for this endpoint
		query := r.URL.Query()
		req.Ticker = query.Get("ticker")
		req.Signal = query.Get("signal")
		req.Confidence, _ = strconv.Atoi(query.Get("confidence"))
	}

	if req.Ticker == "" {
		respondWithError(w, http.StatusBadRequest, "Ticker required", nil)
		return
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	txHash := ledger.Hash(req.Ticker, req.Signal, req.Confidence, timestamp)

	rec := models.PredictionRecord{
		TxHash:     txHash,
		Ticker:     req.Ticker,
		Signal:     req.Signal,
		Confidence: req.Confidence,
		Timestamp:  timestamp,
	}
	if err := s.ledger.Record(r.Context(), rec); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to store prediction", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tx_hash":          txHash,
		"block_number":     19_000_000 + s.rng.IntRange(1, 100_000),
		"timestamp":        timestamp,
		"network":          ledger.Network,
		"verification_url": ledger.VerificationURL(txHash),
	})
}

func (s *Server) handleVerifyLookup(w http.ResponseWriter, r *http.Request) {
	txHash := r.PathValue("tx_hash")

	rec, ok := s.ledger.Lookup(r.Context(), txHash)
	if !ok {
		// An unknown hash is a negative result, not an error
		writeJSON(w, http.StatusOK, map[string]interface{}{"verified": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"verified":   true,
		"prediction": rec,
	})
}

func (s *Server) handleVerifyHistory(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	limit := getIntParam(r, "limit", ledger.DefaultHistoryLimit, 100)

	records := s.ledger.History(r.Context(), ticker, limit)
	if records == nil {
		records = []models.PredictionRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": records,
		"count":       len(records),
	})
}

func (s *Server) handleVerifyStats(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")

	records := s.ledger.History(r.Context(), ticker, 100)
	if len(records) == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"total_predictions": 0,
			"accuracy":          nil,
			"avg_confidence":    nil,
		})
		return
	}

	var sum int
	for _, rec := range records {
		sum += rec.Confidence
	}
	avg := math.Round(float64(sum)/float64(len(records))*10) / 10

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_predictions": len(records),
		// Simulated accuracy; comparing predictions to actual price
		// movement is out of scope for the demo
		"accuracy":       75 + s.rng.IntRange(0, 20),
		"avg_confidence": avg,
	})
}
