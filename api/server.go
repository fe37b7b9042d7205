package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"sentient110/analysis"
	"sentient110/ledger"
	"sentient110/models"
	"sentient110/realtime"
)

const (
	serviceName    = "Sentient110"
	serviceVersion = "2.0.0"
)

// Analyzer is the orchestrator contract the server depends on.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*models.AnalysisResult, error)
}

// Server handles HTTP API requests
type Server struct {
	analyzer   Analyzer
	ledger     ledger.Store
	broker     *realtime.Broker
	rng        *analysis.Rand
	llmEnabled bool
}

// NewServer creates a new API server instance. broker may be nil to
// disable the SSE endpoint.
func NewServer(analyzer Analyzer, store ledger.Store, broker *realtime.Broker, rng *analysis.Rand, llmEnabled bool) *Server {
	return &Server{
		analyzer:   analyzer,
		ledger:     store,
		broker:     broker,
		rng:        rng,
		llmEnabled: llmEnabled,
	}
}

// Handler builds the route table with the CORS and logging middleware
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/trending", s.handleTrending)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	// Verification ledger routes
	mux.HandleFunc("POST /api/verify", s.handleVerify)
	mux.HandleFunc("GET /api/verify/history", s.handleVerifyHistory)
	mux.HandleFunc("GET /api/verify/stats", s.handleVerifyStats)
	mux.HandleFunc("GET /api/verify/{tx_hash}", s.handleVerifyLookup)

	if s.broker != nil {
		mux.Handle("GET /api/events", s.broker) // SSE endpoint
	}

	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, s.Handler())
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
