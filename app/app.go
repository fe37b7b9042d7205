// Package app wires the sentient110 service together and manages its
// lifecycle: optional Redis and Postgres backends, the SSE broker, the
// fetchers, the classifier pair and the HTTP API.
package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sentient110/analysis"
	"sentient110/api"
	"sentient110/cache"
	"sentient110/config"
	"sentient110/fetch"
	"sentient110/ledger"
	"sentient110/llm"
	"sentient110/realtime"
)

// App represents the main application
type App struct {
	config  *config.Config
	redis   *cache.RedisClient
	pgStore *ledger.PostgresStore
	broker  *realtime.Broker
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{
		config: cfg,
		broker: realtime.NewBroker(),
	}
}

// Start wires all components and serves the API until an interrupt
// arrives. Every optional backend degrades to its in-memory variant
// instead of failing startup.
func (a *App) Start() error {
	// 1. Result cache: Redis when configured and reachable, otherwise
	// in-process with the same TTL.
	ttl := time.Duration(a.config.CacheTTLSeconds) * time.Second
	var resultCache cache.ResultCache
	if a.config.RedisHost != "" {
		a.redis = cache.NewRedisClient(a.config.RedisHost, a.config.RedisPort, a.config.RedisPassword)
	}
	if a.redis != nil {
		resultCache = cache.NewRedisCache(a.redis, ttl)
	} else {
		log.Println("ℹ️  Using in-memory result cache")
		resultCache = cache.NewMemoryCache(ttl)
	}

	// 2. Verification ledger: Postgres when configured, otherwise
	// in-memory.
	var store ledger.Store
	if a.config.DatabaseEnabled {
		pg, err := ledger.Connect(
			a.config.DatabaseHost,
			a.config.DatabasePort,
			a.config.DatabaseName,
			a.config.DatabaseUser,
			a.config.DatabasePassword,
		)
		if err != nil {
			log.Printf("⚠️  Ledger database unavailable, using in-memory store: %v", err)
		} else {
			log.Println("✅ Ledger database connected")
			a.pgStore = pg
			store = pg
		}
	}
	if store == nil {
		store = ledger.NewMemoryStore()
	}

	// 3. Realtime event broker
	go a.broker.Run()

	// 4. Data fetchers. Missing credentials activate mock fallbacks
	// inside each fetcher.
	news := fetch.NewNewsFetcher(a.config.NewsAPIKey)
	social := fetch.NewSocialFetcher(a.config.TwitterBearerToken)
	price := fetch.NewPriceFetcher(a.config.AlphaVantageKey)

	// 5. Classifier strategies
	rng := analysis.NewRand(time.Now().UnixNano())
	fallback := analysis.NewKeywordStrategy(rng)

	var primary analysis.Strategy
	if a.config.LLM.Enabled && a.config.LLM.APIKey != "" {
		client := llm.NewClient(a.config.LLM.Endpoint, a.config.LLM.APIKey, a.config.LLM.Model)
		primary = analysis.NewLLMStrategy(client)
		log.Printf("✅ LLM analysis ENABLED (Model: %s)", a.config.LLM.Model)
	} else {
		log.Println("ℹ️  LLM analysis DISABLED, keyword fallback only")
	}

	analyzer := analysis.NewAnalyzer(news, social, price, primary, fallback, resultCache, rng, a.broker)

	// 6. API server
	server := api.NewServer(analyzer, store, a.broker, rng, primary != nil)
	go func() {
		if err := server.Start(a.config.ServerPort); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	return a.gracefulShutdown()
}

// gracefulShutdown waits for an interrupt and closes the backends.
func (a *App) gracefulShutdown() error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, shutting down...")

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("⚠️  Redis close failed: %v", err)
		}
	}
	if a.pgStore != nil {
		if err := a.pgStore.Close(); err != nil {
			log.Printf("⚠️  Database close failed: %v", err)
		}
	}

	fmt.Println("✅ Shutdown complete")
	return nil
}
