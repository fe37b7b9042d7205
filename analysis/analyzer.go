package analysis

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"sentient110/cache"
	"sentient110/models"
)

// ErrInvalidTicker is the only error that escapes the orchestrator.
// Everything downstream of input validation is absorbed by fallbacks.
var ErrInvalidTicker = errors.New("ticker must be 1-5 characters")

const maxTickerLen = 5

// Data source contracts, satisfied by the fetch package. Interfaces so
// tests can substitute canned sources.
type (
	NewsSource interface {
		Fetch(ctx context.Context, ticker string) []models.NewsItem
	}
	SocialSource interface {
		Fetch(ctx context.Context, ticker string) []models.SocialPost
	}
	PriceSource interface {
		Fetch(ctx context.Context, ticker string) models.Quote
	}
)

// Publisher receives completed analyses for live subscribers.
type Publisher interface {
	Publish(event string, v interface{})
}

// Source-breakdown percentage bands keyed by signal, in news/twitter/
// reddit order.
var breakdownBands = map[string][3][2]int{
	models.SignalBuy:  {{72, 92}, {75, 95}, {78, 98}},
	models.SignalSell: {{18, 38}, {15, 35}, {22, 42}},
	models.SignalHold: {{45, 62}, {42, 58}, {48, 65}},
}

var sentimentScores = map[string]float64{
	models.SignalBuy:  0.85,
	models.SignalSell: 0.25,
	models.SignalHold: 0.50,
}

const headlineMaxLen = 80

// Analyzer composes the three fetchers and the classifier pair into a
// single analyze operation, fronted by the result cache.
type Analyzer struct {
	news     NewsSource
	social   SocialSource
	price    PriceSource
	primary  Strategy // nil when no LLM is configured
	fallback Strategy
	cache    cache.ResultCache
	rng      *Rand
	events   Publisher // optional
	now      func() time.Time
}

// NewAnalyzer wires the orchestrator. primary may be nil, in which case
// every classification uses the fallback strategy. events may be nil.
func NewAnalyzer(news NewsSource, social SocialSource, price PriceSource, primary, fallback Strategy, resultCache cache.ResultCache, rng *Rand, events Publisher) *Analyzer {
	return &Analyzer{
		news:     news,
		social:   social,
		price:    price,
		primary:  primary,
		fallback: fallback,
		cache:    resultCache,
		rng:      rng,
		events:   events,
		now:      time.Now,
	}
}

// NormalizeTicker uppercases and trims a raw ticker, reporting whether
// the result is a valid symbol.
func NormalizeTicker(raw string) (string, bool) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if ticker == "" || len(ticker) > maxTickerLen {
		return "", false
	}
	return ticker, true
}

// Analyze runs the full pipeline for one ticker: cache check, the three
// concurrent fetches, classification, assembly, cache store. It returns
// ErrInvalidTicker for a bad symbol and otherwise always succeeds.
func (a *Analyzer) Analyze(ctx context.Context, rawTicker string) (*models.AnalysisResult, error) {
	ticker, ok := NormalizeTicker(rawTicker)
	if !ok {
		return nil, ErrInvalidTicker
	}

	if cached, hit := a.cache.Get(ctx, ticker); hit {
		log.Printf("⚡ Cache hit for %s", ticker)
		return cached, nil
	}

	log.Printf("📊 Analyzing %s...", ticker)

	// The three fetches are independent; run them concurrently and
	// combine once all complete. Each fetcher handles its own timeout
	// and fallback, so there is no partial-failure path here.
	var (
		wg    sync.WaitGroup
		news  []models.NewsItem
		posts []models.SocialPost
		quote models.Quote
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		news = a.news.Fetch(ctx, ticker)
	}()
	go func() {
		defer wg.Done()
		posts = a.social.Fetch(ctx, ticker)
	}()
	go func() {
		defer wg.Done()
		quote = a.price.Fetch(ctx, ticker)
	}()
	wg.Wait()

	verdict, usingRealData := a.classify(ctx, ticker, news, posts, quote)

	result := a.assemble(ticker, verdict, news, posts, quote, usingRealData)
	a.cache.Set(ctx, ticker, result)

	if a.events != nil {
		a.events.Publish("analysis", result)
	}

	return result, nil
}

// classify tries the primary strategy and falls back to the keyword
// heuristic on any failure. The boolean reports whether the primary
// (live LLM) strategy actually produced the verdict.
func (a *Analyzer) classify(ctx context.Context, ticker string, news []models.NewsItem, posts []models.SocialPost, quote models.Quote) (*models.Verdict, bool) {
	if a.primary != nil {
		verdict, err := a.primary.Classify(ctx, ticker, news, posts, quote)
		if err == nil {
			return verdict, true
		}
		log.Printf("LLM classification failed for %s, using fallback: %v", ticker, err)
	}

	// The keyword strategy cannot fail.
	verdict, _ := a.fallback.Classify(ctx, ticker, news, posts, quote)
	return verdict, false
}

func (a *Analyzer) assemble(ticker string, verdict *models.Verdict, news []models.NewsItem, posts []models.SocialPost, quote models.Quote, usingRealData bool) *models.AnalysisResult {
	bands := breakdownBands[verdict.Signal]

	headlines := make([]string, 0, len(news))
	for _, n := range news {
		title := n.Title
		if r := []rune(title); len(r) > headlineMaxLen {
			title = string(r[:headlineMaxLen])
		}
		headlines = append(headlines, title)
	}

	return &models.AnalysisResult{
		Ticker:          ticker,
		Signal:          verdict.Signal,
		Confidence:      verdict.Confidence,
		Reasoning:       verdict.Reasoning,
		SentimentScore:  sentimentScores[verdict.Signal],
		SourcesAnalyzed: len(news) + len(posts),
		Timestamp:       a.now().UTC().Format(time.RFC3339),
		Price:           quote.Price,
		PriceChange:     quote.ChangePercent,
		SourceBreakdown: models.SourceBreakdown{
			News:    a.rng.IntRange(bands[0][0], bands[0][1]),
			Twitter: a.rng.IntRange(bands[1][0], bands[1][1]),
			Reddit:  a.rng.IntRange(bands[2][0], bands[2][1]),
		},
		Insights:      verdict.Insights,
		NewsHeadlines: headlines,
		UsingRealData: usingRealData,
	}
}
