package analysis

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"sentient110/cache"
	"sentient110/models"
)

type stubNews struct {
	items []models.NewsItem
	calls int
}

func (s *stubNews) Fetch(_ context.Context, _ string) []models.NewsItem {
	s.calls++
	return s.items
}

type stubSocial struct {
	posts []models.SocialPost
	calls int
}

func (s *stubSocial) Fetch(_ context.Context, _ string) []models.SocialPost {
	s.calls++
	return s.posts
}

type stubPrice struct {
	quote models.Quote
	calls int
}

func (s *stubPrice) Fetch(_ context.Context, _ string) models.Quote {
	s.calls++
	return s.quote
}

type stubStrategy struct {
	verdict *models.Verdict
	err     error
	calls   int
}

func (s *stubStrategy) Classify(_ context.Context, _ string, _ []models.NewsItem, _ []models.SocialPost, _ models.Quote) (*models.Verdict, error) {
	s.calls++
	return s.verdict, s.err
}

type stubPublisher struct {
	events []string
}

func (s *stubPublisher) Publish(event string, _ interface{}) {
	s.events = append(s.events, event)
}

func buyVerdict() *models.Verdict {
	return &models.Verdict{
		Signal:     models.SignalBuy,
		Confidence: 80,
		Reasoning:  "Looks good.",
		Insights:   []string{"one", "two"},
	}
}

func newTestAnalyzer(primary, fallback Strategy) (*Analyzer, *stubNews, *stubSocial, *stubPrice) {
	news := &stubNews{items: []models.NewsItem{
		{Title: "TSLA shows strong momentum", Source: "Reuters"},
		{Title: "Analysts upgrade TSLA", Source: "Bloomberg"},
	}}
	social := &stubSocial{posts: []models.SocialPost{{Text: "$TSLA rally!"}}}
	price := &stubPrice{quote: models.Quote{Ticker: "TSLA", Price: 248.32, ChangePercent: "+1.20%"}}

	a := NewAnalyzer(news, social, price, primary, fallback, cache.NewMemoryCache(time.Minute), NewRand(1), nil)
	return a, news, social, price
}

func TestAnalyzeAssemblesResult(t *testing.T) {
	primary := &stubStrategy{verdict: buyVerdict()}
	a, news, social, price := newTestAnalyzer(primary, NewKeywordStrategy(NewRand(1)))

	result, err := a.Analyze(context.Background(), " tsla ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Ticker != "TSLA" {
		t.Errorf("expected normalized ticker TSLA, got %s", result.Ticker)
	}
	if result.Signal != models.SignalBuy {
		t.Errorf("expected BUY, got %s", result.Signal)
	}
	if result.Confidence != 80 {
		t.Errorf("expected confidence 80, got %d", result.Confidence)
	}
	if result.SentimentScore != 0.85 {
		t.Errorf("expected sentiment score 0.85, got %v", result.SentimentScore)
	}
	if result.SourcesAnalyzed != 3 {
		t.Errorf("expected 3 sources analyzed, got %d", result.SourcesAnalyzed)
	}
	if !result.UsingRealData {
		t.Error("expected using_real_data to be true when LLM strategy succeeds")
	}
	if result.Price != 248.32 || result.PriceChange != "+1.20%" {
		t.Errorf("quote not carried into result: %v %v", result.Price, result.PriceChange)
	}
	if len(result.NewsHeadlines) != 2 {
		t.Errorf("expected 2 headlines, got %d", len(result.NewsHeadlines))
	}

	b := result.SourceBreakdown
	if b.News < 72 || b.News > 92 || b.Twitter < 75 || b.Twitter > 95 || b.Reddit < 78 || b.Reddit > 98 {
		t.Errorf("BUY breakdown outside bands: %+v", b)
	}

	if _, err := time.Parse(time.RFC3339, result.Timestamp); err != nil {
		t.Errorf("timestamp not RFC3339: %q", result.Timestamp)
	}

	if news.calls != 1 || social.calls != 1 || price.calls != 1 {
		t.Errorf("expected one fetch per source, got %d/%d/%d", news.calls, social.calls, price.calls)
	}
}

func TestAnalyzeTimestampIsUTC(t *testing.T) {
	primary := &stubStrategy{verdict: buyVerdict()}
	a, _, _, _ := newTestAnalyzer(primary, NewKeywordStrategy(NewRand(1)))

	// A clock pinned to a non-UTC zone must still produce a UTC timestamp,
	// otherwise ledger history ordering breaks across an offset change.
	loc := time.FixedZone("UTC+7", 7*3600)
	a.now = func() time.Time { return time.Date(2026, 1, 30, 19, 0, 0, 0, loc) }

	result, err := a.Analyze(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Timestamp != "2026-01-30T12:00:00Z" {
		t.Errorf("expected UTC timestamp 2026-01-30T12:00:00Z, got %q", result.Timestamp)
	}
}

func TestAnalyzeInvalidTicker(t *testing.T) {
	fallback := NewKeywordStrategy(NewRand(1))

	for _, raw := range []string{"", "   ", "TOOLONG"} {
		a, news, _, _ := newTestAnalyzer(nil, fallback)

		_, err := a.Analyze(context.Background(), raw)
		if !errors.Is(err, ErrInvalidTicker) {
			t.Errorf("ticker %q: expected ErrInvalidTicker, got %v", raw, err)
		}
		if news.calls != 0 {
			t.Errorf("ticker %q: fetchers must not run on invalid input", raw)
		}
	}
}

func TestAnalyzeCacheHit(t *testing.T) {
	primary := &stubStrategy{verdict: buyVerdict()}
	a, news, _, _ := newTestAnalyzer(primary, NewKeywordStrategy(NewRand(1)))

	first, err := a.Analyze(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.Analyze(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("cached result differs from original")
	}
	if news.calls != 1 {
		t.Errorf("expected no fetch on cache hit, got %d calls", news.calls)
	}
	if primary.calls != 1 {
		t.Errorf("expected no classification on cache hit, got %d calls", primary.calls)
	}
}

func TestAnalyzeFallbackOnLLMFailure(t *testing.T) {
	primary := &stubStrategy{err: errors.New("upstream unavailable")}
	a, _, _, _ := newTestAnalyzer(primary, NewKeywordStrategy(NewRand(1)))

	result, err := a.Analyze(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("fallback must absorb LLM failure, got %v", err)
	}
	if result.UsingRealData {
		t.Error("expected using_real_data=false when LLM strategy fails")
	}
	// The stub headlines are bullish, so the keyword fallback lands on BUY.
	if result.Signal != models.SignalBuy {
		t.Errorf("expected fallback BUY, got %s", result.Signal)
	}
}

func TestAnalyzeWithoutPrimaryStrategy(t *testing.T) {
	a, _, _, _ := newTestAnalyzer(nil, NewKeywordStrategy(NewRand(1)))

	result, err := a.Analyze(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UsingRealData {
		t.Error("expected using_real_data=false without an LLM strategy")
	}
}

func TestAnalyzePublishesEvents(t *testing.T) {
	primary := &stubStrategy{verdict: buyVerdict()}
	pub := &stubPublisher{}

	news := &stubNews{items: []models.NewsItem{{Title: "strong rally"}}}
	social := &stubSocial{}
	price := &stubPrice{quote: models.Quote{Ticker: "TSLA", Price: 100}}
	a := NewAnalyzer(news, social, price, primary, NewKeywordStrategy(NewRand(1)), cache.NewMemoryCache(time.Minute), NewRand(1), pub)

	if _, err := a.Analyze(context.Background(), "TSLA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0] != "analysis" {
		t.Errorf("expected one analysis event, got %v", pub.events)
	}

	// Cache hits are not republished.
	if _, err := a.Analyze(context.Background(), "TSLA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.events) != 1 {
		t.Errorf("expected no event on cache hit, got %v", pub.events)
	}
}

func TestAnalyzeHeadlineTruncation(t *testing.T) {
	long := ""
	for i := 0; i < 12; i++ {
		long += "0123456789"
	}

	news := &stubNews{items: []models.NewsItem{{Title: long}}}
	social := &stubSocial{}
	price := &stubPrice{quote: models.Quote{Ticker: "X", Price: 1}}
	a := NewAnalyzer(news, social, price, nil, NewKeywordStrategy(NewRand(1)), cache.NewMemoryCache(time.Minute), NewRand(1), nil)

	result, err := a.Analyze(context.Background(), "X")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.NewsHeadlines) != 1 {
		t.Fatalf("expected 1 headline, got %d", len(result.NewsHeadlines))
	}
	if got := len(result.NewsHeadlines[0]); got != 80 {
		t.Errorf("expected headline truncated to 80 chars, got %d", got)
	}
}
