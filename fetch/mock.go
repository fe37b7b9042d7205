package fetch

import (
	"fmt"
	"math/rand"

	"sentient110/models"
)

// Well-known demo tickers with fixed reference prices. Anything else
// gets a randomized but plausible price.
var mockPrices = map[string]float64{
	"TSLA":  248.32,
	"AAPL":  178.45,
	"NVDA":  875.60,
	"GOOGL": 156.78,
	"GME":   12.34,
	"MSFT":  415.80,
	"AMZN":  178.25,
}

// MockNews returns the canned headline set used when NewsAPI is
// unavailable. Order is fixed.
func MockNews(ticker string) []models.NewsItem {
	return []models.NewsItem{
		{Title: fmt.Sprintf("%s shows strong momentum amid market rally", ticker), Source: "Reuters"},
		{Title: fmt.Sprintf("Analysts upgrade %s on strong earnings outlook", ticker), Source: "Bloomberg"},
		{Title: fmt.Sprintf("%s leads sector gains on positive sentiment", ticker), Source: "CNBC"},
		{Title: fmt.Sprintf("Why investors are bullish on %s", ticker), Source: "MarketWatch"},
		{Title: fmt.Sprintf("%s technical analysis shows breakout pattern", ticker), Source: "TradingView"},
	}
}

// MockPosts returns the canned social posts used when the Twitter API
// is unavailable.
func MockPosts(ticker string) []models.SocialPost {
	return []models.SocialPost{
		{Text: fmt.Sprintf("$%s looking bullish! 🚀🚀🚀", ticker)},
		{Text: fmt.Sprintf("Just loaded up on more $%s. This is the way!", ticker)},
		{Text: fmt.Sprintf("$%s breaking out! Charts don't lie 📈", ticker)},
	}
}

// MockQuote returns a substitute price quote. Known tickers get their
// fixed reference price, unknown ones a random price in [50, 500).
func MockQuote(ticker string) models.Quote {
	price, ok := mockPrices[ticker]
	if !ok {
		price = 50 + rand.Float64()*450
	}
	change := -5 + rand.Float64()*10
	return models.Quote{
		Ticker:        ticker,
		Price:         round2(price),
		ChangePercent: fmt.Sprintf("%+.2f%%", change),
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
