package fetch

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/go-resty/resty/v2"

	"sentient110/models"
)

// PriceFetcher retrieves a real-time quote from Alpha Vantage.
type PriceFetcher struct {
	client *resty.Client
	apiKey string
}

// NewPriceFetcher creates a price fetcher. An empty apiKey disables the
// live API and forces mock quotes.
func NewPriceFetcher(apiKey string) *PriceFetcher {
	client := resty.New()
	client.SetBaseURL("https://www.alphavantage.co")
	client.SetTimeout(fetchTimeout)

	return &PriceFetcher{
		client: client,
		apiKey: apiKey,
	}
}

// Alpha Vantage numbers its JSON keys.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Price         string `json:"05. price"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// Fetch returns a quote for the ticker, falling back to a mock quote
// on any failure.
func (f *PriceFetcher) Fetch(ctx context.Context, ticker string) models.Quote {
	if f.apiKey == "" {
		return MockQuote(ticker)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "GLOBAL_QUOTE",
			"symbol":   ticker,
			"apikey":   f.apiKey,
		}).
		Get("/query")
	if err != nil {
		log.Printf("Alpha Vantage request failed for %s: %v", ticker, err)
		return MockQuote(ticker)
	}
	if resp.StatusCode() != 200 {
		log.Printf("Alpha Vantage error %d for %s", resp.StatusCode(), ticker)
		return MockQuote(ticker)
	}

	var data globalQuoteResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		log.Printf("Alpha Vantage parse error for %s: %v", ticker, err)
		return MockQuote(ticker)
	}

	price, err := strconv.ParseFloat(data.GlobalQuote.Price, 64)
	if err != nil || price == 0 {
		return MockQuote(ticker)
	}

	change := data.GlobalQuote.ChangePercent
	if change == "" {
		change = "0%"
	}

	return models.Quote{
		Ticker:        ticker,
		Price:         price,
		ChangePercent: change,
	}
}
