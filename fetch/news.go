// Package fetch gathers raw signals (headlines, social posts, price
// quotes) for a ticker from third-party APIs.
//
// Every fetcher follows the same contract: it never fails. A missing
// credential, transport error, non-200 status or unparseable body all
// degrade to a canned substitute so the service stays responsive under
// third-party outages. Each outbound call carries a fixed 8 second
// timeout and is attempted exactly once.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"sentient110/models"
)

const (
	fetchTimeout = 8 * time.Second
	maxNews      = 5
	maxPosts     = 5
)

// NewsFetcher retrieves recent headlines for a ticker from NewsAPI.
type NewsFetcher struct {
	client *resty.Client
	apiKey string
}

// NewNewsFetcher creates a news fetcher. An empty apiKey disables the
// live API and forces mock data.
func NewNewsFetcher(apiKey string) *NewsFetcher {
	client := resty.New()
	client.SetBaseURL("https://newsapi.org/v2")
	client.SetTimeout(fetchTimeout)

	return &NewsFetcher{
		client: client,
		apiKey: apiKey,
	}
}

// newsAPIResponse is the subset of the NewsAPI /everything response we use
type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title  string `json:"title"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Fetch returns up to 5 headlines for the ticker, falling back to mock
// headlines on any failure.
func (f *NewsFetcher) Fetch(ctx context.Context, ticker string) []models.NewsItem {
	if f.apiKey == "" {
		return MockNews(ticker)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        fmt.Sprintf("%s stock", ticker),
			"sortBy":   "publishedAt",
			"pageSize": "5",
			"language": "en",
			"apiKey":   f.apiKey,
		}).
		Get("/everything")
	if err != nil {
		log.Printf("NewsAPI request failed for %s: %v", ticker, err)
		return MockNews(ticker)
	}
	if resp.StatusCode() != 200 {
		log.Printf("NewsAPI error %d for %s", resp.StatusCode(), ticker)
		return MockNews(ticker)
	}

	var data newsAPIResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		log.Printf("NewsAPI parse error for %s: %v", ticker, err)
		return MockNews(ticker)
	}
	if data.Status != "ok" || len(data.Articles) == 0 {
		return MockNews(ticker)
	}

	items := make([]models.NewsItem, 0, maxNews)
	for _, a := range data.Articles {
		if len(items) >= maxNews {
			break
		}
		items = append(items, models.NewsItem{Title: a.Title, Source: a.Source.Name})
	}
	return items
}
