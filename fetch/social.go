package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"

	"sentient110/models"
)

// SocialFetcher retrieves recent posts mentioning a ticker from the
// Twitter recent-search API.
type SocialFetcher struct {
	client      *resty.Client
	bearerToken string
}

// NewSocialFetcher creates a social fetcher. An empty token disables
// the live API and forces mock posts.
func NewSocialFetcher(bearerToken string) *SocialFetcher {
	client := resty.New()
	client.SetBaseURL("https://api.twitter.com/2")
	client.SetTimeout(fetchTimeout)

	return &SocialFetcher{
		client:      client,
		bearerToken: bearerToken,
	}
}

type twitterSearchResponse struct {
	Data []struct {
		Text string `json:"text"`
	} `json:"data"`
}

// Fetch returns up to 5 posts for the ticker, falling back to mock
// posts on any failure.
func (f *SocialFetcher) Fetch(ctx context.Context, ticker string) []models.SocialPost {
	if f.bearerToken == "" {
		return MockPosts(ticker)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetAuthToken(f.bearerToken).
		SetQueryParams(map[string]string{
			"query":        fmt.Sprintf("$%s stock -is:retweet lang:en", ticker),
			"max_results":  "10", // API minimum
			"tweet.fields": "created_at",
		}).
		Get("/tweets/search/recent")
	if err != nil {
		log.Printf("Twitter request failed for %s: %v", ticker, err)
		return MockPosts(ticker)
	}
	if resp.StatusCode() != 200 {
		log.Printf("Twitter error %d for %s", resp.StatusCode(), ticker)
		return MockPosts(ticker)
	}

	var data twitterSearchResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		log.Printf("Twitter parse error for %s: %v", ticker, err)
		return MockPosts(ticker)
	}
	if len(data.Data) == 0 {
		return MockPosts(ticker)
	}

	posts := make([]models.SocialPost, 0, maxPosts)
	for _, t := range data.Data {
		if len(posts) >= maxPosts {
			break
		}
		posts = append(posts, models.SocialPost{Text: t.Text})
	}
	return posts
}
