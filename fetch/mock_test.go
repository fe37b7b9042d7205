package fetch

import (
	"regexp"
	"strings"
	"testing"
)

func TestMockNewsShape(t *testing.T) {
	news := MockNews("TSLA")
	if len(news) != 5 {
		t.Fatalf("expected 5 headlines, got %d", len(news))
	}
	for _, n := range news {
		if !strings.Contains(n.Title, "TSLA") {
			t.Errorf("headline missing ticker: %q", n.Title)
		}
		if n.Source == "" {
			t.Error("headline missing source")
		}
	}
}

func TestMockPostsShape(t *testing.T) {
	posts := MockPosts("GME")
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	for _, p := range posts {
		if !strings.Contains(p.Text, "$GME") {
			t.Errorf("post missing cashtag: %q", p.Text)
		}
	}
}

func TestMockQuoteKnownTicker(t *testing.T) {
	quote := MockQuote("TSLA")
	if quote.Price != 248.32 {
		t.Errorf("expected reference price 248.32, got %v", quote.Price)
	}
	if quote.Ticker != "TSLA" {
		t.Errorf("expected ticker TSLA, got %s", quote.Ticker)
	}
}

func TestMockQuoteUnknownTicker(t *testing.T) {
	changeFormat := regexp.MustCompile(`^[+-]\d+\.\d{2}%$`)

	for i := 0; i < 20; i++ {
		quote := MockQuote("ZZZZ")
		if quote.Price < 50 || quote.Price >= 500.01 {
			t.Fatalf("price %v outside plausible band", quote.Price)
		}
		if !changeFormat.MatchString(quote.ChangePercent) {
			t.Fatalf("unexpected change format: %q", quote.ChangePercent)
		}
	}
}
