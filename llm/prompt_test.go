package llm

import (
	"strings"
	"testing"

	"sentient110/models"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
		ok       bool
	}{
		{
			name:     "bare object",
			content:  `{"signal": "BUY"}`,
			expected: `{"signal": "BUY"}`,
			ok:       true,
		},
		{
			name:     "surrounding prose",
			content:  "Here is my analysis:\n{\"signal\": \"HOLD\"}\nLet me know.",
			expected: `{"signal": "HOLD"}`,
			ok:       true,
		},
		{
			name:     "code fence",
			content:  "```json\n{\"signal\": \"SELL\"}\n```",
			expected: `{"signal": "SELL"}`,
			ok:       true,
		},
		{
			name:     "nested object",
			content:  `{"a": {"b": 1}, "c": 2} trailing`,
			expected: `{"a": {"b": 1}, "c": 2}`,
			ok:       true,
		},
		{
			name:     "braces inside strings",
			content:  `{"reasoning": "use {caution} here"}`,
			expected: `{"reasoning": "use {caution} here"}`,
			ok:       true,
		},
		{
			name:    "no object",
			content: "I cannot analyze this ticker.",
			ok:      false,
		},
		{
			name:    "unbalanced",
			content: `{"signal": "BUY"`,
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.content)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFormatAnalysisPrompt(t *testing.T) {
	news := make([]models.NewsItem, 7)
	for i := range news {
		news[i] = models.NewsItem{Title: "headline"}
	}
	posts := make([]models.SocialPost, 7)
	for i := range posts {
		posts[i] = models.SocialPost{Text: "post"}
	}
	quote := models.Quote{Ticker: "TSLA", Price: 248.32, ChangePercent: "+1.20%"}

	prompt := FormatAnalysisPrompt("TSLA", news, posts, quote)

	if !strings.Contains(prompt, "Analyze TSLA stock sentiment") {
		t.Error("prompt missing ticker header")
	}
	if !strings.Contains(prompt, "PRICE: $248.32 (+1.20%)") {
		t.Error("prompt missing price line")
	}
	if got := strings.Count(prompt, "- headline"); got != 5 {
		t.Errorf("expected 5 headlines in prompt, got %d", got)
	}
	if got := strings.Count(prompt, "- post"); got != 5 {
		t.Errorf("expected 5 posts in prompt, got %d", got)
	}
	if !strings.Contains(prompt, `"signal": "BUY" or "SELL" or "HOLD"`) {
		t.Error("prompt missing JSON shape instructions")
	}
}
