// Package analysis turns fetched signals into a BUY/SELL/HOLD verdict
// and orchestrates the full per-ticker analysis flow.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sentient110/llm"
	"sentient110/models"
)

// classifyTimeout bounds a single classification call against the LLM.
const classifyTimeout = 10 * time.Second

// Confidence bounds for any verdict returned to callers. Model replies
// outside this range are clamped.
const (
	minConfidence = 50
	maxConfidence = 100
)

// Strategy classifies fetched text into a Verdict. Implementations:
// LLMStrategy (hosted model) and KeywordStrategy (deterministic
// heuristic). The orchestrator tries the primary strategy and falls
// back to the heuristic on any error.
type Strategy interface {
	Classify(ctx context.Context, ticker string, news []models.NewsItem, posts []models.SocialPost, quote models.Quote) (*models.Verdict, error)
}

// LLMStrategy delegates classification to an OpenAI-compatible model.
type LLMStrategy struct {
	client *llm.Client
}

// NewLLMStrategy creates an LLM-backed strategy.
func NewLLMStrategy(client *llm.Client) *LLMStrategy {
	return &LLMStrategy{client: client}
}

// Classify prompts the model and parses the first balanced JSON object
// of its reply into a Verdict.
func (s *LLMStrategy) Classify(ctx context.Context, ticker string, news []models.NewsItem, posts []models.SocialPost, quote models.Quote) (*models.Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	prompt := llm.FormatAnalysisPrompt(ticker, news, posts, quote)

	content, err := s.client.ChatCompletion(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	raw, ok := llm.ExtractJSON(content)
	if !ok {
		return nil, fmt.Errorf("no JSON object in LLM reply")
	}

	var verdict models.Verdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse LLM verdict: %w", err)
	}

	switch verdict.Signal {
	case models.SignalBuy, models.SignalSell, models.SignalHold:
	default:
		return nil, fmt.Errorf("invalid signal %q in LLM verdict", verdict.Signal)
	}

	if verdict.Confidence < minConfidence {
		verdict.Confidence = minConfidence
	}
	if verdict.Confidence > maxConfidence {
		verdict.Confidence = maxConfidence
	}
	if verdict.Reasoning == "" {
		verdict.Reasoning = "Analysis complete."
	}
	if len(verdict.Insights) == 0 {
		verdict.Insights = []string{"Analysis complete"}
	}

	return &verdict, nil
}

// Keyword vocabularies for the deterministic fallback.
var (
	bullishWords = []string{"bullish", "up", "growth", "beat", "strong", "rally", "gain", "upgrade"}
	bearishWords = []string{"bearish", "down", "decline", "miss", "weak", "crash", "downgrade"}
)

// Fallback confidence bands per signal.
var fallbackConfidence = map[string][2]int{
	models.SignalBuy:  {72, 92},
	models.SignalSell: {65, 85},
	models.SignalHold: {55, 70},
}

// KeywordStrategy is the deterministic fallback classifier. The signal
// depends only on the input text; the confidence draw comes from the
// injected randomness source.
type KeywordStrategy struct {
	rng *Rand
}

// NewKeywordStrategy creates the fallback strategy.
func NewKeywordStrategy(rng *Rand) *KeywordStrategy {
	return &KeywordStrategy{rng: rng}
}

// Classify counts bullish and bearish vocabulary in the combined text.
// More bullish hits gives BUY, more bearish gives SELL, a tie (which
// includes empty input) gives HOLD.
func (s *KeywordStrategy) Classify(_ context.Context, ticker string, news []models.NewsItem, posts []models.SocialPost, _ models.Quote) (*models.Verdict, error) {
	var sb strings.Builder
	for _, n := range news {
		sb.WriteString(n.Title)
		sb.WriteString(" ")
	}
	for _, p := range posts {
		sb.WriteString(p.Text)
		sb.WriteString(" ")
	}
	text := strings.ToLower(sb.String())

	var pos, neg int
	for _, w := range bullishWords {
		if strings.Contains(text, w) {
			pos++
		}
	}
	for _, w := range bearishWords {
		if strings.Contains(text, w) {
			neg++
		}
	}

	var signal string
	switch {
	case pos > neg:
		signal = models.SignalBuy
	case neg > pos:
		signal = models.SignalSell
	default:
		signal = models.SignalHold
	}

	band := fallbackConfidence[signal]

	return &models.Verdict{
		Signal:     signal,
		Confidence: s.rng.IntRange(band[0], band[1]),
		Reasoning:  fallbackReasoning(ticker, signal),
		Insights:   fallbackInsights(signal),
	}, nil
}

func fallbackReasoning(ticker, signal string) string {
	switch signal {
	case models.SignalBuy:
		return fmt.Sprintf("Bullish sentiment detected across news sources for %s.", ticker)
	case models.SignalSell:
		return fmt.Sprintf("Bearish signals detected in market coverage for %s.", ticker)
	default:
		return fmt.Sprintf("Mixed signals for %s. Recommend waiting for clearer direction.", ticker)
	}
}

func fallbackInsights(signal string) []string {
	switch signal {
	case models.SignalBuy:
		return []string{"✅ Positive analyst sentiment", "📈 Strong momentum indicators", "🔥 High social engagement"}
	case models.SignalSell:
		return []string{"⚠️ Negative sentiment trend", "📉 Declining momentum", "❌ Weak fundamentals"}
	default:
		return []string{"⏸️ Mixed sentiment", "📊 Consolidation phase", "🔄 Wait for breakout"}
	}
}
