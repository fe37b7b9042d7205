package llm

import (
	"fmt"
	"strings"

	"sentient110/models"
)

const (
	maxPromptHeadlines = 5
	maxPromptPosts     = 5
)

// FormatAnalysisPrompt builds the single-shot sentiment prompt for a
// ticker: price snapshot, up to 5 headlines, up to 5 posts, and the
// required JSON reply shape.
func FormatAnalysisPrompt(ticker string, news []models.NewsItem, posts []models.SocialPost, quote models.Quote) string {
	var sb strings.Builder
	sb.Grow(512 + len(news)*100 + len(posts)*100)

	sb.WriteString(fmt.Sprintf("Analyze %s stock sentiment:\n\n", ticker))
	sb.WriteString(fmt.Sprintf("PRICE: $%.2f (%s)\n\n", quote.Price, quote.ChangePercent))

	sb.WriteString("NEWS:\n")
	for i, n := range news {
		if i >= maxPromptHeadlines {
			break
		}
		sb.WriteString(fmt.Sprintf("- %s\n", n.Title))
	}

	sb.WriteString("\nSOCIAL:\n")
	for i, p := range posts {
		if i >= maxPromptPosts {
			break
		}
		sb.WriteString(fmt.Sprintf("- %s\n", p.Text))
	}

	sb.WriteString("\nRespond in JSON only:\n")
	sb.WriteString(`{"signal": "BUY" or "SELL" or "HOLD", "confidence": 60-95, "reasoning": "2-3 sentences", "key_insights": ["insight1", "insight2", "insight3"]}`)

	return sb.String()
}

// ExtractJSON returns the first balanced {...} substring of an LLM
// reply, stripping any surrounding prose or code fences. Returns false
// when no balanced object exists.
func ExtractJSON(content string) (string, bool) {
	start := strings.Index(content, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return content[start : i+1], true
				}
			}
		}
	}
	return "", false
}
