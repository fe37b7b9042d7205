// Package models defines the shared data types for the sentient110
// sentiment analysis service.
//
// All types are plain value objects passed between the fetchers, the
// classifier, the orchestrator and the HTTP layer. AnalysisResult is
// immutable after assembly; copies of it live in the result cache and
// (partially) in the verification ledger.
package models

// Trading signal values produced by the classifier.
const (
	SignalBuy  = "BUY"
	SignalSell = "SELL"
	SignalHold = "HOLD"
)

// Quote holds a price snapshot for a single ticker.
type Quote struct {
	Ticker        string  `json:"ticker"`
	Price         float64 `json:"price"`
	ChangePercent string  `json:"change_percent"`
}

// NewsItem is a single news headline with its publisher name.
type NewsItem struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

// SocialPost is a single social media post.
type SocialPost struct {
	Text string `json:"text"`
}

// Verdict is the raw classifier output before the orchestrator adds
// its bookkeeping fields.
type Verdict struct {
	Signal     string   `json:"signal"`
	Confidence int      `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	Insights   []string `json:"key_insights"`
}

// SourceBreakdown reports per-source sentiment percentages.
type SourceBreakdown struct {
	News    int `json:"news"`
	Twitter int `json:"twitter"`
	Reddit  int `json:"reddit"`
}

// AnalysisResult is the full response payload for one analyze call.
type AnalysisResult struct {
	Ticker          string          `json:"ticker"`
	Signal          string          `json:"signal"`
	Confidence      int             `json:"confidence"`
	Reasoning       string          `json:"reasoning"`
	SentimentScore  float64         `json:"sentiment_score"`
	SourcesAnalyzed int             `json:"sources_analyzed"`
	Timestamp       string          `json:"timestamp"`
	Price           float64         `json:"price"`
	PriceChange     string          `json:"price_change"`
	SourceBreakdown SourceBreakdown `json:"source_breakdown"`
	Insights        []string        `json:"insights"`
	NewsHeadlines   []string        `json:"news_headlines"`
	UsingRealData   bool            `json:"using_real_data"`
}

// TrendingEntry is one row of the static trending list.
type TrendingEntry struct {
	Ticker     string  `json:"ticker"`
	Signal     string  `json:"signal"`
	Confidence int     `json:"confidence"`
	Price      float64 `json:"price"`
}

// PredictionRecord is one verified prediction stored in the ledger,
// keyed by its deterministic transaction hash. Records are append-only.
type PredictionRecord struct {
	TxHash     string `json:"tx_hash" gorm:"column:tx_hash;primaryKey"`
	Ticker     string `json:"ticker" gorm:"column:ticker;index"`
	Signal     string `json:"signal" gorm:"column:signal"`
	Confidence int    `json:"confidence" gorm:"column:confidence"`
	Timestamp  string `json:"timestamp" gorm:"column:timestamp"`
}

// TableName overrides the GORM table name for prediction records.
func (PredictionRecord) TableName() string {
	return "predictions"
}
