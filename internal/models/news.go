package models

// NewsItem is one fetched article. Immutable once built by the feed layer.
type NewsItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"`
	PubDate string `json:"pub_date"`
	Author  string `json:"author"`
	Link    string `json:"link"`
}

// StockImpact is one per-stock judgement inside an analysis.
type StockImpact struct {
	Stock  string `json:"stock"`
	Impact string `json:"impact"`
	Reason string `json:"reason"`
}

// AnalysisResult is the model's structured answer for one article.
// Summary is always set; Analysis may be empty when no stock impact was
// identified or when the response could not be parsed.
type AnalysisResult struct {
	Summary  string        `json:"summary"`
	Analysis []StockImpact `json:"analysis"`
}

// Placeholder summaries used for degraded results.
const (
	SummaryParseFailed = "解析失败"
	SummaryAPIFailed   = "API调用失败"
)

// ParseFailed returns the degraded result for an unparsable model reply.
func ParseFailed() AnalysisResult {
	return AnalysisResult{Summary: SummaryParseFailed, Analysis: []StockImpact{}}
}

// APIFailed returns the degraded result for a failed chat-completion call.
func APIFailed() AnalysisResult {
	return AnalysisResult{Summary: SummaryAPIFailed, Analysis: []StockImpact{}}
}

// HasImpact reports whether the analysis named at least one stock.
func (r AnalysisResult) HasImpact() bool {
	return len(r.Analysis) > 0
}

// AnalysisRecord pairs an article with its analysis. AnalyzedAt is a
// local "2006-01-02 15:04:05" timestamp set when the record is built.
type AnalysisRecord struct {
	News       NewsItem       `json:"news"`
	Analysis   AnalysisResult `json:"analysis"`
	AnalyzedAt string         `json:"analyzed_at"`
}
