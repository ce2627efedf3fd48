package ledger

import (
	"path/filepath"
	"testing"

	"newstrack/internal/models"
)

func analysisRecord(title, analyzedAt string) models.AnalysisRecord {
	return models.AnalysisRecord{
		News:       models.NewsItem{Title: title, Link: "https://example.com/" + title},
		Analysis:   models.AnalysisResult{Summary: "总结", Analysis: []models.StockImpact{}},
		AnalyzedAt: analyzedAt,
	}
}

func TestAppendBatchPrepends(t *testing.T) {
	ledger := NewAnalysisLedger(filepath.Join(t.TempDir(), "news_analysis.json"))

	if err := ledger.AppendBatch([]models.AnalysisRecord{
		analysisRecord("第一批", "2026-03-01 10:00:00"),
	}); err != nil {
		t.Fatal(err)
	}
	if err := ledger.AppendBatch([]models.AnalysisRecord{
		analysisRecord("第二批", "2026-03-02 10:00:00"),
	}); err != nil {
		t.Fatal(err)
	}

	records := ledger.Load()
	if len(records) != 2 {
		t.Fatalf("records = %d", len(records))
	}
	if records[0].News.Title != "第二批" {
		t.Fatalf("newest batch should come first, got %q", records[0].News.Title)
	}
}

func TestAppendBatchEmptyIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news_analysis.json")
	ledger := NewAnalysisLedger(path)

	if err := ledger.AppendBatch(nil); err != nil {
		t.Fatal(err)
	}
	if records := ledger.Load(); len(records) != 0 {
		t.Fatalf("records = %d", len(records))
	}
}

func TestLatestSortsByAnalyzedAt(t *testing.T) {
	ledger := NewAnalysisLedger(filepath.Join(t.TempDir(), "news_analysis.json"))

	// 乱序写入，Latest 要按分析时间倒序返回。
	if err := ledger.Save([]models.AnalysisRecord{
		analysisRecord("旧", "2026-03-01 09:00:00"),
		analysisRecord("新", "2026-03-02 09:00:00"),
		analysisRecord("中", "2026-03-01 18:00:00"),
	}); err != nil {
		t.Fatal(err)
	}

	latest := ledger.Latest(2)
	if len(latest) != 2 {
		t.Fatalf("latest = %d", len(latest))
	}
	if latest[0].News.Title != "新" || latest[1].News.Title != "中" {
		t.Fatalf("order = %q, %q", latest[0].News.Title, latest[1].News.Title)
	}
}
