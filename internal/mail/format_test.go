package mail

import (
	"fmt"
	"strings"
	"testing"

	"newstrack/internal/models"
)

func record(title, pubDate string, impacts ...models.StockImpact) models.AnalysisRecord {
	return models.AnalysisRecord{
		News: models.NewsItem{
			Title:   title,
			PubDate: pubDate,
			Source:  "财联社",
			Link:    "https://example.com/" + title,
		},
		Analysis: models.AnalysisResult{
			Summary:  "总结: " + title,
			Analysis: impacts,
		},
	}
}

func TestPlainReportOrderAndLimit(t *testing.T) {
	var records []models.AnalysisRecord
	for i := 1; i <= 12; i++ {
		records = append(records, record(
			fmt.Sprintf("新闻%02d", i),
			fmt.Sprintf("2026-03-02 09:%02d:00", i),
		))
	}

	report := BuildPlainReport(records)

	if !strings.Contains(report, "共 10 条新闻") {
		t.Fatalf("report should cap at 10 items:\n%s", report)
	}
	if strings.Contains(report, "新闻01") || strings.Contains(report, "新闻02") {
		t.Fatal("oldest items should be dropped")
	}
	first := strings.Index(report, "新闻12")
	second := strings.Index(report, "新闻11")
	if first < 0 || second < 0 || first > second {
		t.Fatal("items should be newest first")
	}
}

func TestPlainReportImpactMarkers(t *testing.T) {
	report := BuildPlainReport([]models.AnalysisRecord{
		record("降准", "2026-03-02 09:00:00",
			models.StockImpact{Stock: "工商银行(601398)", Impact: "利好", Reason: "资金宽松"},
			models.StockImpact{Stock: "某地产(000002)", Impact: "利空", Reason: "需求走弱"},
		),
	})

	if !strings.Contains(report, "↑ 工商银行(601398)(利好)") {
		t.Errorf("missing bullish marker:\n%s", report)
	}
	if !strings.Contains(report, "↓ 某地产(000002)(利空)") {
		t.Errorf("missing bearish marker:\n%s", report)
	}
}

func TestHTMLReportEscapes(t *testing.T) {
	report := BuildHTMLReport([]models.AnalysisRecord{
		record("重组<预案>", "2026-03-02 09:00:00"),
	})
	if strings.Contains(report, "<预案>") {
		t.Fatal("title not escaped")
	}
	if !strings.Contains(report, "&lt;预案&gt;") {
		t.Fatal("escaped title missing")
	}
}

func TestBuildMessageMultipart(t *testing.T) {
	msg, err := buildMessage("a@example.com", "b@example.com", "日报", "plain body", "<p>html body</p>")
	if err != nil {
		t.Fatal(err)
	}
	text := string(msg)
	if !strings.Contains(text, "Content-Type: multipart/alternative") {
		t.Fatal("missing multipart header")
	}
	if !strings.Contains(text, "plain body") || !strings.Contains(text, "<p>html body</p>") {
		t.Fatal("missing alternative bodies")
	}
}
