// Package mail 发送新闻分析日报邮件，纯文本与 HTML 双格式。
package mail

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"newstrack/internal/models"
)

// 一封日报最多带的新闻条数。
const reportLimit = 10

func impactMarker(impact string) string {
	switch impact {
	case "利好":
		return "↑"
	case "利空":
		return "↓"
	}
	return "-"
}

// selectRecent returns the newest records, publication date first.
func selectRecent(records []models.AnalysisRecord) []models.AnalysisRecord {
	sorted := make([]models.AnalysisRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].News.PubDate > sorted[j].News.PubDate
	})
	if len(sorted) > reportLimit {
		sorted = sorted[:reportLimit]
	}
	return sorted
}

// BuildPlainReport renders the text/plain alternative.
func BuildPlainReport(records []models.AnalysisRecord) string {
	recent := selectRecent(records)

	var b strings.Builder
	fmt.Fprintf(&b, "财经新闻分析日报 %s\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&b, "共 %d 条新闻\n\n", len(recent))

	for i, rec := range recent {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec.News.Title)
		fmt.Fprintf(&b, "   时间: %s  来源: %s\n", rec.News.PubDate, rec.News.Source)
		fmt.Fprintf(&b, "   总结: %s\n", rec.Analysis.Summary)
		for _, impact := range rec.Analysis.Analysis {
			fmt.Fprintf(&b, "   %s %s(%s): %s\n",
				impactMarker(impact.Impact), impact.Stock, impact.Impact, impact.Reason)
		}
		if rec.News.Link != "" {
			fmt.Fprintf(&b, "   链接: %s\n", rec.News.Link)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "本报告由 newstrack 自动生成于 %s\n", time.Now().Format("2006-01-02 15:04:05"))
	return b.String()
}

// BuildHTMLReport renders the text/html alternative.
func BuildHTMLReport(records []models.AnalysisRecord) string {
	recent := selectRecent(records)

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8"><title>财经新闻分析日报</title></head><body>`)
	fmt.Fprintf(&b, `<h2>财经新闻分析日报 %s</h2>`, time.Now().Format("2006-01-02"))

	for i, rec := range recent {
		fmt.Fprintf(&b, `<div style="margin-bottom: 18px;">`)
		fmt.Fprintf(&b, `<h3>%d. %s</h3>`, i+1, escapeHTML(rec.News.Title))
		fmt.Fprintf(&b, `<p style="color: #888; font-size: 13px;">%s · %s</p>`,
			escapeHTML(rec.News.PubDate), escapeHTML(rec.News.Source))
		fmt.Fprintf(&b, `<p>%s</p>`, escapeHTML(rec.Analysis.Summary))
		if len(rec.Analysis.Analysis) > 0 {
			b.WriteString(`<ul>`)
			for _, impact := range rec.Analysis.Analysis {
				color := "#c0392b"
				if impact.Impact == "利空" {
					color = "#27ae60"
				}
				fmt.Fprintf(&b, `<li><span style="color: %s;">%s %s(%s)</span> %s</li>`,
					color, impactMarker(impact.Impact), escapeHTML(impact.Stock),
					escapeHTML(impact.Impact), escapeHTML(impact.Reason))
			}
			b.WriteString(`</ul>`)
		}
		if rec.News.Link != "" {
			fmt.Fprintf(&b, `<p><a href="%s">原文链接</a></p>`, rec.News.Link)
		}
		b.WriteString(`</div>`)
	}
	fmt.Fprintf(&b, `<p style="color: #aaa; font-size: 12px;">本报告由 newstrack 自动生成于 %s</p>`,
		time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(`</body></html>`)
	return b.String()
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
