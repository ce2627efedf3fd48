// Package chat 通过本地机器人桥接服务推送新闻分析摘要。
package chat

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"newstrack/internal/models"
)

// 推送一次最多带的新闻条数。
const pushLimit = 10

// 订阅源时间多为 GMT，转到北京时间展示。
const beijingOffset = 8 * time.Hour

func impactEmoji(impact string) string {
	switch impact {
	case "利好":
		return "🔴"
	case "利空":
		return "🟢"
	}
	return "⚪"
}

// toBeijingTime converts an RFC1123-style publication date to a
// Beijing local timestamp, passing unparseable values through as-is.
func toBeijingTime(pubDate string) string {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123} {
		if ts, err := time.Parse(layout, pubDate); err == nil {
			return ts.Add(beijingOffset).Format("2006-01-02 15:04")
		}
	}
	return pubDate
}

// BuildDigest renders the chat message body.
func BuildDigest(records []models.AnalysisRecord) string {
	sorted := make([]models.AnalysisRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].News.PubDate > sorted[j].News.PubDate
	})
	if len(sorted) > pushLimit {
		sorted = sorted[:pushLimit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📰 财经新闻分析 %s\n\n", time.Now().Format("01-02 15:04"))

	for i, rec := range sorted {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec.News.Title)
		fmt.Fprintf(&b, "⏰ %s\n", toBeijingTime(rec.News.PubDate))
		fmt.Fprintf(&b, "📋 %s\n", rec.Analysis.Summary)
		for _, impact := range rec.Analysis.Analysis {
			fmt.Fprintf(&b, "%s %s: %s\n", impactEmoji(impact.Impact), impact.Stock, impact.Reason)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "🤖 newstrack %s", time.Now().Format("15:04:05"))
	return b.String()
}
