// Package display renders run results for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"newstrack/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(72)

	bullishStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	bearishStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))
)

// RunSummary counts what one pipeline pass did.
type RunSummary struct {
	Fetched  int
	New      int
	Analyzed int
	Impacted int
	Failures int
}

// RenderRunSummary prints the end-of-run box.
func RenderRunSummary(s RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "抓取 %d 条, 新增 %d 条\n", s.Fetched, s.New)
	fmt.Fprintf(&b, "分析 %d 条, 其中 %d 条涉及个股\n", s.Analyzed, s.Impacted)
	if s.Failures > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("失败 %d 条", s.Failures)))
	} else {
		b.WriteString(dimStyle.Render("无失败"))
	}

	return titleStyle.Render("本轮运行结果") + "\n" + boxStyle.Render(b.String())
}

// RenderRecord prints one analysis with colored impact lines.
func RenderRecord(rec models.AnalysisRecord) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(rec.News.Title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(rec.News.PubDate + " · " + rec.News.Source))
	fmt.Fprintf(&b, "\n%s\n", rec.Analysis.Summary)

	for _, impact := range rec.Analysis.Analysis {
		style := bullishStyle
		if impact.Impact == "利空" {
			style = bearishStyle
		}
		fmt.Fprintf(&b, "%s %s\n", style.Render(impact.Impact+" "+impact.Stock), impact.Reason)
	}
	return b.String()
}
