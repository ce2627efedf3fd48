package feed

import (
	"newstrack/internal/config"
	"newstrack/internal/logger"
	"newstrack/internal/models"
)

// Source produces a batch of articles. Implementations never return an
// error: a failed cycle is an empty batch, logged where it happened.
type Source interface {
	Collect() []models.NewsItem
}

// Collector is the RSS source: fetch, parse, clean.
type Collector struct {
	fetcher *Fetcher
	feedURL string
}

func NewCollector(cfg *config.Config) *Collector {
	return &Collector{
		fetcher: NewFetcher(),
		feedURL: cfg.FeedURL,
	}
}

// Collect fetches the feed and converts every entry into a NewsItem with
// cleaned content and an extracted source tag.
func (c *Collector) Collect() []models.NewsItem {
	xmlContent := c.fetcher.Fetch(c.feedURL)
	if xmlContent == "" {
		return nil
	}

	parsed, err := ParseFeed(xmlContent)
	if err != nil {
		logger.Log.Errorf("feed: parse failed: %v", err)
		return nil
	}

	items := make([]models.NewsItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		item := models.NewsItem{
			Title:   "无标题",
			PubDate: "未知时间",
			Author:  "未知作者",
			Link:    entry.Link,
		}
		if entry.Title != "" {
			item.Title = entry.Title
		}
		if entry.Published != "" {
			item.PubDate = entry.Published
		}
		if entry.Author != nil && entry.Author.Name != "" {
			item.Author = entry.Author.Name
		}

		clean := CleanHTML(entry.Description)
		item.Source, item.Content = ExtractSource(clean)

		items = append(items, item)
	}

	logger.Log.Infof("feed: collected %d entries from %s", len(items), c.feedURL)
	return items
}
