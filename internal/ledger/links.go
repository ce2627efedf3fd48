package ledger

import (
	"time"

	"newstrack/internal/logger"
	"newstrack/internal/models"
)

// LinkData is the persisted shape of the link ledger.
type LinkData struct {
	LastUpdated string   `json:"last_updated"`
	Links       []string `json:"links"`
}

// LinkLedger tracks which article links have already produced a useful
// analysis. Single-process, single-writer: concurrent runs would race on
// the read-modify-write cycle, which is accepted for this design.
type LinkLedger struct {
	path string
}

func NewLinkLedger(path string) *LinkLedger {
	return &LinkLedger{path: path}
}

// Load returns the persisted link set. A missing or unparsable file means
// "no prior state", never an error.
func (l *LinkLedger) Load() LinkData {
	var data LinkData
	if err := readJSON(l.path, &data); err != nil {
		logger.Log.Debugf("links: starting fresh: %v", err)
		return LinkData{
			LastUpdated: time.Now().UTC().Format(time.RFC3339),
			Links:       []string{},
		}
	}
	if data.Links == nil {
		data.Links = []string{}
	}
	return data
}

// FilterUnseen drops every item whose link is already in the ledger.
func (l *LinkLedger) FilterUnseen(items []models.NewsItem) []models.NewsItem {
	seen := make(map[string]bool, len(items))
	for _, link := range l.Load().Links {
		seen[link] = true
	}

	var unseen []models.NewsItem
	for _, item := range items {
		if seen[item.Link] {
			continue
		}
		unseen = append(unseen, item)
	}
	return unseen
}

// MarkAnalyzed adds new unique links, stamps last_updated and persists the
// whole document atomically. Links are never removed.
func (l *LinkLedger) MarkAnalyzed(links []string) error {
	if len(links) == 0 {
		return nil
	}

	data := l.Load()
	existing := make(map[string]bool, len(data.Links))
	for _, link := range data.Links {
		existing[link] = true
	}
	for _, link := range links {
		if link == "" || existing[link] {
			continue
		}
		data.Links = append(data.Links, link)
		existing[link] = true
	}
	data.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	return writeJSONAtomic(l.path, data)
}
