package feed

import (
	"strings"

	"github.com/mmcdole/gofeed"

	"newstrack/internal/logger"
)

var entityFixer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// ParseFeed parses RSS XML. Some upstream feeds carry undefined entities;
// on a parse error the common ones are replaced and parsing is retried once.
func ParseFeed(xmlContent string) (*gofeed.Feed, error) {
	parser := gofeed.NewParser()

	parsed, err := parser.ParseString(xmlContent)
	if err == nil {
		return parsed, nil
	}
	logger.Log.Warnf("feed: parse warning: %v", err)

	fixed, err2 := parser.ParseString(entityFixer.Replace(xmlContent))
	if err2 == nil {
		return fixed, nil
	}
	return nil, err
}
