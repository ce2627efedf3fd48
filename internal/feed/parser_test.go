package feed

import (
	"strings"
	"testing"
)

func TestParseFeed(t *testing.T) {
	feed, err := ParseFeed(sampleRSS)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed.Items) != 1 {
		t.Fatalf("items = %d", len(feed.Items))
	}
	if feed.Items[0].Title != "央行宣布降准" {
		t.Fatalf("title = %q", feed.Items[0].Title)
	}
}

func TestParseFeedFixesUndefinedEntities(t *testing.T) {
	// &nbsp; 不是 XML 预定义实体，直接解析会失败，替换修复后应能解析。
	broken := strings.Replace(sampleRSS, "央行宣布降准", "央行&nbsp;宣布降准", 1)

	feed, err := ParseFeed(broken)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed.Items) != 1 {
		t.Fatalf("items = %d", len(feed.Items))
	}
	if feed.Items[0].Title != "央行 宣布降准" {
		t.Fatalf("title = %q", feed.Items[0].Title)
	}
}
