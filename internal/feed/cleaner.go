package feed

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
)

// DefaultSource is used when no attribution marker is found in the text.
const DefaultSource = "财联社"

var (
	// 财联社 attribution marker, e.g. "财联社6月12日讯" or "财联社电".
	sourcePattern     = regexp.MustCompile(`财联社(\d+月\d+日)?[讯电]`)
	leadSourcePattern = regexp.MustCompile(`^财联社.*?[讯电]`)

	tagPattern       = regexp.MustCompile(`<[^>]+>`)
	spacePattern     = regexp.MustCompile(`\s+`)
	blankLinePattern = regexp.MustCompile(`\n\s*\n`)
)

var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "table": true, "tr": true,
	"blockquote": true, "pre": true,
}

// CleanHTML strips an HTML fragment down to readable plain text: entities
// decoded, non-textual elements removed, block boundaries turned into
// newlines, whitespace collapsed. A parse failure falls back to a regex
// tag stripper instead of returning an error.
func CleanHTML(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}

	decoded := html.UnescapeString(rawHTML)
	// &nbsp; decodes to U+00A0, which \s does not match.
	decoded = strings.ReplaceAll(decoded, " ", " ")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(decoded))
	if err != nil {
		return strings.TrimSpace(tagPattern.ReplaceAllString(decoded, ""))
	}

	doc.Find("script, style, img, a, br, iframe, object").Remove()

	var b strings.Builder
	for _, node := range doc.Nodes {
		blockText(node, &b)
	}

	text := blankLinePattern.ReplaceAllString(b.String(), "\n")
	text = spacePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// blockText writes the tree's text content with newline separators at
// block-element boundaries, so sibling paragraphs stay word-separated
// after the whitespace collapse.
func blockText(n *xhtml.Node, b *strings.Builder) {
	if n.Type == xhtml.TextNode {
		b.WriteString(n.Data)
		return
	}
	isBlock := n.Type == xhtml.ElementNode && blockTags[n.Data]
	if isBlock {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		blockText(c, b)
	}
	if isBlock {
		b.WriteString("\n")
	}
}

// ExtractSource pulls the leading attribution token out of cleaned text.
// It returns the source tag (DefaultSource when absent) and the content
// with the attribution prefix stripped.
func ExtractSource(cleanText string) (source, content string) {
	source = DefaultSource
	if match := sourcePattern.FindString(cleanText); match != "" {
		source = match
	}
	content = strings.TrimSpace(leadSourcePattern.ReplaceAllString(cleanText, ""))
	return source, content
}
