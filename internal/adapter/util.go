package adapter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobsweep/internal/normalize"
)

// encodedMarkup matches common HTML tags left in text after one parse,
// which means the source entity-encoded its markup.
var encodedMarkup = regexp.MustCompile(`(?i)</?(p|br|b|i|u|em|strong|ul|ol|li|div|span|a|h[1-6]|table|tr|td)(\s[^>]*)?/?>`)

// extractText converts an HTML or HTML-encoded string to plain text with
// whitespace collapsed. The markup is parsed once; only when the resulting
// text still holds HTML tags is it parsed again, so literal text such as
// "<remote>" survives.
func extractText(content string) string {
	text := htmlText(content)
	if encodedMarkup.MatchString(text) {
		text = htmlText(text)
	}
	return strings.Join(strings.Fields(text), " ")
}

func htmlText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	return doc.Text()
}

// snippet turns a description into a bounded plain-text excerpt.
func snippet(description string) string {
	return normalize.Truncate(extractText(description), normalize.SnippetLimit)
}
