package wiki

import (
	"mountscraper/lib/textutil"
	"mountscraper/pkg/htmlutil"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// quotes on item pages end with an attribution line like
// "— In-game description".
var attributionRegex = regexp.MustCompile(`(?is)—\s*In-game description.*$`)

// ParseDescription returns the cleaned text of the first quote block on a
// detail page without its attribution, or an empty string if there is none.
func ParseDescription(doc *goquery.Selection) string {
	quote := doc.Find("blockquote").First()
	if quote.Length() == 0 {
		return ""
	}
	text := htmlutil.GetTextSeparated(quote.Nodes[0], "\n")
	text = attributionRegex.ReplaceAllString(text, "")
	return textutil.Clean(text)
}
