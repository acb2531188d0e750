package htmlutil

import (
	"bytes"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText returns the concatenation of every text node under node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// GetTextSeparated returns every text node under node joined by separator,
// so text from separate elements (ex. <p> or <br> delimited lines) does not
// run together.
func GetTextSeparated(node *html.Node, separator string) string {
	var parts []string
	collectText(node, &parts)
	return strings.Join(parts, separator)
}

func collectText(node *html.Node, out *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		*out = append(*out, node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		collectText(child, out)
		child = child.NextSibling
	}
}

type Anchor struct {
	Name string
	Url  *url.URL
}

// removeNonPrintable drops control and format characters, whitespace of any
// kind (newlines, tabs, nbsp) becomes a plain space so words stay separated.
func removeNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

// GetAnchors reads the text and href of every <a> in sel, hrefs are resolved
// against base. anchors whose href cannot be parsed are skipped.
func GetAnchors(base *url.URL, sel *goquery.Selection) []Anchor {
	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		link, err := base.Parse(href)
		if err != nil {
			continue
		}

		name := GetText(n)
		name = removeNonPrintable(name)
		name = strings.Join(strings.Fields(name), " ")

		anchors = append(anchors, Anchor{
			Name: name,
			Url:  link,
		})
	}
	return anchors
}
