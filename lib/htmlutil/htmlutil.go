// Package htmlutil holds small page-level helpers shared by the scraping
// client and the CLI.
package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

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

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CollapseText flattens the whitespace and strips the control runes that
// vendor pages love to sprinkle into visible text.
func CollapseText(s string) string {
	printable := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			printable.WriteRune(c)
		}
	}
	collapsed := innerWhitespace.ReplaceAllString(printable.String(), " ")
	return strings.Trim(collapsed, " \t\n")
}

// PageTitle pulls the <title> out of a page body for log/diagnostic output.
// Unparseable or title-less documents yield "".
func PageTitle(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return CollapseText(doc.Find("title").First().Text())
}
