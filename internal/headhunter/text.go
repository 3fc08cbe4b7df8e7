package headhunter

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "tr": true, "section": true, "blockquote": true,
}

// inlineText returns the selection text collapsed onto a single line.
func inlineText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// blockText returns the selection text keeping paragraph and list structure.
func blockText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		writeNode(&b, n)
	}

	return normalizeLines(b.String())
}

func htmlToText(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse description: %w", err)
	}

	return blockText(doc.Find("body")), nil
}

func writeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "br":
			b.WriteString("\n")
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteString("\n")
	}
	if n.Type == html.ElementNode && n.Data == "li" {
		b.WriteString("- ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, c)
	}

	if block {
		b.WriteString("\n")
	}
}

// normalizeLines collapses whitespace inside lines and drops empty ones.
func normalizeLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}

		// list marker separated from its paragraph
		if n := len(lines); n > 0 && lines[n-1] == "-" {
			lines[n-1] = "- " + line
			continue
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}

	fmt.Fprintf(b, "**%s:** %s\n", label, value)
}
