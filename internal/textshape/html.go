// Package textshape turns backend rich text into display-ready plain text.
package textshape

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML returns the text content of the body of an HTML fragment, concatenating every text
// node in document order. Malformed markup is parsed best-effort; when no text can be derived the
// result is the empty string.
func StripHTML(markup string) string {
	if markup == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}

	var sb strings.Builder
	collectText(root, &sb)
	return sb.String()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
