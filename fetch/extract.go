package fetch

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractText parses an HTML document and returns the text of its main
// content: the first <main>, else the first <article>, else <body>, else
// the whole document. Text nodes are trimmed and joined by newlines.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	return mainText(doc), nil
}

func mainText(doc *html.Node) string {
	root := doc
	for _, a := range []atom.Atom{atom.Main, atom.Article, atom.Body} {
		if n := findElement(doc, a); n != nil {
			root = n
			break
		}
	}

	var parts []string
	collectText(root, &parts)
	return strings.Join(parts, "\n")
}

func title(doc *html.Node) string {
	n := findElement(doc, atom.Title)
	if n == nil {
		return ""
	}
	var parts []string
	collectText(n, &parts)
	return strings.Join(parts, " ")
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			*parts = append(*parts, text)
		}
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
			return
		}
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
