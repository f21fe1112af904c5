package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText returns s in NFC form with runs of whitespace, including
// non-breaking spaces, collapsed to one space and the ends trimmed.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// SelectionText returns the normalized text content of a selection.
func SelectionText(sel *goquery.Selection) string {
	return strings.Join(Tokens(sel.Nodes...), " ")
}

// Tokens flattens nodes into normalized text tokens. Every element
// boundary and line break ends the current token, so text from sibling
// elements never runs together. Script and style content is skipped and
// empty tokens are dropped.
func Tokens(nodes ...*html.Node) []string {
	toks := tokenize(nodes...)
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.text)
	}
	return out
}

// token is a run of text along with the last text node it was built from.
type token struct {
	text string
	last *html.Node
}

func tokenize(nodes ...*html.Node) []token {
	var (
		tokens []token
		buf    strings.Builder
		last   *html.Node
	)
	flush := func() {
		if t := NormalizeText(buf.String()); t != "" {
			tokens = append(tokens, token{text: t, last: last})
		}
		buf.Reset()
		last = nil
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			last = n
			return
		case html.ElementNode:
			if skipElement(n) {
				return
			}
			if n.DataAtom == atom.Br {
				flush()
				return
			}
			flush()
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			flush()
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range nodes {
		walk(n)
	}
	flush()
	return tokens
}

func skipElement(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript:
		return true
	}
	return false
}
