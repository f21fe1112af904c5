package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
)

// FieldSet finds label/value pairs in the text tokens of an HTML fragment.
// A label token yields the text of the node that follows its element, so
// an empty value element never lets the match run on into the next label.
// A token that starts with the label yields its remainder, as in
// "Réf : 1234".
type FieldSet struct {
	tokens []token
	roots  []*html.Node
}

// NewFieldSet returns a FieldSet over the tokens of sel.
// A nil or empty selection yields an empty set.
func NewFieldSet(sel *goquery.Selection) FieldSet {
	if sel == nil {
		return FieldSet{}
	}
	return FieldSet{tokens: tokenize(sel.Nodes...), roots: sel.Nodes}
}

// ParseFieldSet parses an HTML fragment into a FieldSet.
func ParseFieldSet(fragment string) FieldSet {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return FieldSet{}
	}
	return NewFieldSet(doc.Selection)
}

// ExtractField returns the value associated with label in fragment.
func ExtractField(label, fragment string) (string, bool) {
	return ParseFieldSet(fragment).Get(label)
}

// Get returns the value of the first occurrence of label. Matching is
// case-insensitive and whitespace tolerant; a trailing colon after the
// label is optional. Returns false when the label is absent or has no
// value.
func (f FieldSet) Get(label string) (string, bool) {
	label = NormalizeText(label)
	if label == "" {
		return "", false
	}
	fold := cases.Fold()
	want := fold.String(label)
	inline := labelPattern(label)

	for _, tok := range f.tokens {
		bare := strings.TrimSpace(strings.TrimSuffix(tok.text, ":"))
		if fold.String(bare) == want {
			return f.valueAfter(tok.last)
		}
		if m := inline.FindStringSubmatch(tok.text); m != nil {
			v := strings.TrimSpace(m[1] + m[2])
			if v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// Tokens returns a copy of the underlying text tokens.
func (f FieldSet) Tokens() []string {
	out := make([]string, 0, len(f.tokens))
	for _, t := range f.tokens {
		out = append(out, t.text)
	}
	return out
}

// valueAfter returns the first text following the label node n. It looks
// at the siblings of n and then of each ancestor in turn, stopping at the
// set's roots. The first non-blank sibling is the value: an element
// without text means the value is empty.
func (f FieldSet) valueAfter(n *html.Node) (string, bool) {
	for ; n != nil && !f.isRoot(n); n = n.Parent {
		for s := n.NextSibling; s != nil; s = s.NextSibling {
			switch s.Type {
			case html.TextNode:
				if v := NormalizeText(s.Data); v != "" {
					return v, true
				}
			case html.ElementNode:
				if s.DataAtom == atom.Br || skipElement(s) {
					continue
				}
				toks := tokenize(s)
				if len(toks) == 0 {
					return "", false
				}
				return toks[0].text, true
			}
		}
	}
	return "", false
}

func (f FieldSet) isRoot(n *html.Node) bool {
	for _, r := range f.roots {
		if r == n {
			return true
		}
	}
	return false
}

// labelPattern matches a token that starts with label and carries a value
// after a colon or whitespace.
func labelPattern(label string) *regexp.Regexp {
	parts := strings.Fields(label)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	prefix := `(?i)^` + strings.Join(parts, `\s+`)
	return regexp.MustCompile(prefix + `(?:\s*:\s*(.+)|\s+(.+))$`)
}
