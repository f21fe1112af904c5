package goquery

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobcatch"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func newDocument(content string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, jobcatch.Errorf(jobcatch.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// tableRows parses content as the body of a table, for feeds made of bare
// <tr> rows that a full document parse would drop.
func tableRows(content string) (*goquery.Selection, error) {
	body := &html.Node{Type: html.ElementNode, Data: "tbody", DataAtom: atom.Tbody}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, jobcatch.Errorf(jobcatch.EINVALID, "failed to parse HTML: %v", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(body).Find("tr"), nil
}

// linkCollector accumulates feed links in document order, dropping repeats.
type linkCollector struct {
	feedID string
	seen   map[string]struct{}
	links  []jobcatch.FeedLink
}

func newLinkCollector(feedID string) *linkCollector {
	return &linkCollector{
		feedID: feedID,
		seen:   make(map[string]struct{}),
		links:  []jobcatch.FeedLink{},
	}
}

func (c *linkCollector) add(u string) {
	if u == "" {
		return
	}
	if _, ok := c.seen[u]; ok {
		return
	}
	c.seen[u] = struct{}{}
	c.links = append(c.links, jobcatch.FeedLink{SourceFeedID: c.feedID, URL: u})
}

// absoluteURL resolves href against base. Returns "" when href is not a
// valid URL reference.
func absoluteURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// pageValues seeds the fields every board copies from the page document.
func pageValues(page *jobcatch.PageDocument) map[string]string {
	v := map[string]string{
		jobcatch.FieldURL:    page.URL,
		jobcatch.FieldFeedID: page.SourceFeedID,
	}
	if !page.FetchedAt.IsZero() {
		v[jobcatch.FieldFetchedAt] = page.FetchedAt.UTC().Format(time.RFC3339)
	}
	return v
}

// outerHTML returns the HTML of the first node of sel, or "".
func outerHTML(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	h, err := goquery.OuterHtml(sel.First())
	if err != nil {
		return ""
	}
	return h
}
