package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"github.com/fwojciec/jobcatch"
)

var _ jobcatch.Board = (*RegionJob)(nil)

const (
	regionJobBase       = "http://www.regionjob.com/"
	regionJobOfferMatch = "clients/offres_chartees/offre_chartee_modele.aspx?numoffre="
)

// RegionJob extracts offers from RegionJob RSS feeds and offer pages.
// Offers are keyed by the reference printed on the page.
type RegionJob struct {
	salary jobcatch.SalaryParser
	base   *url.URL
}

// NewRegionJob creates a RegionJob board that parses salaries with p.
func NewRegionJob(p jobcatch.SalaryParser) *RegionJob {
	base, _ := url.Parse(regionJobBase)
	return &RegionJob{salary: p, base: base}
}

// Name returns the source identifier.
func (b *RegionJob) Name() string {
	return "regionjob"
}

// FeedGlob returns the staged feed file pattern.
func (b *RegionJob) FeedGlob() string {
	return "*.feed"
}

// OfferKey always returns false: the reference is only known after
// extraction.
func (b *RegionJob) OfferKey(string) (string, bool) {
	return "", false
}

// DiscoverURLs returns the offer links of the RSS items in the feed.
func (b *RegionJob) DiscoverURLs(feed *jobcatch.PageDocument) ([]jobcatch.FeedLink, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(feed.Content); err != nil {
		return nil, jobcatch.Errorf(jobcatch.EINVALID, "failed to parse RSS feed: %v", err)
	}

	links := newLinkCollector(feed.SourceFeedID)
	for _, item := range doc.FindElements("//item") {
		link := item.SelectElement("link")
		if link == nil {
			continue
		}
		href := strings.TrimSpace(link.Text())
		if !strings.Contains(href, regionJobOfferMatch) {
			continue
		}
		links.add(absoluteURL(b.base, href))
	}
	return links.links, nil
}

// ExtractOffer reads an offer page.
func (b *RegionJob) ExtractOffer(page *jobcatch.PageDocument) (jobcatch.RawFields, error) {
	doc, err := newDocument(page.Content)
	if err != nil {
		return jobcatch.RawFields{}, err
	}

	content := doc.Find("div#annonce").First()
	if content.Length() == 0 {
		return jobcatch.RawFields{}, &jobcatch.ExtractionFailure{URL: page.URL, Reason: "content block not found", Disable: true}
	}

	title := content.Find("h1").First()
	if title.Length() == 0 {
		return jobcatch.RawFields{}, &jobcatch.ExtractionFailure{URL: page.URL, Reason: "title not found"}
	}

	v := pageValues(page)
	v[jobcatch.FieldTitle] = SelectionText(title)

	dateRef := NewFieldSet(content.Find("p.date_ref").First())
	v[jobcatch.FieldRef], _ = dateRef.Get("Réf")
	v[jobcatch.FieldDatePublished], _ = dateRef.Get("publié le")

	info := NewFieldSet(content.Find("p.contrat_loc").First())
	v[jobcatch.FieldLocation], _ = info.Get("Localisation")
	v[jobcatch.FieldCompany], _ = info.Get("Entreprise")
	v[jobcatch.FieldContract], _ = info.Get("Contrat")

	salaryText := rubric(content, "Salaire")
	v[jobcatch.FieldSalary] = salaryText

	return jobcatch.NewRawFields(v, b.salary.Parse(salaryText)), nil
}

// rubric returns the text of the first plain paragraph following the
// rubric heading named heading.
func rubric(content *goquery.Selection, heading string) string {
	var value string
	content.Find("p.rubrique_annonce").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.EqualFold(SelectionText(h), heading) {
			return true
		}
		value = SelectionText(h.NextAllFiltered("p:not([class])").First())
		return false
	})
	return value
}
