package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobcatch"
)

var _ jobcatch.Board = (*PoleEmploi)(nil)

const (
	poleEmploiDetailBase = "http://candidat.pole-emploi.fr/candidat/rechercheoffres/detail/"
	poleEmploiFeedHref   = "./resultats.tableauresultatrechercheoffre:detailOffre/"
)

// PoleEmploi extracts offers from Pôle emploi search result tables and
// offer detail pages.
type PoleEmploi struct {
	salary jobcatch.SalaryParser
}

// NewPoleEmploi creates a PoleEmploi board that parses salaries with p.
func NewPoleEmploi(p jobcatch.SalaryParser) *PoleEmploi {
	return &PoleEmploi{salary: p}
}

// Name returns the source identifier.
func (b *PoleEmploi) Name() string {
	return "poleemploi"
}

// FeedGlob returns the staged feed file pattern.
func (b *PoleEmploi) FeedGlob() string {
	return "*.feed"
}

// OfferKey returns the offer id encoded after "/detail/" in the URL.
func (b *PoleEmploi) OfferKey(rawURL string) (string, bool) {
	_, id, ok := strings.Cut(rawURL, "/detail/")
	if !ok {
		return "", false
	}
	id = strings.Trim(id, "/ ")
	return id, id != ""
}

// DiscoverURLs returns one detail URL per result row linking to an offer.
func (b *PoleEmploi) DiscoverURLs(feed *jobcatch.PageDocument) ([]jobcatch.FeedLink, error) {
	doc, err := newDocument(feed.Content)
	if err != nil {
		return nil, err
	}

	rows := doc.Find("tr")
	if rows.Length() == 0 {
		if rows, err = tableRows(feed.Content); err != nil {
			return nil, err
		}
	}

	links := newLinkCollector(feed.SourceFeedID)
	rows.Each(func(_ int, row *goquery.Selection) {
		row.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			id, ok := strings.CutPrefix(href, poleEmploiFeedHref)
			if !ok || id == "" {
				return true
			}
			links.add(poleEmploiDetailBase + id)
			return false
		})
	})
	return links.links, nil
}

// ExtractOffer reads an offer detail page.
func (b *PoleEmploi) ExtractOffer(page *jobcatch.PageDocument) (jobcatch.RawFields, error) {
	doc, err := newDocument(page.Content)
	if err != nil {
		return jobcatch.RawFields{}, err
	}

	content := doc.Find("div.block-content").First()
	if content.Length() == 0 {
		return jobcatch.RawFields{}, &jobcatch.ExtractionFailure{URL: page.URL, Reason: "content block not found", Disable: true}
	}

	title := content.Find(`h4[itemprop="title"]`).First()
	if title.Length() == 0 {
		return jobcatch.RawFields{}, &jobcatch.ExtractionFailure{URL: page.URL, Reason: "title not found"}
	}

	v := pageValues(page)
	v[jobcatch.FieldTitle] = SelectionText(title)
	if id, ok := b.OfferKey(page.URL); ok {
		v[jobcatch.FieldOfferID] = id
	}

	primary := NewFieldSet(content.Find("li.primary").First())
	v[jobcatch.FieldRef], _ = primary.Get("Numéro de l'offre")

	secondaryLi := content.Find("li.secondary").First()
	if secondaryLi.Length() == 0 {
		return jobcatch.RawFields{}, &jobcatch.ExtractionFailure{URL: page.URL, Reason: "secondary section not found"}
	}
	v[jobcatch.FieldDatePublished], _ = NewFieldSet(secondaryLi).Get("Offre actualisée le")

	item := NewFieldSet(content)
	v[jobcatch.FieldContract], _ = item.Get("Type de contrat")
	salaryText, _ := item.Get("Salaire indicatif")
	v[jobcatch.FieldSalary] = salaryText

	region := content.Find(`li[itemprop="addressRegion"]`).First()
	if region.Length() == 0 {
		return jobcatch.RawFields{}, &jobcatch.ExtractionFailure{URL: page.URL, Reason: "region section not found"}
	}
	v[jobcatch.FieldLocation] = SelectionText(region)

	v[jobcatch.FieldCompany] = SelectionText(content.Find(`[itemprop="hiringOrganization"]`).First())
	v[jobcatch.FieldDescription] = outerHTML(content.Find(`[itemprop="description"]`))

	return jobcatch.NewRawFields(v, b.salary.Parse(salaryText)), nil
}
