package ingest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/jobcatch"
	"github.com/go-playground/validator/v10"
)

// Ensure Builder implements jobcatch.OfferBuilder at compile time.
var _ jobcatch.OfferBuilder = (*Builder)(nil)

// DateLayout is the day/month/year layout of published dates. Day and
// month may be written with or without a leading zero.
const DateLayout = "2/1/2006"

var departmentLocation = regexp.MustCompile(`^([0-9]+) - (.+)$`)

// contractCodes maps the long French contract names to their usual codes.
var contractCodes = []struct {
	prefix *regexp.Regexp
	code   string
}{
	{regexp.MustCompile(`(?i)^contrat à durée indéterminée`), "CDI"},
	{regexp.MustCompile(`(?i)^contrat à durée déterminée`), "CDD"},
	{regexp.MustCompile(`(?i)^contrat de travail temporaire`), "Intérim"},
	{regexp.MustCompile(`(?i)^mission intérimaire`), "Intérim"},
}

// required holds the fields an offer cannot be stored without.
type required struct {
	Key     string `validate:"required"`
	Company string `validate:"required"`
	Title   string `validate:"required"`
	URL     string `validate:"required"`
}

// Builder validates raw fields and canonicalizes them into an Offer.
type Builder struct {
	// Converter renders the description HTML as Markdown. Optional.
	Converter jobcatch.Converter

	// Now stamps DateIngested. Defaults to time.Now.
	Now func() time.Time

	validate *validator.Validate
}

// NewBuilder creates a Builder converting descriptions with conv.
func NewBuilder(conv jobcatch.Converter) *Builder {
	return &Builder{
		Converter: conv,
		Now:       time.Now,
		validate:  validator.New(),
	}
}

// Build returns the offer described by fields, or a *jobcatch.Rejection.
func (b *Builder) Build(fields jobcatch.RawFields, source string) (*jobcatch.Offer, error) {
	offer := &jobcatch.Offer{
		Source:   source,
		OfferID:  fields.Value(jobcatch.FieldOfferID),
		Ref:      fields.Value(jobcatch.FieldRef),
		FeedID:   fields.Value(jobcatch.FieldFeedID),
		URL:      fields.Value(jobcatch.FieldURL),
		Title:    fields.Value(jobcatch.FieldTitle),
		Company:  fields.Value(jobcatch.FieldCompany),
		Contract: canonicalContract(fields.Value(jobcatch.FieldContract)),
		Salary:   fields.Salary,
		State:    jobcatch.StateActive,
	}

	if err := b.check(offer); err != nil {
		return nil, err
	}

	published, ok := fields.Get(jobcatch.FieldDatePublished)
	if !ok {
		return nil, &jobcatch.Rejection{Reason: "missing datePublished"}
	}
	date, err := time.ParseInLocation(DateLayout, published, time.UTC)
	if err != nil {
		return nil, &jobcatch.Rejection{Reason: fmt.Sprintf("unparseable datePublished %q", published)}
	}
	offer.DatePublished = date

	offer.Department, offer.Location = splitLocation(fields.Value(jobcatch.FieldLocation))

	if raw, ok := fields.Get(jobcatch.FieldSalary); ok {
		offer.SalaryRaw = &raw
	}

	if desc, ok := fields.Get(jobcatch.FieldDescription); ok {
		offer.Description = b.describe(desc)
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	offer.DateIngested = now().UTC().Truncate(time.Second)

	offer.LastUpdate = offer.DateIngested
	if fetched, ok := fields.Get(jobcatch.FieldFetchedAt); ok {
		if t, err := time.Parse(time.RFC3339, fetched); err == nil {
			offer.LastUpdate = t.UTC()
		}
	}

	return offer, nil
}

// check rejects offers lacking a key, company, title or url.
func (b *Builder) check(offer *jobcatch.Offer) error {
	v := b.validate
	if v == nil {
		v = validator.New()
	}

	err := v.Struct(required{
		Key:     offer.Key(),
		Company: offer.Company,
		Title:   offer.Title,
		URL:     offer.URL,
	})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &jobcatch.Rejection{Reason: err.Error()}
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return &jobcatch.Rejection{Reason: "missing " + strings.Join(missing, ", ")}
}

func (b *Builder) describe(html string) string {
	if b.Converter == nil {
		return html
	}
	md, err := b.Converter.Convert(html)
	if err != nil {
		return ""
	}
	return md
}

// splitLocation splits "34 - MONTPELLIER" into department and location.
// Other values are returned verbatim with a nil department.
func splitLocation(location string) (*string, string) {
	m := departmentLocation.FindStringSubmatch(location)
	if m == nil {
		return nil, location
	}
	dept := m[1]
	return &dept, strings.TrimSpace(m[2])
}

// canonicalContract replaces a long contract name with its code, keeping
// any trailing detail: "Contrat à durée déterminée - 6 Mois" becomes
// "CDD - 6 Mois".
func canonicalContract(contract string) string {
	for _, c := range contractCodes {
		if loc := c.prefix.FindStringIndex(contract); loc != nil {
			return c.code + contract[loc[1]:]
		}
	}
	return contract
}
