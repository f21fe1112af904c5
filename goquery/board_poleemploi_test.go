package goquery_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/jobcatch"
	"github.com/fwojciec/jobcatch/goquery"
	"github.com/fwojciec/jobcatch/mock"
	"github.com/fwojciec/jobcatch/salary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poleEmploiFeed = `<!DOCTYPE html>
<html><body>
<table class="definition-table">
<thead><tr><th>Intitulé</th><th>Lieu</th></tr></thead>
<tbody>
<tr>
	<td><a href="./resultats.tableauresultatrechercheoffre:detailOffre/012345A">Développeur Go</a></td>
	<td>34 - MONTPELLIER</td>
</tr>
<tr>
	<td><a href="http://www.pole-emploi.fr/aide">Aide</a></td>
</tr>
<tr>
	<td><a href="./resultats.tableauresultatrechercheoffre:detailOffre/067890B">Administrateur système</a></td>
	<td>75 - PARIS</td>
</tr>
<tr>
	<td><a href="./resultats.tableauresultatrechercheoffre:detailOffre/012345A">Développeur Go</a></td>
</tr>
</tbody>
</table>
</body></html>`

const poleEmploiPage = `<!DOCTYPE html>
<html><body>
<div class="block-content">
	<h4 itemprop="title">Développeur   Go (H/F)</h4>
	<ul>
		<li class="primary">
			<div class="label"><span>Numéro de l'offre</span></div>
			<div class="value"><span>012345A</span></div>
		</li>
		<li class="secondary">
			<div class="label"><span>Offre actualisée le</span></div>
			<div class="value"><span>12/03/2014</span></div>
		</li>
		<li itemprop="addressRegion">34 - MONTPELLIER</li>
	</ul>
	<div class="label"><span>Type de contrat</span></div>
	<div class="value"><span itemprop="employmentType">CDI</span></div>
	<div class="label"><span>Salaire indicatif</span></div>
	<div class="value"><span>Mensuel de 1 800,00 à 2 200,00 euros sur 12 mois + primes</span></div>
	<p itemprop="hiringOrganization">ACME Logiciels</p>
	<p itemprop="description">Vous développerez des <b>services</b>.</p>
</div>
</body></html>`

func TestPoleEmploi_Name(t *testing.T) {
	t.Parallel()

	b := goquery.NewPoleEmploi(salary.NewParser())
	assert.Equal(t, "poleemploi", b.Name())
	assert.Equal(t, "*.feed", b.FeedGlob())
}

func TestPoleEmploi_OfferKey(t *testing.T) {
	t.Parallel()

	b := goquery.NewPoleEmploi(salary.NewParser())

	key, ok := b.OfferKey("http://candidat.pole-emploi.fr/candidat/rechercheoffres/detail/012345A")
	assert.True(t, ok)
	assert.Equal(t, "012345A", key)

	_, ok = b.OfferKey("http://candidat.pole-emploi.fr/candidat/rechercheoffres/detail/")
	assert.False(t, ok)

	_, ok = b.OfferKey("http://example.com/offer/1")
	assert.False(t, ok)
}

func TestPoleEmploi_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("returns offer links in order without repeats", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewPoleEmploi(salary.NewParser())

		links, err := b.DiscoverURLs(&jobcatch.PageDocument{Content: poleEmploiFeed, SourceFeedID: "montpellier"})

		require.NoError(t, err)
		assert.Equal(t, []jobcatch.FeedLink{
			{SourceFeedID: "montpellier", URL: "http://candidat.pole-emploi.fr/candidat/rechercheoffres/detail/012345A"},
			{SourceFeedID: "montpellier", URL: "http://candidat.pole-emploi.fr/candidat/rechercheoffres/detail/067890B"},
		}, links)
	})

	t.Run("bare rows without a table", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewPoleEmploi(salary.NewParser())
		feed := `<tr><td><a href="./resultats.tableauresultatrechercheoffre:detailOffre/012345A">Développeur Go</a></td></tr>
<tr><td><a href="./resultats.tableauresultatrechercheoffre:detailOffre/067890B">Administrateur</a></td></tr>`

		links, err := b.DiscoverURLs(&jobcatch.PageDocument{Content: feed, SourceFeedID: "montpellier"})

		require.NoError(t, err)
		assert.Equal(t, []jobcatch.FeedLink{
			{SourceFeedID: "montpellier", URL: "http://candidat.pole-emploi.fr/candidat/rechercheoffres/detail/012345A"},
			{SourceFeedID: "montpellier", URL: "http://candidat.pole-emploi.fr/candidat/rechercheoffres/detail/067890B"},
		}, links)
	})

	t.Run("empty feed yields empty result", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewPoleEmploi(salary.NewParser())

		links, err := b.DiscoverURLs(&jobcatch.PageDocument{Content: `<html><body><p>Aucune offre</p></body></html>`})

		require.NoError(t, err)
		assert.NotNil(t, links)
		assert.Empty(t, links)
	})
}

func TestPoleEmploi_ExtractOffer(t *testing.T) {
	t.Parallel()

	const pageURL = "http://candidat.pole-emploi.fr/candidat/rechercheoffres/detail/012345A"
	fetched := time.Date(2014, 3, 13, 8, 30, 0, 0, time.UTC)

	t.Run("extracts all fields", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewPoleEmploi(salary.NewParser())

		fields, err := b.ExtractOffer(&jobcatch.PageDocument{
			URL:          pageURL,
			Content:      poleEmploiPage,
			SourceFeedID: "montpellier",
			FetchedAt:    fetched,
		})

		require.NoError(t, err)
		assert.Equal(t, "012345A", fields.Value(jobcatch.FieldOfferID))
		assert.Equal(t, "012345A", fields.Value(jobcatch.FieldRef))
		assert.Equal(t, "Développeur Go (H/F)", fields.Value(jobcatch.FieldTitle))
		assert.Equal(t, pageURL, fields.Value(jobcatch.FieldURL))
		assert.Equal(t, "montpellier", fields.Value(jobcatch.FieldFeedID))
		assert.Equal(t, "12/03/2014", fields.Value(jobcatch.FieldDatePublished))
		assert.Equal(t, "CDI", fields.Value(jobcatch.FieldContract))
		assert.Equal(t, "34 - MONTPELLIER", fields.Value(jobcatch.FieldLocation))
		assert.Equal(t, "ACME Logiciels", fields.Value(jobcatch.FieldCompany))
		assert.Equal(t, "2014-03-13T08:30:00Z", fields.Value(jobcatch.FieldFetchedAt))
		assert.Contains(t, fields.Value(jobcatch.FieldDescription), "<b>services</b>")
		assert.Equal(t, "Mensuel de 1 800,00 à 2 200,00 euros sur 12 mois + primes", fields.Value(jobcatch.FieldSalary))
		assert.Equal(t, jobcatch.Salary{
			Unit:        jobcatch.SalaryUnitMonthly,
			Min:         1800,
			Max:         2200,
			PeriodCount: 12,
			Bonus:       "+ primes",
		}, fields.Salary)
	})

	t.Run("passes salary text to the parser", func(t *testing.T) {
		t.Parallel()

		var got string
		b := goquery.NewPoleEmploi(&mock.SalaryParser{
			ParseFn: func(text string) jobcatch.Salary {
				got = text
				return jobcatch.Salary{}
			},
		})

		_, err := b.ExtractOffer(&jobcatch.PageDocument{URL: pageURL, Content: poleEmploiPage})

		require.NoError(t, err)
		assert.Equal(t, "Mensuel de 1 800,00 à 2 200,00 euros sur 12 mois + primes", got)
	})

	t.Run("missing content block signals disable", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewPoleEmploi(salary.NewParser())

		_, err := b.ExtractOffer(&jobcatch.PageDocument{
			URL:     pageURL,
			Content: `<html><body><div class="erreur">Offre non disponible</div></body></html>`,
		})

		var failure *jobcatch.ExtractionFailure
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, "content block not found", failure.Reason)
		assert.Equal(t, pageURL, failure.URL)
		assert.True(t, jobcatch.IsDisableSignal(err))
	})

	t.Run("missing title does not signal disable", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewPoleEmploi(salary.NewParser())

		_, err := b.ExtractOffer(&jobcatch.PageDocument{
			URL:     pageURL,
			Content: `<html><body><div class="block-content"><p>Contenu</p></div></body></html>`,
		})

		var failure *jobcatch.ExtractionFailure
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, "title not found", failure.Reason)
		assert.False(t, jobcatch.IsDisableSignal(err))
	})

	t.Run("missing secondary section", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewPoleEmploi(salary.NewParser())

		_, err := b.ExtractOffer(&jobcatch.PageDocument{
			URL:     pageURL,
			Content: `<div class="block-content"><h4 itemprop="title">Dev</h4><li class="primary">x</li></div>`,
		})

		var failure *jobcatch.ExtractionFailure
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, "secondary section not found", failure.Reason)
		assert.False(t, failure.Disable)
	})

	t.Run("missing region section", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewPoleEmploi(salary.NewParser())

		_, err := b.ExtractOffer(&jobcatch.PageDocument{
			URL: pageURL,
			Content: `<div class="block-content"><h4 itemprop="title">Dev</h4>` +
				`<ul><li class="secondary">Offre actualisée le 12/03/2014</li></ul></div>`,
		})

		var failure *jobcatch.ExtractionFailure
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, "region section not found", failure.Reason)
		assert.False(t, failure.Disable)
	})

	t.Run("empty salary value does not take the next label", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewPoleEmploi(salary.NewParser())

		fields, err := b.ExtractOffer(&jobcatch.PageDocument{
			URL: pageURL,
			Content: `<div class="block-content"><h4 itemprop="title">Dev</h4>` +
				`<ul><li class="secondary">Offre actualisée le 12/03/2014</li>` +
				`<li itemprop="addressRegion">Remote</li></ul>` +
				`<div class="label"><span>Type de contrat</span></div><div class="value"><span></span></div>` +
				`<div class="label"><span>Salaire indicatif</span></div><div class="value"><span></span></div>` +
				`<div class="label"><span>Qualification</span></div><div class="value"><span>Employé qualifié</span></div>` +
				`</div>`,
		})

		require.NoError(t, err)
		_, ok := fields.Get(jobcatch.FieldSalary)
		assert.False(t, ok)
		_, ok = fields.Get(jobcatch.FieldContract)
		assert.False(t, ok)
		assert.Equal(t, jobcatch.Salary{}, fields.Salary)
	})

	t.Run("missing company is left absent", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewPoleEmploi(salary.NewParser())

		fields, err := b.ExtractOffer(&jobcatch.PageDocument{
			URL: pageURL,
			Content: `<div class="block-content"><h4 itemprop="title">Dev</h4>` +
				`<ul><li class="secondary">Offre actualisée le 12/03/2014</li>` +
				`<li itemprop="addressRegion">Remote</li></ul></div>`,
		})

		require.NoError(t, err)
		_, ok := fields.Get(jobcatch.FieldCompany)
		assert.False(t, ok)
		assert.Equal(t, "12/03/2014", fields.Value(jobcatch.FieldDatePublished))
		assert.Equal(t, jobcatch.Salary{}, fields.Salary)
	})
}
