package goquery_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	jgoquery "github.com/fwojciec/jobcatch/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractField(t *testing.T) {
	t.Parallel()

	labelValue := `<div class="label"><span>Type de contrat</span></div>
		<div class="value"><span class="x">CDI</span></div>
		<div class="label"><span>Salaire indicatif</span></div>
		<div class="value"><span>Mensuel de 1 800,00 euros sur 12 mois</span></div>`

	tests := []struct {
		name     string
		label    string
		fragment string
		want     string
		wantOK   bool
	}{
		{name: "label followed by value element", label: "Type de contrat", fragment: labelValue, want: "CDI", wantOK: true},
		{name: "second label", label: "Salaire indicatif", fragment: labelValue, want: "Mensuel de 1 800,00 euros sur 12 mois", wantOK: true},
		{name: "case and whitespace tolerant", label: "type  DE contrat", fragment: labelValue, want: "CDI", wantOK: true},
		{name: "inline value after colon", label: "Réf", fragment: `<p>Réf : ABC-12<br />publié le 01/02/2014</p>`, want: "ABC-12", wantOK: true},
		{name: "inline value after space", label: "publié le", fragment: `<p>Réf : ABC-12<br />publié le 01/02/2014</p>`, want: "01/02/2014", wantOK: true},
		{name: "label with colon then strong value", label: "Entreprise", fragment: `<p>Localisation : <strong>Lyon</strong><br/>Entreprise : <strong>ACME</strong></p>`, want: "ACME", wantOK: true},
		{name: "entities decoded", label: "Entreprise", fragment: `<p>Entreprise : <strong>Dupont &amp; Fils</strong></p>`, want: "Dupont & Fils", wantOK: true},
		{name: "text node after bold label", label: "Contrat", fragment: `<p><b>Contrat</b> CDD<br/>Durée : 6 mois</p>`, want: "CDD", wantOK: true},
		{name: "value after line break", label: "Contrat", fragment: `<p><b>Contrat</b><br/><i>CDD</i></p>`, want: "CDD", wantOK: true},
		{name: "empty value followed by another label", label: "Type de contrat", fragment: `<label>Type de contrat</label><value><span></span></value><label>Salaire indicatif</label><value><span>Mensuel</span></value>`, wantOK: false},
		{name: "empty value element followed by another label", label: "Salaire indicatif", fragment: `<div class="label"><span>Salaire indicatif</span></div><div class="value"><span> </span></div><div class="label"><span>Qualification</span></div><div class="value"><span>Cadre</span></div>`, wantOK: false},
		{name: "label after an empty value keeps its own value", label: "Salaire indicatif", fragment: `<label>Type de contrat</label><value></value><label>Salaire indicatif</label><value><span>Mensuel</span></value>`, want: "Mensuel", wantOK: true},
		{name: "absent label", label: "Contrat", fragment: labelValue, wantOK: false},
		{name: "label without value", label: "Salaire", fragment: `<p>Salaire</p>`, wantOK: false},
		{name: "label prefix of longer word", label: "Réf", fragment: `<p>Référence interne</p>`, wantOK: false},
		{name: "empty fragment", label: "Réf", fragment: ``, wantOK: false},
		{name: "empty label", label: "", fragment: labelValue, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := jgoquery.ExtractField(tt.label, tt.fragment)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldSet_StopsAtSelection(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<ul><li class="primary"><span>Numéro de l'offre</span></li><li>012345A</li></ul>`))
	require.NoError(t, err)

	_, ok := jgoquery.NewFieldSet(doc.Find("li.primary")).Get("Numéro de l'offre")
	assert.False(t, ok, "value outside the selection is not used")

	got, ok := jgoquery.NewFieldSet(doc.Find("ul")).Get("Numéro de l'offre")
	assert.True(t, ok)
	assert.Equal(t, "012345A", got)
}

func TestFieldSet_ZeroValue(t *testing.T) {
	t.Parallel()

	var fs jgoquery.FieldSet
	_, ok := fs.Get("Réf")

	assert.False(t, ok)
	assert.Empty(t, jgoquery.NewFieldSet(nil).Tokens())
}
