package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory(t *testing.T) {
	tables := DefaultTables()

	assert.Equal(t, "produit", tables.Directory("fr", "Produkt"))
	assert.Equal(t, "internal", tables.Directory("en", "intern"))
	// Only the English table maps "intern".
	assert.Equal(t, "intern", tables.Directory("fr", "intern"))
	assert.Equal(t, "pricing", tables.Directory("hu", "PREISE"))
	assert.Equal(t, "Anything", tables.Directory("en", "Anything"))
}

func TestFileName(t *testing.T) {
	tables := DefaultTables()

	tables.Tour["en"]["tour-start.htm"] = "tour-home.htm"
	tables.Tour["en"]["danke-tour.htm"] = "thanks-tour.htm"
	tables.Files["en"]["danke-tour.htm"] = "tour-thankyou.htm"

	tests := []struct {
		name string
		lang string
		file string
		want string
	}{
		{"exact", "en", "agb.htm", "tos.htm"},
		{"exact wins over tour", "en", "danke-tour.htm", "tour-thankyou.htm"},
		{"tour", "en", "tour-start.htm", "tour-home.htm"},
		{"tour keyword is case sensitive", "en", "Tour-start.htm", "Tour-start.htm"},
		{"tour needs keyword in filename", "en", "topleiste.htm", "topleiste.htm"},
		{"tour table is per language", "fr", "tour-start.htm", "tour-start.htm"},
		{"generic", "fr", "sicherheit-hilfe.htm", "security-help.htm"},
		{"generic order", "en", "kennwoerter.htm", "passwords.htm"},
		{"generic is case sensitive", "en", "Passwort.htm", "Passwort.htm"},
		{"unchanged", "en", "index.htm", "index.htm"},
		{"canonical untouched", "de", "passwort.htm", "passwort.htm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tables.FileName(tt.lang, tt.file))
		})
	}
}

func TestMerge(t *testing.T) {
	base := DefaultTables()
	merged := base.Merge(Tables{
		DefaultLanguage: "it",
		Directories: map[string]map[string]string{
			"fr": {"Preise": "prix"},
			"pt": {"produkt": "produto"},
		},
		Files:   map[string]map[string]string{"fr": {"agb.htm": "cgv.htm"}},
		Generic: []Substitution{{From: "seite", To: "page"}},
	})

	assert.Equal(t, "de", merged.Canonical)
	assert.Equal(t, "it", merged.DefaultLanguage)
	assert.Equal(t, "prix", merged.Directory("fr", "preise"))
	assert.Equal(t, "produit", merged.Directory("fr", "produkt"))
	assert.Equal(t, "produto", merged.Directory("pt", "produkt"))
	assert.Equal(t, "cgv.htm", merged.FileName("fr", "agb.htm"))
	assert.Equal(t, "password-page.htm", merged.FileName("fr", "passwort-seite.htm"))

	// The receiver is left untouched.
	assert.Equal(t, "tarification", base.Directory("fr", "preise"))
	assert.Len(t, base.Generic, 6)
}

func TestClone_Independent(t *testing.T) {
	a := DefaultTables()
	b := a.Clone()
	b.Files["en"]["agb.htm"] = "terms.htm"
	b.Generic[0].To = "pw"

	assert.Equal(t, "tos.htm", a.Files["en"]["agb.htm"])
	assert.Equal(t, "password", a.Generic[0].To)
}

func TestNormalizeLanguage(t *testing.T) {
	got, err := NormalizeLanguage(" EN ")
	require.NoError(t, err)
	assert.Equal(t, "en", got)

	for _, bad := range []string{"", "eng", "e", "1a", "en-US"} {
		_, err := NormalizeLanguage(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseLanguages(t *testing.T) {
	got, err := ParseLanguages([]string{"fr", "EN", "de", "fr", "it"}, "de")
	require.NoError(t, err)
	assert.Equal(t, []string{"fr", "en", "it"}, got)

	_, err = ParseLanguages([]string{"en", "???"}, "de")
	assert.Error(t, err)
}
