package generators

import (
	"math/rand"
	"strings"

	"github.com/mmrzaf/tabgen/internal/provider"
	"github.com/mmrzaf/tabgen/internal/rule"
)

const defaultLocale = "en_US"

var countryLocales = map[string]string{
	"US": "en_US",
	"CA": "en_CA",
	"UK": "en_GB",
	"GB": "en_GB",
	"FR": "fr_FR",
	"DE": "de_DE",
	"IT": "it_IT",
	"ES": "es_ES",
	"AU": "en_AU",
	"IN": "en_IN",
}

// LocaleForCountry maps a country code to a provider locale, falling back to
// en_US for unknown codes.
func LocaleForCountry(country string) string {
	if l, ok := countryLocales[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return l
	}
	return defaultLocale
}

type PostalCodeGenerator struct {
	Provider provider.Provider
}

func (g *PostalCodeGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	locale := LocaleForCountry(params.GetOr("country", "US"))
	return repeat(n, func() interface{} { return g.Provider.PostalCode(locale) }), nil
}
