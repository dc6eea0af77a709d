package provider

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostalCodeShapes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	shapes := map[string]string{
		"en_CA": `^[A-Z]\d[A-Z] \d[A-Z]\d$`,
		"en_GB": `^[A-Z]{1,2}\d{1,2} \d[A-Z]{2}$`,
		"fr_FR": `^\d{5}$`,
		"de_DE": `^\d{5}$`,
		"it_IT": `^\d{5}$`,
		"es_ES": `^(0[1-9]|[1-4]\d|5[0-2])\d{3}$`,
		"en_AU": `^\d{4}$`,
		"en_IN": `^[1-9]\d{5}$`,
	}
	for locale, re := range shapes {
		for i := 0; i < 50; i++ {
			assert.Regexp(t, re, postalCode(rng, locale), locale)
		}
	}
}

func TestFakerProvider_Sentence(t *testing.T) {
	p := NewFakerProviderWithSeed(1)

	s := p.Sentence(6)
	require.True(t, strings.HasSuffix(s, "."))
	assert.Len(t, strings.Fields(s), 6)
	assert.Equal(t, "", p.Sentence(0))
}

func TestFakerProvider_AddressIsMultiLine(t *testing.T) {
	p := NewFakerProviderWithSeed(1)
	assert.Contains(t, p.Address(), "\n")
	assert.NotEmpty(t, p.FirstName())
	assert.NotEmpty(t, p.LastName())
	assert.Regexp(t, `^\d{4}$`, p.PostalCode("en_AU"))
}
