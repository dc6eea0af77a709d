// Package provider supplies realistic values (names, addresses, postal codes,
// sentences) to the generators.
package provider

import (
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-faker/faker/v4"
	"github.com/mmrzaf/tabgen/internal/pattern"
)

type Provider interface {
	FirstName() string
	LastName() string
	// Address returns a multi-line street address.
	Address() string
	PostalCode(locale string) string
	Sentence(words int) string
}

// FakerProvider is backed by go-faker. Locale postal codes that faker does
// not model are drawn from per-locale shapes using the provider's own source.
type FakerProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewFakerProvider() *FakerProvider {
	return NewFakerProviderWithSeed(time.Now().UnixNano())
}

func NewFakerProviderWithSeed(seed int64) *FakerProvider {
	return &FakerProvider{rng: rand.New(rand.NewSource(seed))}
}

func (p *FakerProvider) FirstName() string {
	return faker.FirstName()
}

func (p *FakerProvider) LastName() string {
	return faker.LastName()
}

func (p *FakerProvider) Address() string {
	a := faker.GetRealAddress()
	return a.Address + "\n" + a.City + ", " + a.State + " " + a.PostalCode
}

func (p *FakerProvider) PostalCode(locale string) string {
	if locale == "en_US" {
		if code := faker.GetRealAddress().PostalCode; code != "" {
			return code
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return postalCode(p.rng, locale)
}

// Sentence returns words random words, capitalised and terminated by a period.
func (p *FakerProvider) Sentence(words int) string {
	if words <= 0 {
		return ""
	}
	parts := make([]string, words)
	for i := range parts {
		parts[i] = faker.Word()
	}
	parts[0] = capitalize(parts[0])
	return strings.Join(parts, " ") + "."
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

var ukPostcodeShapes = []string{"@# #@@", "@## #@@", "@@# #@@", "@@## #@@"}

func postalCode(rng *rand.Rand, locale string) string {
	switch locale {
	case "en_CA":
		return pattern.Expand(rng, "@#@ #@#")
	case "en_GB":
		return pattern.Expand(rng, ukPostcodeShapes[rng.Intn(len(ukPostcodeShapes))])
	case "fr_FR", "de_DE", "it_IT":
		return pattern.ExpandDigits(rng, "#####")
	case "es_ES":
		province := 1 + rng.Intn(52)
		return string([]byte{byte('0' + province/10), byte('0' + province%10)}) + pattern.ExpandDigits(rng, "###")
	case "en_AU":
		return pattern.ExpandDigits(rng, "####")
	case "en_IN":
		return string(rune('1'+rng.Intn(9))) + pattern.ExpandDigits(rng, "#####")
	default:
		return pattern.ExpandDigits(rng, "#####")
	}
}
