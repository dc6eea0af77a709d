package generators

import (
	"math/rand"
	"strings"

	"github.com/mmrzaf/tabgen/internal/provider"
	"github.com/mmrzaf/tabgen/internal/rule"
)

// EmailGenerator draws its own names; it is not correlated with name columns
// of the same row.
type EmailGenerator struct {
	Provider provider.Provider
}

func (g *EmailGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	domain := params.GetOr("domain", "example.com")
	return repeat(n, func() interface{} {
		first := strings.ToLower(g.Provider.FirstName())
		last := strings.ToLower(g.Provider.LastName())
		return first + "." + last + "@" + domain
	}), nil
}
