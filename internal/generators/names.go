package generators

import (
	"math/rand"

	"github.com/mmrzaf/tabgen/internal/provider"
	"github.com/mmrzaf/tabgen/internal/rule"
)

type FirstNameGenerator struct {
	Provider provider.Provider
}

func (g *FirstNameGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	return repeat(n, func() interface{} { return g.Provider.FirstName() }), nil
}

type LastNameGenerator struct {
	Provider provider.Provider
}

func (g *LastNameGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	return repeat(n, func() interface{} { return g.Provider.LastName() }), nil
}
