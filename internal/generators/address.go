package generators

import (
	"math/rand"
	"strings"

	"github.com/mmrzaf/tabgen/internal/provider"
	"github.com/mmrzaf/tabgen/internal/rule"
)

var lineBreaks = strings.NewReplacer("\r\n", ", ", "\n", ", ")

type AddressGenerator struct {
	Provider provider.Provider
}

func (g *AddressGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	return repeat(n, func() interface{} {
		return lineBreaks.Replace(g.Provider.Address())
	}), nil
}
