package generators

import (
	"math/rand"

	"github.com/mmrzaf/tabgen/internal/pattern"
	"github.com/mmrzaf/tabgen/internal/rule"
)

type PhoneGenerator struct{}

func (g *PhoneGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	format := params.GetOr("format", "###-###-####")
	return repeat(n, func() interface{} { return pattern.ExpandDigits(rng, format) }), nil
}
