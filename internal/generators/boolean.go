package generators

import (
	"math/rand"

	"github.com/mmrzaf/tabgen/internal/rule"
)

type BooleanGenerator struct{}

func (g *BooleanGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	return repeat(n, func() interface{} { return rng.Intn(2) == 1 }), nil
}
