package generators

import (
	"math/rand"

	"github.com/mmrzaf/tabgen/internal/rule"
)

type DecimalGenerator struct{}

func (g *DecimalGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	min, max, err := parseFloatRange(params.GetOr("range", "0.0-100.0"))
	if err != nil {
		return nil, err
	}
	precision, err := parseInt("precision", params.GetOr("precision", "2"))
	if err != nil {
		return nil, err
	}

	return repeat(n, func() interface{} {
		return round(min+rng.Float64()*(max-min), precision)
	}), nil
}
