package generators

import (
	"math/rand"

	"github.com/mmrzaf/tabgen/internal/rule"
)

type IntegerGenerator struct{}

func (g *IntegerGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	min, max, err := parseIntRange(params.GetOr("range", "0-100"))
	if err != nil {
		return nil, err
	}

	draw := func() int64 { return randInt64(rng, min, max) }
	if isTrue(params.GetOr("unique", "false")) {
		return drawUnique(n, draw)
	}
	return repeat(n, func() interface{} { return draw() }), nil
}
