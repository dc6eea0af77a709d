package generators

import (
	"math/rand"

	"github.com/mmrzaf/tabgen/internal/provider"
	"github.com/mmrzaf/tabgen/internal/rule"
)

type TextGenerator struct {
	Provider provider.Provider
}

func (g *TextGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	min, max, err := parseIntRange(params.GetOr("words", "5-10"))
	if err != nil {
		return nil, err
	}
	return repeat(n, func() interface{} {
		return g.Provider.Sentence(int(randInt64(rng, min, max)))
	}), nil
}
