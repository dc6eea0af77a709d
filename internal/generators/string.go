package generators

import (
	"math/rand"

	"github.com/mmrzaf/tabgen/internal/pattern"
	"github.com/mmrzaf/tabgen/internal/rule"
)

// StringGenerator expands pattern per value: # digit, @ upper, ? lower,
// * any of the three.
type StringGenerator struct{}

func (g *StringGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	tmpl := params.GetOr("pattern", "####")

	draw := func() string { return pattern.Expand(rng, tmpl) }
	if isTrue(params.GetOr("unique", "false")) {
		return drawUnique(n, draw)
	}
	return repeat(n, func() interface{} { return draw() }), nil
}
