package generators

import (
	"fmt"
	"math/rand"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/rule"
)

type ConstGenerator struct{}

func (g *ConstGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	value, ok := params.Lookup("value")
	if !ok {
		return nil, fmt.Errorf("%w: const requires 'value'", domain.ErrMissingRequiredParam)
	}
	return repeat(n, func() interface{} { return value }), nil
}
