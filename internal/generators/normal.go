package generators

import (
	"fmt"
	"math/rand"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/rule"
)

// NormalGenerator draws from N(mean, std), rounded to precision digits.
type NormalGenerator struct{}

func (g *NormalGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	mean, err := parseFloat("mean", params.GetOr("mean", "0"))
	if err != nil {
		return nil, err
	}
	std, err := parseFloat("std", params.GetOr("std", "1"))
	if err != nil {
		return nil, err
	}
	if std < 0 {
		return nil, fmt.Errorf("%w: 'std' must not be negative", domain.ErrMalformedFormat)
	}
	precision, err := parseInt("precision", params.GetOr("precision", "2"))
	if err != nil {
		return nil, err
	}

	return repeat(n, func() interface{} {
		return round(rng.NormFloat64()*std+mean, precision)
	}), nil
}
