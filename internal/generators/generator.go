package generators

import (
	"math/rand"
	"time"

	"github.com/mmrzaf/tabgen/internal/rule"
)

// Generator produces exactly n values for one column, or an error. It must not
// return a partial column.
type Generator interface {
	Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error)
}

type GeneratorContext struct {
	Column string
	// Now anchors relative dates ("-30d") so one run sees a single clock.
	Now time.Time
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error)

func (f GeneratorFunc) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	return f(rng, ctx, params, n)
}

func repeat(n int, draw func() interface{}) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = draw()
	}
	return out
}
