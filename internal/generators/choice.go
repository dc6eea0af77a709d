package generators

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/rule"
)

// ChoiceGenerator picks from a comma-separated list with replacement. An
// optional weights list of the same length biases the draw.
type ChoiceGenerator struct{}

func (g *ChoiceGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	values := splitList(params.Get("values"))
	if len(values) == 1 && values[0] == "" {
		return nil, fmt.Errorf("%w: choice requires a non-empty 'values' list", domain.ErrMissingRequiredParam)
	}

	weightsRaw, hasWeights := params.Lookup("weights")
	if !hasWeights {
		return repeat(n, func() interface{} { return values[rng.Intn(len(values))] }), nil
	}

	weights, err := parseWeights(weightsRaw, len(values))
	if err != nil {
		return nil, err
	}
	return repeat(n, func() interface{} { return values[pickWeighted(rng, weights)] }), nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseWeights(raw string, count int) ([]float64, error) {
	parts := splitList(raw)
	if len(parts) != count {
		return nil, fmt.Errorf("%w: 'weights' and 'values' must have the same length", domain.ErrMalformedFormat)
	}

	weights := make([]float64, count)
	total := 0.0
	for i, p := range parts {
		w, err := parseFloat("weights", p)
		if err != nil {
			return nil, err
		}
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight: %v", domain.ErrMalformedFormat, w)
		}
		weights[i] = w
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: total weight is zero", domain.ErrMalformedFormat)
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights, nil
}

func pickWeighted(rng *rand.Rand, weights []float64) int {
	r := rng.Float64()
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r < cum {
			return i
		}
	}
	return len(weights) - 1
}
