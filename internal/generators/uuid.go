package generators

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/mmrzaf/tabgen/internal/rule"
)

// UUIDGenerator emits version 4 UUIDs drawn from the run's source, so they
// repeat with the seed.
type UUIDGenerator struct{}

func (g *UUIDGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	out := make([]interface{}, n)
	b := make([]byte, 16)
	for i := range out {
		rng.Read(b)
		b[6] = (b[6] & 0x0f) | 0x40
		b[8] = (b[8] & 0x3f) | 0x80
		u, err := uuid.FromBytes(b)
		if err != nil {
			return nil, err
		}
		out[i] = u.String()
	}
	return out, nil
}
