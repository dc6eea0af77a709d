package generators

import (
	"fmt"

	"github.com/mmrzaf/tabgen/internal/domain"
)

// uniqueAttemptFactor bounds rejection sampling at factor*n draws.
const uniqueAttemptFactor = 10

// drawUnique collects n distinct values from draw, giving up after
// uniqueAttemptFactor*n draws. A shortfall is an error, never a short column.
func drawUnique[T comparable](n int, draw func() T) ([]interface{}, error) {
	seen := make(map[T]struct{}, n)
	out := make([]interface{}, 0, n)
	maxAttempts := n * uniqueAttemptFactor

	for attempts := 0; len(out) < n && attempts < maxAttempts; attempts++ {
		v := draw()
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	if len(out) < n {
		return nil, fmt.Errorf("%w: found %d of %d distinct values in %d attempts", domain.ErrInsufficientDomain, len(out), n, maxAttempts)
	}
	return out, nil
}
