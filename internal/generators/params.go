package generators

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/mmrzaf/tabgen/internal/domain"
)

// splitRange splits "min-max" on the first '-' that is not a leading sign, so
// "-10--5" yields ("-10", "-5").
func splitRange(s string) (string, string, bool) {
	s = strings.TrimSpace(s)
	for i := 1; i < len(s); i++ {
		if s[i] != '-' {
			continue
		}
		prev := s[i-1]
		if prev == 'e' || prev == 'E' {
			continue
		}
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
	}
	return "", "", false
}

func parseIntRange(s string) (int64, int64, error) {
	lo, hi, ok := splitRange(s)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q is not min-max", domain.ErrMalformedRange, s)
	}
	min, err := strconv.ParseInt(lo, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid lower bound %q", domain.ErrMalformedRange, lo)
	}
	max, err := strconv.ParseInt(hi, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid upper bound %q", domain.ErrMalformedRange, hi)
	}
	if min > max {
		return 0, 0, fmt.Errorf("%w: min (%d) is greater than max (%d)", domain.ErrMalformedRange, min, max)
	}
	return min, max, nil
}

func parseFloatRange(s string) (float64, float64, error) {
	lo, hi, ok := splitRange(s)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q is not min-max", domain.ErrMalformedRange, s)
	}
	min, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid lower bound %q", domain.ErrMalformedRange, lo)
	}
	max, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid upper bound %q", domain.ErrMalformedRange, hi)
	}
	if min > max {
		return 0, 0, fmt.Errorf("%w: min (%v) is greater than max (%v)", domain.ErrMalformedRange, min, max)
	}
	return min, max, nil
}

func parseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: '%s' must be an integer, got %q", domain.ErrMalformedFormat, name, s)
	}
	return v, nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s' must be a number, got %q", domain.ErrMalformedFormat, name, s)
	}
	return v, nil
}

// isTrue treats only "true" (any case) as set.
func isTrue(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// randInt64 draws uniformly from [min, max] inclusive.
func randInt64(rng *rand.Rand, min, max int64) int64 {
	span := uint64(max) - uint64(min)
	if span < math.MaxInt64 {
		return min + rng.Int63n(int64(span)+1)
	}
	for {
		v := rng.Uint64()
		if v <= span {
			return int64(uint64(min) + v)
		}
	}
}

func round(v float64, precision int) float64 {
	p := math.Pow10(precision)
	return math.Round(v*p) / p
}
