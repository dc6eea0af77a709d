// Package pattern expands character-class templates:
//
//	#  digit 0-9
//	@  uppercase letter A-Z
//	?  lowercase letter a-z
//	*  any of the above
//
// Every other character is copied literally.
package pattern

import (
	"math/rand"
	"strings"
)

const (
	digits = "0123456789"
	upper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lower  = "abcdefghijklmnopqrstuvwxyz"
)

func Expand(rng *rand.Rand, tmpl string) string {
	var b strings.Builder
	b.Grow(len(tmpl))
	for _, c := range tmpl {
		switch c {
		case '#':
			b.WriteByte(digits[rng.Intn(len(digits))])
		case '@':
			b.WriteByte(upper[rng.Intn(len(upper))])
		case '?':
			b.WriteByte(lower[rng.Intn(len(lower))])
		case '*':
			// class first, then member, so each class is equally likely
			class := [...]string{digits, upper, lower}[rng.Intn(3)]
			b.WriteByte(class[rng.Intn(len(class))])
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// ExpandDigits substitutes only '#'; every other character is literal.
func ExpandDigits(rng *rand.Rand, tmpl string) string {
	var b strings.Builder
	b.Grow(len(tmpl))
	for _, c := range tmpl {
		if c == '#' {
			b.WriteByte(digits[rng.Intn(len(digits))])
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
