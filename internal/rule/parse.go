// Package rule implements the column rule grammar:
//
//	key1:value1; key2:value2; ...
//
// Whitespace around separators is ignored, each segment is split on its first
// colon, the last occurrence of a key wins and segments without a colon are
// dropped. All values stay strings; strategies interpret them.
package rule

import (
	"strings"
)

// ParsedRule is an ordered key -> value mapping.
type ParsedRule struct {
	keys   []string
	values map[string]string
}

func New() ParsedRule {
	return ParsedRule{values: make(map[string]string)}
}

// Parse never fails; malformed input produces a smaller (possibly empty) rule.
func Parse(raw string) ParsedRule {
	p := New()
	if strings.TrimSpace(raw) == "" {
		return p
	}

	for _, seg := range strings.Split(raw, ";") {
		seg = strings.TrimSpace(seg)
		key, value, ok := strings.Cut(seg, ":")
		if !ok {
			continue
		}
		p.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return p
}

// ParseCell parses a raw template cell. Absent and non-string cells yield an
// empty rule.
func ParseCell(v interface{}) ParsedRule {
	s, ok := v.(string)
	if !ok {
		return New()
	}
	return Parse(s)
}

// Set overwrites an existing key in place or appends a new one.
func (p *ParsedRule) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p ParsedRule) Lookup(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p ParsedRule) Get(key string) string {
	return p.values[key]
}

// GetOr returns the value for key, or def when the key is absent.
func (p ParsedRule) GetOr(key, def string) string {
	if v, ok := p.values[key]; ok {
		return v
	}
	return def
}

func (p ParsedRule) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

func (p ParsedRule) Type() string {
	return p.values["type"]
}

func (p ParsedRule) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

func (p ParsedRule) Len() int {
	return len(p.keys)
}

func (p ParsedRule) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// String formats the rule back into the grammar, keys in insertion order.
func (p ParsedRule) String() string {
	parts := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		parts = append(parts, k+":"+p.values[k])
	}
	return strings.Join(parts, "; ")
}
