// Package providertest holds a deterministic provider for tests.
package providertest

import (
	"fmt"
	"strings"
	"sync"
)

// Stub returns fixed, counter-suffixed values and records calls.
type Stub struct {
	mu      sync.Mutex
	Calls   map[string]int
	Locales []string
}

func NewStub() *Stub {
	return &Stub{Calls: make(map[string]int)}
}

func (s *Stub) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls[name]++
	return s.Calls[name]
}

func (s *Stub) FirstName() string {
	return fmt.Sprintf("Ada%d", s.count("first_name"))
}

func (s *Stub) LastName() string {
	return fmt.Sprintf("Lovelace%d", s.count("last_name"))
}

func (s *Stub) Address() string {
	n := s.count("address")
	return fmt.Sprintf("%d Main St\nSpringfield, IL 62701", n)
}

func (s *Stub) PostalCode(locale string) string {
	s.count("postal_code")
	s.mu.Lock()
	s.Locales = append(s.Locales, locale)
	s.mu.Unlock()
	return "PC-" + locale
}

func (s *Stub) Sentence(words int) string {
	s.count("sentence")
	if words <= 0 {
		return ""
	}
	return strings.TrimSpace(strings.Repeat("word ", words)) + "."
}
