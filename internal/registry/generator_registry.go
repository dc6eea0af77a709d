package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/generators"
	"github.com/mmrzaf/tabgen/internal/provider"
)

type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[string]generators.Generator
}

func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{
		generators: make(map[string]generators.Generator),
	}
}

// Register adds or replaces the generator for a type name.
func (r *GeneratorRegistry) Register(name string, gen generators.Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = gen
}

func (r *GeneratorRegistry) Get(name string) (generators.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownType, name)
	}
	return gen, nil
}

func (r *GeneratorRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.generators[name]
	return ok
}

// List returns the registered type names, sorted.
func (r *GeneratorRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func DefaultGeneratorRegistry(p provider.Provider) *GeneratorRegistry {
	r := NewGeneratorRegistry()
	r.Register("integer", &generators.IntegerGenerator{})
	r.Register("decimal", &generators.DecimalGenerator{})
	r.Register("string", &generators.StringGenerator{})
	r.Register("choice", &generators.ChoiceGenerator{})
	r.Register("boolean", &generators.BooleanGenerator{})
	r.Register("text", &generators.TextGenerator{Provider: p})
	r.Register("first_name", &generators.FirstNameGenerator{Provider: p})
	r.Register("last_name", &generators.LastNameGenerator{Provider: p})
	r.Register("email", &generators.EmailGenerator{Provider: p})
	r.Register("phone", &generators.PhoneGenerator{})
	r.Register("date", &generators.DateGenerator{})
	r.Register("datetime", &generators.DatetimeGenerator{})
	r.Register("address", &generators.AddressGenerator{Provider: p})
	r.Register("postal_code", &generators.PostalCodeGenerator{Provider: p})
	r.Register("uuid", &generators.UUIDGenerator{})
	r.Register("const", &generators.ConstGenerator{})
	r.Register("normal", &generators.NormalGenerator{})
	return r
}
