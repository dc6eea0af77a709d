package registry

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/generators"
	"github.com/mmrzaf/tabgen/internal/provider/providertest"
	"github.com/mmrzaf/tabgen/internal/rule"
)

func TestDefaultRegistry_HasAllTypes(t *testing.T) {
	r := DefaultGeneratorRegistry(providertest.NewStub())
	want := []string{
		"integer", "decimal", "string", "choice", "boolean", "text",
		"first_name", "last_name", "email", "phone", "date", "datetime",
		"address", "postal_code",
	}
	for _, name := range want {
		if !r.Has(name) {
			t.Fatalf("expected %s to be registered", name)
		}
	}
}

func TestGet_UnknownType(t *testing.T) {
	r := NewGeneratorRegistry()
	_, err := r.Get("unicorn")
	if !errors.Is(err, domain.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestRegister_Extension(t *testing.T) {
	r := NewGeneratorRegistry()
	r.Register("ones", generators.GeneratorFunc(func(rng *rand.Rand, ctx generators.GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
		out := make([]interface{}, n)
		for i := range out {
			out[i] = 1
		}
		return out, nil
	}))

	gen, err := r.Get("ones")
	if err != nil {
		t.Fatal(err)
	}
	vals, err := gen.Generate(rand.New(rand.NewSource(1)), generators.GeneratorContext{}, rule.New(), 3)
	if err != nil || len(vals) != 3 {
		t.Fatalf("unexpected result %v %v", vals, err)
	}
	if got := r.List(); len(got) != 1 || got[0] != "ones" {
		t.Fatalf("unexpected list: %v", got)
	}
}
