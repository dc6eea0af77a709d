package generators

import (
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/provider/providertest"
	"github.com/mmrzaf/tabgen/internal/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func run(t *testing.T, g Generator, raw string, n int) ([]interface{}, error) {
	t.Helper()
	ctx := GeneratorContext{Column: "c", Now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	vals, err := g.Generate(newRand(), ctx, rule.Parse(raw), n)
	if err == nil {
		require.Len(t, vals, n)
	}
	return vals, err
}

func TestInteger_DegenerateRange(t *testing.T) {
	vals, err := run(t, &IntegerGenerator{}, "type:integer; range:5-5", 50)
	require.NoError(t, err)
	for _, v := range vals {
		assert.Equal(t, int64(5), v)
	}
}

func TestInteger_WithinRange(t *testing.T) {
	vals, err := run(t, &IntegerGenerator{}, "type:integer; range:1000-9999", 500)
	require.NoError(t, err)
	for _, v := range vals {
		i := v.(int64)
		assert.True(t, i >= 1000 && i <= 9999, "out of range: %d", i)
	}
}

func TestInteger_DefaultRange(t *testing.T) {
	vals, err := run(t, &IntegerGenerator{}, "type:integer", 200)
	require.NoError(t, err)
	for _, v := range vals {
		i := v.(int64)
		assert.True(t, i >= 0 && i <= 100)
	}
}

func TestInteger_NegativeBounds(t *testing.T) {
	vals, err := run(t, &IntegerGenerator{}, "type:integer; range:-10--5", 200)
	require.NoError(t, err)
	for _, v := range vals {
		i := v.(int64)
		assert.True(t, i >= -10 && i <= -5, "out of range: %d", i)
	}
}

func TestInteger_UniquePermutation(t *testing.T) {
	vals, err := run(t, &IntegerGenerator{}, "type:integer; range:1-3; unique:true", 3)
	require.NoError(t, err)

	got := make([]int, 0, 3)
	for _, v := range vals {
		got = append(got, int(v.(int64)))
	}
	sort.Ints(got)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestInteger_UniqueExhausted(t *testing.T) {
	_, err := run(t, &IntegerGenerator{}, "type:integer; range:1-3; unique:TRUE", 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientDomain)
}

func TestInteger_MalformedRange(t *testing.T) {
	for _, raw := range []string{
		"type:integer; range:abc",
		"type:integer; range:1-x",
		"type:integer; range:10-1",
		"type:integer; range:1.5-3",
	} {
		_, err := run(t, &IntegerGenerator{}, raw, 3)
		assert.ErrorIs(t, err, domain.ErrMalformedRange, raw)
	}
}

func TestDecimal_RangeAndPrecision(t *testing.T) {
	vals, err := run(t, &DecimalGenerator{}, "type:decimal; range:1.5-2.5; precision:1", 300)
	require.NoError(t, err)
	for _, v := range vals {
		f := v.(float64)
		assert.True(t, f >= 1.5 && f <= 2.5, "out of range: %v", f)
		assert.InDelta(t, f, float64(int(f*10+0.5))/10, 1e-9)
	}
}

func TestDecimal_BadPrecision(t *testing.T) {
	_, err := run(t, &DecimalGenerator{}, "type:decimal; range:0-1; precision:two", 2)
	assert.ErrorIs(t, err, domain.ErrMalformedFormat)
}

func TestString_Pattern(t *testing.T) {
	re := regexp.MustCompile(`^\d\d-[A-Z][A-Z]$`)
	vals, err := run(t, &StringGenerator{}, "type:string; pattern:##-@@", 200)
	require.NoError(t, err)
	for _, v := range vals {
		assert.Regexp(t, re, v)
	}
}

func TestString_UniqueExhausted(t *testing.T) {
	_, err := run(t, &StringGenerator{}, "type:string; pattern:#; unique:true", 11)
	assert.ErrorIs(t, err, domain.ErrInsufficientDomain)

	vals, err := run(t, &StringGenerator{}, "type:string; pattern:###; unique:true", 50)
	require.NoError(t, err)
	seen := map[interface{}]bool{}
	for _, v := range vals {
		assert.False(t, seen[v], "duplicate %v", v)
		seen[v] = true
	}
}

func TestChoice_ValuesOnly(t *testing.T) {
	vals, err := run(t, &ChoiceGenerator{}, "type:choice; values:a, b, c", 300)
	require.NoError(t, err)
	for _, v := range vals {
		assert.Contains(t, []interface{}{"a", "b", "c"}, v)
	}
}

func TestChoice_EmptyValues(t *testing.T) {
	_, err := run(t, &ChoiceGenerator{}, "type:choice; values:  ", 3)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredParam)
}

func TestChoice_Weights(t *testing.T) {
	vals, err := run(t, &ChoiceGenerator{}, "type:choice; values:x,y; weights:0,1", 100)
	require.NoError(t, err)
	for _, v := range vals {
		assert.Equal(t, "y", v)
	}

	_, err = run(t, &ChoiceGenerator{}, "type:choice; values:x,y; weights:1", 3)
	assert.ErrorIs(t, err, domain.ErrMalformedFormat)
}

func TestBoolean(t *testing.T) {
	vals, err := run(t, &BooleanGenerator{}, "type:boolean", 200)
	require.NoError(t, err)
	seen := map[bool]bool{}
	for _, v := range vals {
		seen[v.(bool)] = true
	}
	assert.Len(t, seen, 2)
}

func TestPhone_DefaultFormat(t *testing.T) {
	vals, err := run(t, &PhoneGenerator{}, "type:phone", 20)
	require.NoError(t, err)
	for _, v := range vals {
		assert.Regexp(t, `^\d{3}-\d{3}-\d{4}$`, v)
	}

	vals, err = run(t, &PhoneGenerator{}, "type:phone; format:+1 (###) @##", 5)
	require.NoError(t, err)
	assert.Regexp(t, `^\+1 \(\d{3}\) @\d{2}$`, vals[0])
}

func TestDate_WithinBoundsAndFormat(t *testing.T) {
	vals, err := run(t, &DateGenerator{}, "type:date; start:2021-01-01; end:2021-01-03", 200)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, v := range vals {
		seen[v.(string)] = true
	}
	assert.Equal(t, map[string]bool{"2021-01-01": true, "2021-01-02": true, "2021-01-03": true}, seen)

	vals, err = run(t, &DateGenerator{}, "type:date; start:2021-05-05; end:2021-05-05; format:%d/%m/%Y", 3)
	require.NoError(t, err)
	assert.Equal(t, "05/05/2021", vals[0])
}

func TestDate_InvalidBounds(t *testing.T) {
	_, err := run(t, &DateGenerator{}, "type:date; start:yesterday-ish; end:2020-01-01", 1)
	assert.ErrorIs(t, err, domain.ErrMalformedFormat)

	_, err = run(t, &DateGenerator{}, "type:date; start:2021-01-01; end:2020-01-01", 1)
	assert.ErrorIs(t, err, domain.ErrMalformedRange)
}

func TestDatetime_WithinBounds(t *testing.T) {
	vals, err := run(t, &DatetimeGenerator{}, "type:datetime; start:2022-03-01 10:00:00; end:2022-03-01 10:00:59", 100)
	require.NoError(t, err)
	for _, v := range vals {
		s := v.(string)
		assert.True(t, strings.HasPrefix(s, "2022-03-01 10:00:"), s)
	}
}

func TestDatetime_RelativeBounds(t *testing.T) {
	vals, err := run(t, &DatetimeGenerator{}, "type:datetime; start:-1d; end:now; format:%Y-%m-%d", 50)
	require.NoError(t, err)
	for _, v := range vals {
		assert.Contains(t, []interface{}{"2024-05-31", "2024-06-01"}, v)
	}
}

func TestRealisticGenerators(t *testing.T) {
	stub := providertest.NewStub()

	vals, err := run(t, &FirstNameGenerator{Provider: stub}, "type:first_name", 2)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Ada1", "Ada2"}, vals)

	vals, err = run(t, &EmailGenerator{Provider: stub}, "type:email; domain:corp.test", 1)
	require.NoError(t, err)
	assert.Equal(t, "ada3.lovelace1@corp.test", vals[0])

	vals, err = run(t, &AddressGenerator{Provider: stub}, "type:address", 1)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St, Springfield, IL 62701", vals[0])

	vals, err = run(t, &TextGenerator{Provider: stub}, "type:text; words:3-3", 2)
	require.NoError(t, err)
	assert.Equal(t, "word word word.", vals[0])
}

func TestEmail_DefaultDomain(t *testing.T) {
	vals, err := run(t, &EmailGenerator{Provider: providertest.NewStub()}, "type:email", 1)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(vals[0].(string), "@example.com"))
}

func TestPostalCode_CountryMapping(t *testing.T) {
	stub := providertest.NewStub()
	for _, country := range []string{"uk", "GB", "de", "ZZ", ""} {
		_, err := run(t, &PostalCodeGenerator{Provider: stub}, "type:postal_code; country:"+country, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"en_GB", "en_GB", "de_DE", "en_US", "en_US"}, stub.Locales)
	assert.Equal(t, "en_US", LocaleForCountry("mars"))
}

func TestUUID_Deterministic(t *testing.T) {
	a, err := run(t, &UUIDGenerator{}, "type:uuid", 3)
	require.NoError(t, err)
	b, err := run(t, &UUIDGenerator{}, "type:uuid", 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, a[0])
}

func TestConstAndNormal(t *testing.T) {
	vals, err := run(t, &ConstGenerator{}, "type:const; value:fixed", 3)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"fixed", "fixed", "fixed"}, vals)

	_, err = run(t, &ConstGenerator{}, "type:const", 3)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredParam)

	vals, err = run(t, &NormalGenerator{}, "type:normal; mean:10; std:0", 3)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{10.0, 10.0, 10.0}, vals)
}

func TestZeroRows(t *testing.T) {
	vals, err := run(t, &IntegerGenerator{}, "type:integer; range:1-1; unique:true", 0)
	require.NoError(t, err)
	assert.Empty(t, vals)
}
