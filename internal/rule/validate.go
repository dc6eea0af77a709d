package rule

import (
	"fmt"
	"sort"

	"github.com/mmrzaf/tabgen/internal/domain"
)

// Types outside this table have no mandatory companions.
var requiredParams = map[string][]string{
	"integer":  {"range"},
	"decimal":  {"range"},
	"string":   {"pattern"},
	"choice":   {"values"},
	"date":     {"start", "end"},
	"datetime": {"start", "end"},
}

// Requirements returns a copy of the type -> required parameters table.
func Requirements() map[string][]string {
	out := make(map[string][]string, len(requiredParams))
	for t, keys := range requiredParams {
		out[t] = append([]string(nil), keys...)
	}
	return out
}

// Check reports whether p names a type and carries that type's mandatory
// parameters. Errors wrap domain.ErrMissingType or domain.ErrMissingRequiredParam.
func Check(p ParsedRule) error {
	t := p.Type()
	if t == "" {
		return fmt.Errorf("%w: rule must specify 'type' parameter", domain.ErrMissingType)
	}

	var missing []string
	for _, key := range requiredParams[t] {
		if !p.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: type '%s' is missing required parameters %v", domain.ErrMissingRequiredParam, t, missing)
	}
	return nil
}

// Validate is the boolean form of Check.
func Validate(p ParsedRule) (bool, string) {
	if err := Check(p); err != nil {
		return false, err.Error()
	}
	return true, ""
}
