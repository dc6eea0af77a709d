package domain

import "errors"

// Column-level failure kinds. None of them abort a run.
var (
	ErrMissingType          = errors.New("missing type")
	ErrMissingRequiredParam = errors.New("missing required parameter")
	ErrUnknownType          = errors.New("unknown type")
	ErrInsufficientDomain   = errors.New("insufficient domain")
	ErrMalformedRange       = errors.New("malformed range")
	ErrMalformedFormat      = errors.New("malformed format")
)

var errorKinds = []struct {
	err  error
	name string
}{
	{ErrMissingType, "MissingType"},
	{ErrMissingRequiredParam, "MissingRequiredParam"},
	{ErrUnknownType, "UnknownType"},
	{ErrInsufficientDomain, "InsufficientDomain"},
	{ErrMalformedRange, "MalformedRange"},
	{ErrMalformedFormat, "MalformedFormat"},
}

// ErrorKind names the failure kind of err, or "Unknown".
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unknown"
}
