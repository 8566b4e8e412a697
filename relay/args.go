package relay

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Args are the Relay-style connection arguments.
// Exactly one of First and Last must be set. An empty After or Before means the
// argument was not supplied.
type Args struct {
	After  string `json:"after,omitempty"`
	Before string `json:"before,omitempty"`
	First  *int   `json:"first,omitempty" validate:"omitempty,gte=0"`
	Last   *int   `json:"last,omitempty" validate:"omitempty,gte=0"`
}

// Int returns a pointer to n, for filling First and Last
func Int(n int) *int {
	return &n
}

// Forward returns arguments for the first n items after the given cursor
func Forward(n int, after string) Args {
	return Args{First: Int(n), After: after}
}

// Backward returns arguments for the last n items before the given cursor
func Backward(n int, before string) Args {
	return Args{Last: Int(n), Before: before}
}

// IsForward reports whether the arguments page from the head of the relation
func (a Args) IsForward() bool {
	return a.First != nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks the direction arguments. It does not decode cursors, which
// requires the relation's codec.
func (a Args) Validate() error {
	switch {
	case a.First != nil && a.Last != nil:
		return InvalidArgumentsError("first", "'first' and 'last' are mutually exclusive")
	case a.First == nil && a.Last == nil:
		return InvalidArgumentsError("first", "one of 'first' or 'last' is required")
	}

	if err := validate.Struct(a); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return InvalidArgumentsError(verrs[0].Field(), "must not be negative")
		}
		return InvalidArgumentsError("first", err.Error())
	}
	return nil
}
