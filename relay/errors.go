package relay

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is() for matching
var (
	// ErrInvalidArguments is returned when both or neither of first/last are supplied,
	// or when a count is negative
	ErrInvalidArguments = errors.New("invalid pagination arguments")

	// ErrInvalidCursor is returned when an after/before cursor cannot be decoded
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrFetchFailed is returned when the data source of a relation fails
	ErrFetchFailed = errors.New("fetch failed")

	// ErrForbidden is returned when an authorization gate rejects the owner
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidKeyField is returned when a key extractor cannot be built for a field
	ErrInvalidKeyField = errors.New("invalid key field")
)

// Code is a stable, client-facing error code
type Code string

const (
	CodeInvalidArguments Code = "INVALID_ARGUMENTS"
	CodeCursorDecode     Code = "CURSOR_DECODE_ERROR"
	CodeFetchFailed      Code = "FETCH_FAILED"
	CodeForbidden        Code = "FORBIDDEN"
)

// ArgumentError reports a rejected pagination argument
type ArgumentError struct {
	// Argument is the offending argument name: "first", "last", "after" or "before"
	Argument string
	Code     Code
	Err      error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument '%s': %v", e.Argument, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// InvalidArgumentsError creates an error for a direction or count violation
func InvalidArgumentsError(argument, reason string) error {
	return &ArgumentError{
		Argument: argument,
		Code:     CodeInvalidArguments,
		Err:      fmt.Errorf("%w: %s", ErrInvalidArguments, reason),
	}
}

// CursorDecodeError creates an error for an undecodable cursor argument.
// err is the codec error; it is wrapped so that errors.Is(ErrInvalidCursor) holds.
func CursorDecodeError(argument string, err error) error {
	if !errors.Is(err, ErrInvalidCursor) {
		err = fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return &ArgumentError{
		Argument: argument,
		Code:     CodeCursorDecode,
		Err:      err,
	}
}

// FetchError wraps a data source failure
type FetchError struct {
	Operation string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}

// NewFetchError creates a new FetchError
func NewFetchError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{
		Operation: operation,
		Err:       err,
	}
}

// CodeOf returns the stable code carried by err, or "" when err is not a pagination error
func CodeOf(err error) Code {
	var argErr *ArgumentError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &argErr):
		return argErr.Code
	case errors.Is(err, ErrInvalidCursor):
		return CodeCursorDecode
	case errors.Is(err, ErrInvalidArguments):
		return CodeInvalidArguments
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrFetchFailed):
		return CodeFetchFailed
	default:
		return ""
	}
}

// IsClientError reports whether err was caused by caller input and must not be retried
func IsClientError(err error) bool {
	switch CodeOf(err) {
	case CodeInvalidArguments, CodeCursorDecode, CodeForbidden:
		return true
	default:
		return false
	}
}
