package reststeps

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrInvalidArgument reports an unsupported action, a malformed field path
	// or a nil body.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFieldNotFound reports a mutation target that is not in the body when
	// the mutator runs with [FailOnMissing].
	ErrFieldNotFound = errors.New("field not found")

	// ErrParse reports a request template or response that is not a JSON object.
	ErrParse = errors.New("parse error")
)

// ValidationErrors is a map of field names to their validation errors.
// It is an alias for [validation.Errors] from ozzo-validation and implements
// the error interface with a JSON-friendly string representation.
type ValidationErrors = validation.Errors
