package reststeps

import "fmt"

// MissingFieldPolicy decides what a [Mutator] does when the targeted field is
// not in the body.
type MissingFieldPolicy uint8

const (
	// IgnoreMissing skips a Remove of a missing field and lets SetNull create
	// it as "".
	IgnoreMissing MissingFieldPolicy = iota
	// FailOnMissing returns an error wrapping [ErrFieldNotFound].
	FailOnMissing
)

// Mutator applies a single field action to a request body.
// The zero value ignores missing fields.
type Mutator struct {
	Missing MissingFieldPolicy
}

// Apply mutates body in place and returns it.
//
// When path names a sub-key and body[path.Key] is an object, the action
// targets the sub-key inside that object. Otherwise it targets path.Key at
// the top level. Remove deletes the target; SetNull overwrites it with "",
// appending it when it is missing and the policy is IgnoreMissing.
// Exactly one field is affected and the order of the others is preserved.
func (m Mutator) Apply(body *Body, path FieldPath, action Action) (*Body, error) {
	if body == nil {
		return nil, fmt.Errorf("%w: nil body", ErrInvalidArgument)
	}
	if !action.Valid() {
		return body, fmt.Errorf("%w: unsupported action %q", ErrInvalidArgument, action)
	}
	if path.Key == "" {
		return body, fmt.Errorf("%w: empty field path", ErrInvalidArgument)
	}

	target, key := path.resolve(body)
	if !target.Has(key) {
		if m.Missing == FailOnMissing {
			return body, fmt.Errorf("%w: %s", ErrFieldNotFound, path)
		}
		if action == Remove {
			return body, nil
		}
	}

	switch action {
	case Remove:
		target.Delete(key)
	case SetNull:
		target.Set(key, StringValue(""))
	}
	return body, nil
}

// ApplyInput parses the field name and action literals, action first, and
// applies them. Nothing is mutated when either literal is rejected.
func (m Mutator) ApplyInput(body *Body, fieldName, action string) (*Body, error) {
	a, err := ParseAction(action)
	if err != nil {
		return body, err
	}
	path, err := ParseFieldPath(fieldName)
	if err != nil {
		return body, err
	}
	return m.Apply(body, path, a)
}

// Apply is [Mutator.Apply] with missing fields ignored.
func Apply(body *Body, path FieldPath, action Action) (*Body, error) {
	return Mutator{}.Apply(body, path, action)
}

// ApplyInput is [Mutator.ApplyInput] with missing fields ignored.
func ApplyInput(body *Body, fieldName, action string) (*Body, error) {
	return Mutator{}.ApplyInput(body, fieldName, action)
}
