package reststeps

import (
	"fmt"
	"strings"
)

// Action is a mutation applied to one request field.
type Action uint8

const (
	// Remove deletes the field.
	Remove Action = iota + 1
	// SetNull overwrites the field with an empty string. The key and its
	// position are kept.
	SetNull
)

// ParseAction maps "remove" and "null" (any case) to an Action. Any other
// literal returns an error wrapping [ErrInvalidArgument].
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remove":
		return Remove, nil
	case "null":
		return SetNull, nil
	}
	return 0, fmt.Errorf("%w: unsupported action %q", ErrInvalidArgument, s)
}

func (a Action) String() string {
	switch a {
	case Remove:
		return "remove"
	case SetNull:
		return "null"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Valid reports whether a is one of the declared actions.
func (a Action) Valid() bool { return a == Remove || a == SetNull }
