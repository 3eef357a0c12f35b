package reststeps

import (
	"fmt"
	"strings"
)

// FieldPath addresses a top-level key or one key inside a nested object.
// Only one level of nesting is supported.
type FieldPath struct {
	Key    string
	SubKey string
}

// ParseFieldPath parses "key" or "key.subKey". Empty segments and paths with
// more than two segments return an error wrapping [ErrInvalidArgument].
func ParseFieldPath(s string) (FieldPath, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) > 2 {
		return FieldPath{}, fmt.Errorf("%w: field path %q has more than two segments", ErrInvalidArgument, s)
	}
	for _, p := range parts {
		if p == "" {
			return FieldPath{}, fmt.Errorf("%w: field path %q has an empty segment", ErrInvalidArgument, s)
		}
	}
	fp := FieldPath{Key: parts[0]}
	if len(parts) == 2 {
		fp.SubKey = parts[1]
	}
	return fp, nil
}

// MustParseFieldPath is like [ParseFieldPath] but panics on error.
func MustParseFieldPath(s string) FieldPath {
	fp, err := ParseFieldPath(s)
	if err != nil {
		panic(err)
	}
	return fp
}

// Nested reports whether the path names a sub-key.
func (p FieldPath) Nested() bool { return p.SubKey != "" }

func (p FieldPath) String() string {
	if p.Nested() {
		return p.Key + "." + p.SubKey
	}
	return p.Key
}

// resolve returns the object and key that p addresses in b. A sub-key is only
// followed when b[Key] is an object; otherwise the top-level key is the target.
func (p FieldPath) resolve(b *Body) (*Body, string) {
	if p.Nested() {
		if v, ok := b.Get(p.Key); ok {
			if nested, ok := v.Object(); ok {
				return nested, p.SubKey
			}
		}
	}
	return b, p.Key
}
