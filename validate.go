package reststeps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var rulerType = reflect.TypeOf((*Ruler)(nil)).Elem()

// Validate checks value against its rules. value is usually a pointer to a
// shape. Slices and maps of shapes are checked element by element with
// errors keyed by index or map key; values without rules pass. Failures are
// [ValidationErrors] keyed by JSON field name.
func Validate(value any) error {
	return ValidateCtx(context.Background(), value)
}

// ValidateCtx is like Validate but returns ctx's error once ctx is done.
func ValidateCtx(ctx context.Context, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return check(reflect.ValueOf(value))
}

// UnmarshalAndValidate decodes b into the shape dst, normalizes it and
// validates it.
func UnmarshalAndValidate(b []byte, dst any) error {
	return UnmarshalAndValidateCtx(context.Background(), b, dst)
}

// UnmarshalAndValidateCtx is like UnmarshalAndValidate with a context.
func UnmarshalAndValidateCtx(ctx context.Context, b []byte, dst any) error {
	if err := json.Unmarshal(b, dst); err != nil {
		return err
	}
	normalize(dst)
	return ValidateCtx(ctx, dst)
}

// DecodeAndValidate reads one JSON value from r into dst, then normalizes and
// validates it. Backend stubs use it on incoming request bodies.
func DecodeAndValidate(r io.Reader, dst any) error {
	return DecodeAndValidateContext(context.Background(), r, dst)
}

// DecodeAndValidateContext is like DecodeAndValidate with a context.
func DecodeAndValidateContext(ctx context.Context, r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return err
	}
	normalize(dst)
	return ValidateCtx(ctx, dst)
}

func check(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		if r, ok := rv.Interface().(Ruler); ok {
			return validateShape(rv.Interface(), r)
		}
		return check(rv.Elem())
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return check(rv.Elem())
	case reflect.Struct:
		// Nested shapes arrive by value; Rules has a pointer receiver.
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		if r, ok := ptr.Interface().(Ruler); ok {
			return validateShape(ptr.Interface(), r)
		}
	case reflect.Slice, reflect.Array:
		if !carriesRules(rv.Type().Elem()) {
			return nil
		}
		errs := validation.Errors{}
		for i := range rv.Len() {
			if err := check(rv.Index(i)); err != nil {
				errs[strconv.Itoa(i)] = err
			}
		}
		return errs.Filter()
	case reflect.Map:
		if !carriesRules(rv.Type().Elem()) {
			return nil
		}
		errs := validation.Errors{}
		iter := rv.MapRange()
		for iter.Next() {
			if err := check(iter.Value()); err != nil {
				errs[fmt.Sprint(iter.Key().Interface())] = err
			}
		}
		return errs.Filter()
	}
	return nil
}

// carriesRules reports whether values of t, or elements nested in them,
// are shapes.
func carriesRules(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		return reflect.PointerTo(t).Implements(rulerType)
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
		return carriesRules(t.Elem())
	}
	return false
}

// validateShape runs the shape's rules through ozzo. Every field also gets
// nestedShapes, so shapes inside fields are checked with their own rules.
func validateShape(ptr any, r Ruler) error {
	fields := expandFields(ptr, r.Rules())
	ozzo := make([]*validation.FieldRules, len(fields))
	for i, fr := range fields {
		rules := make([]validation.Rule, 0, len(fr.rules)+1)
		for _, rule := range fr.rules {
			rules = append(rules, rule)
		}
		ozzo[i] = validation.Field(fr.fieldPtr, append(rules, nestedShapes{})...)
	}
	return validation.ValidateStruct(ptr, ozzo...)
}

type nestedShapes struct{}

func (nestedShapes) Validate(value any) error {
	if value == nil {
		return nil
	}
	return check(reflect.ValueOf(value))
}
