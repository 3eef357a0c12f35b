package reststeps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/xeipuuv/gojsonschema"
)

// ShapeError lists every way a response body deviates from an expected shape.
type ShapeError struct {
	Shape    string
	Problems []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("response does not match %s: %s", e.Shape, strings.Join(e.Problems, "; "))
}

// schemas caches generated schemas per shape type; generation walks every
// field with reflection and shapes are checked once per scenario.
var schemas sync.Map // reflect.Type -> *openapi3.SchemaRef

func schemaFor(t reflect.Type) (*openapi3.SchemaRef, error) {
	if ref, ok := schemas.Load(t); ok {
		return ref.(*openapi3.SchemaRef), nil
	}
	ref, err := NewSchemaRefForValue(reflect.New(t).Elem().Interface())
	if err != nil {
		return nil, fmt.Errorf("generate schema for %s: %w", t, err)
	}
	actual, _ := schemas.LoadOrStore(t, ref)
	return actual.(*openapi3.SchemaRef), nil
}

// ShapeName returns the type name of a shape, e.g. "SuccessResponse".
func ShapeName(shape any) string {
	t := reflect.TypeOf(shape)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}

// ValidateShape checks a JSON document against a shape such as
// services.ConsentSuccessResponse{}. The raw document is checked against the
// OpenAPI schema generated from the shape, then decoded into a fresh instance
// of the shape's type, normalized and rule-validated. All problems are collected in
// a *ShapeError. A document that is not JSON returns an error wrapping
// [ErrParse].
func ValidateShape(data []byte, shape any) error {
	return ValidateShapeCtx(context.Background(), data, shape)
}

// ValidateShapeCtx is like ValidateShape but stops with ctx's error once ctx
// is done.
func ValidateShapeCtx(ctx context.Context, data []byte, shape any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := reflect.TypeOf(shape)
	if t == nil {
		return fmt.Errorf("%w: nil shape", ErrInvalidArgument)
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	ref, err := schemaFor(t)
	if err != nil {
		return err
	}

	var problems []string
	if err := ref.Value.VisitJSON(doc, openapi3.MultiErrors()); err != nil {
		problems = append(problems, schemaProblems(err)...)
	}

	dst := reflect.New(t).Interface()
	if err := UnmarshalAndValidateCtx(ctx, data, dst); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return &ShapeError{Shape: t.Name(), Problems: problems}
	}
	return nil
}

func schemaProblems(err error) []string {
	var me openapi3.MultiError
	if !errors.As(err, &me) {
		return []string{describeSchemaError(err)}
	}
	out := make([]string, 0, len(me))
	for _, e := range me {
		out = append(out, schemaProblems(e)...)
	}
	return out
}

func describeSchemaError(err error) string {
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if p := se.JSONPointer(); len(p) > 0 {
			return "/" + strings.Join(p, "/") + ": " + se.Reason
		}
		return se.Reason
	}
	return err.Error()
}

// ValidateJSONSchema checks a JSON document against a raw JSON Schema
// document, such as a schema file shipped next to a feature. name labels the
// returned *ShapeError.
func ValidateJSONSchema(name string, schema, data []byte) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: json schema %s: %v", ErrParse, name, err)
	}
	if res.Valid() {
		return nil
	}
	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return &ShapeError{Shape: name, Problems: problems}
}
