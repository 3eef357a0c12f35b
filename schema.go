package reststeps

import (
	"fmt"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// NewSchemaRefForValue generates an OpenAPI schema for a request or response
// shape. The rules of every [Ruler] in the shape are described on the
// schema, so a Required field is listed under "required" and an In rule
// becomes an enum. Fields tagged docs:"skip" are left out.
func NewSchemaRefForValue(value any) (*openapi3.SchemaRef, error) {
	g := openapi3gen.NewGenerator(openapi3gen.SchemaCustomizer(describeShape))
	return g.NewSchemaRefForValue(value, nil)
}

// describeShape is called by the generator for the root and every nested
// type. Types whose pointer is not a Ruler are left as generated.
func describeShape(_ string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	inst := reflect.New(t)
	r, ok := inst.Interface().(Ruler)
	if !ok || t.Kind() != reflect.Struct {
		return nil
	}
	sv := inst.Elem()

	for _, f := range shapeFields(sv) {
		if f.hidden {
			delete(schema.Properties, f.key)
		}
	}

	for i, fr := range expandFields(inst.Interface(), r.Rules()) {
		if embeds(sv, fr.fieldPtr) {
			continue
		}
		key, ok := ruleKey(sv, fr.fieldPtr)
		if !ok {
			return fmt.Errorf("rule %d of %s does not point at one of its fields", i, t)
		}
		prop := schema.Properties[key]
		if prop == nil {
			continue
		}
		for _, rule := range fr.rules {
			if err := rule.Describe(key, schema, prop); err != nil {
				return fmt.Errorf("%s.%s: %w", t.Name(), key, err)
			}
		}
	}
	return nil
}
