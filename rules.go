package reststeps

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// appendDescription adds desc to the schema description, space separated.
func appendDescription(ref *openapi3.SchemaRef, desc string) {
	if ref.Value.Description != "" && !strings.HasSuffix(ref.Value.Description, " ") {
		ref.Value.Description += " "
	}
	ref.Value.Description += desc
}

type requiredRule struct {
	validation.RequiredRule
}

// Required checks that a value is present and not empty. Zero numbers and
// false are empty; use [Present] for fields where those are legitimate.
var Required = requiredRule{validation.Required}

func (r requiredRule) Describe(name string, schema *openapi3.Schema, _ *openapi3.SchemaRef) error {
	schema.Required = append(schema.Required, name)
	return nil
}

type notNilRule struct {
	validation.Rule
	required bool
}

// NotNil checks that a pointer, map, slice or interface value is not nil.
var NotNil = notNilRule{Rule: validation.NotNil}

// Present checks that a pointer field was set by the decoder, so the key was
// in the JSON document. Zero values such as 0 and false pass. The field is
// listed as required in the schema.
var Present = notNilRule{Rule: validation.NotNil, required: true}

func (r notNilRule) Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Nullable = false
	if r.required {
		schema.Required = append(schema.Required, name)
	}
	return nil
}

// In returns a rule that checks if a value is one of the allowed values.
func In(values ...any) Rule {
	want := make([]string, len(values))
	for i := range values {
		want[i] = fmt.Sprintf("'%v'", values[i])
	}
	return &inRule{
		validation.In(values...).Error(fmt.Sprintf("must be one of %s", strings.Join(want, ", "))),
		values,
	}
}

type inRule struct {
	validation.InRule
	values []any
}

func (r *inRule) Validate(value any) error {
	if err := r.InRule.Validate(value); err != nil {
		return fmt.Errorf("%s got '%v'", err, value)
	}
	return nil
}

func (r *inRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Enum = r.values
	return nil
}

type thresholdRule struct {
	validation.ThresholdRule
	threshold any
	max       bool
}

// Min returns a rule that checks if a value is greater than or equal to
// threshold. Numeric strings are parsed with the threshold's kind.
func Min(threshold any) Rule {
	return thresholdRule{validation.Min(threshold), threshold, false}
}

// Max returns a rule that checks if a value is less than or equal to
// threshold. Numeric strings are parsed with the threshold's kind.
func Max(threshold any) Rule {
	return thresholdRule{validation.Max(threshold), threshold, true}
}

func (r thresholdRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	f, err := getFloat(r.threshold)
	if err != nil {
		return err
	}
	if ref.Value.Type.Is(openapi3.TypeString) {
		word := "minimum"
		if r.max {
			word = "maximum"
		}
		appendDescription(ref, fmt.Sprintf("%s %v", word, r.threshold))
		return nil
	}
	if r.max {
		ref.Value.Max = &f
	} else {
		ref.Value.Min = &f
	}
	return nil
}

var floatType = reflect.TypeOf(float64(0))

func getFloat(unk any) (float64, error) {
	v := reflect.Indirect(reflect.ValueOf(unk))
	if !v.Type().ConvertibleTo(floatType) {
		return 0, fmt.Errorf("cannot convert %v to float64", v.Type())
	}
	return v.Convert(floatType).Float(), nil
}

func (r thresholdRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil || validation.IsEmpty(value) {
		return nil
	}
	if reflect.ValueOf(value).Kind() != reflect.String {
		return r.ThresholdRule.Validate(value)
	}

	s := reflect.ValueOf(value).String()
	var err error
	switch reflect.ValueOf(r.threshold).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value, err = strconv.ParseInt(s, 10, 64); err != nil {
			return errors.New("must be int64")
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if value, err = strconv.ParseUint(s, 10, 64); err != nil {
			return errors.New("must be uint64")
		}
	case reflect.Float32, reflect.Float64:
		if value, err = strconv.ParseFloat(s, 64); err != nil {
			return errors.New("must be float64")
		}
	}
	return r.ThresholdRule.Validate(value)
}

type lengthRule struct {
	validation.LengthRule
	min, max int
}

// Length checks that a string's rune length is within [lo, hi]. A hi of 0
// leaves the length unbounded above. Empty values are skipped.
func Length(lo, hi int) Rule {
	return &lengthRule{validation.RuneLength(lo, hi), lo, hi}
}

func (r *lengthRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.MinLength = uint64(r.min)
	if r.max > 0 {
		hi := uint64(r.max)
		ref.Value.MaxLength = &hi
	}
	return nil
}

// Each applies rules to every element of a slice, array or map.
func Each(rules ...Rule) Rule {
	vr := make([]validation.Rule, len(rules))
	for i, r := range rules {
		vr[i] = r
	}
	return &eachRule{validation.Each(vr...), rules}
}

type eachRule struct {
	validation.EachRule
	rules []Rule
}

// Describe documents the element rules on the item schema. Rules that mark a
// property required have no meaning for array items and are dropped.
func (r *eachRule) Describe(name string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	items := ref.Value.Items
	if items == nil || items.Value == nil {
		return nil
	}
	discard := &openapi3.Schema{}
	for _, rule := range r.rules {
		if err := rule.Describe(name, discard, items); err != nil {
			return err
		}
	}
	return nil
}

// DateRule checks that a string parses with a time layout.
type DateRule struct {
	validation.DateRule
	layout string
}

// Date returns a rule for strings in the given layout, e.g.
// "2006-01-02T15:04:05". Empty values are skipped.
func Date(layout string) *DateRule {
	return &DateRule{DateRule: validation.Date(layout), layout: layout}
}

// Describe implements [Rule] by setting the layout as the schema format.
func (r *DateRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Format = r.layout
	return nil
}

type stringRule struct {
	validation.StringRule
	desc   string
	format string
}

// Numeric checks that a string holds only digits, e.g. a backend status code
// such as "0000".
var Numeric Rule = stringRule{
	StringRule: validation.NewStringRule(govalidator.IsNumeric, "must contain digits only"),
	desc:       "digits only",
}

// URL checks that a string is an absolute http(s) URL.
var URL Rule = stringRule{
	StringRule: validation.NewStringRule(govalidator.IsRequestURL, "must be an absolute URL"),
	format:     "uri",
}

func (r stringRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if r.format != "" {
		ref.Value.Format = r.format
	}
	if r.desc != "" {
		appendDescription(ref, r.desc)
	}
	return nil
}

type describe struct {
	desc string
}

// Describe returns a documentation-only rule that appends desc to the schema description.
func Describe(desc string) Rule {
	return &describe{desc: desc}
}

func (r *describe) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref, r.desc)
	return nil
}

func (r *describe) Validate(_ any) error {
	return nil
}

type custom struct {
	f    func(any) error
	desc string
}

// Custom returns a rule that uses f for validation and desc for documentation.
func Custom(f func(any) error, desc string) Rule {
	return custom{f: f, desc: desc}
}

func (r custom) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref, r.desc)
	return nil
}

func (r custom) Validate(value any) error {
	return r.f(value)
}

type example struct {
	ex any
}

// Example returns a documentation-only rule that sets the schema example value.
func Example(ex any) Rule {
	return &example{ex: ex}
}

func (r *example) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Example = r.ex
	return nil
}

func (r *example) Validate(_ any) error {
	return nil
}
