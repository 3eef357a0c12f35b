package reststeps

import (
	"reflect"
	"strings"
)

// Field creates a FieldRules binding a struct field pointer to its validation rules.
func Field[T any](fieldPtr *T, rules ...Rule) *FieldRules {
	return &FieldRules{
		fieldPtr: fieldPtr,
		rules:    rules,
	}
}

// shapeField is one JSON member of a shape. Fields of embedded structs are
// listed as members of the embedding shape.
type shapeField struct {
	key    string // json name, or the Go name without a json tag
	goName string
	value  reflect.Value
	// hidden fields carry docs:"skip" and are left out of generated schemas.
	hidden bool
	// unchecked fields carry validate:"-" and need no rules.
	unchecked bool
}

// shapeFields lists the JSON members of the struct sv. Unexported fields
// and json:"-" fields are not members. sv should be addressable so rule
// targets can be matched by address.
func shapeFields(sv reflect.Value) []shapeField {
	var out []shapeField
	t := sv.Type()
	for i := range t.NumField() {
		sf, fv := t.Field(i), sv.Field(i)
		if sf.Anonymous {
			if fv.Kind() == reflect.Pointer && !fv.IsNil() {
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				out = append(out, shapeFields(fv)...)
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		key, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if key == "-" {
			continue
		}
		if key == "" {
			key = sf.Name
		}
		docs, _, _ := strings.Cut(sf.Tag.Get("docs"), ",")
		out = append(out, shapeField{
			key:       key,
			goName:    sf.Name,
			value:     fv,
			hidden:    docs == "skip",
			unchecked: sf.Tag.Get("validate") == "-",
		})
	}
	return out
}

// pointsAt reports whether ptr is the address of field.
func pointsAt(field reflect.Value, ptr any) bool {
	p := reflect.ValueOf(ptr)
	if p.Kind() != reflect.Pointer || p.IsNil() || !field.CanAddr() {
		return false
	}
	return field.UnsafeAddr() == p.Pointer() && field.Type() == p.Elem().Type()
}

// ruleKey returns the JSON key of the member of sv that ptr points at.
func ruleKey(sv reflect.Value, ptr any) (string, bool) {
	for _, f := range shapeFields(sv) {
		if pointsAt(f.value, ptr) {
			return f.key, true
		}
	}
	return "", false
}

// expandFields replaces a rule set on an embedded Ruler with the embedded
// struct's own rules, recursively, so error keys and schema properties stay
// flat.
func expandFields(structPtr any, fields []*FieldRules) []*FieldRules {
	sv := reflect.Indirect(reflect.ValueOf(structPtr))
	if sv.Kind() != reflect.Struct {
		return fields
	}
	out := make([]*FieldRules, 0, len(fields))
	for _, fr := range fields {
		if r, ok := fr.fieldPtr.(Ruler); ok && embeds(sv, fr.fieldPtr) {
			out = append(out, expandFields(fr.fieldPtr, r.Rules())...)
			continue
		}
		out = append(out, fr)
	}
	return out
}

func embeds(sv reflect.Value, ptr any) bool {
	t := sv.Type()
	for i := range t.NumField() {
		if t.Field(i).Anonymous && pointsAt(sv.Field(i), ptr) {
			return true
		}
	}
	return false
}
