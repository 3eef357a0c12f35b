package transform

import (
	"reflect"
	"strings"
)

// StructTrimSpace trims every exported string reachable from the struct v
// points at: fields, pointed-to values, slice and array elements and map
// values, at any depth. Interface fields are left alone. Anything other
// than a non-nil struct pointer is ignored.
func StructTrimSpace(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return
	}
	trim(rv.Elem())
}

func trim(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.String:
		if rv.CanSet() {
			rv.SetString(strings.TrimSpace(rv.String()))
		}
	case reflect.Pointer:
		if !rv.IsNil() {
			trim(rv.Elem())
		}
	case reflect.Struct:
		t := rv.Type()
		for i := range t.NumField() {
			if t.Field(i).IsExported() {
				trim(rv.Field(i))
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			trim(rv.Index(i))
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			// Map values are not addressable: trim a copy and store it.
			cp := reflect.New(iter.Value().Type()).Elem()
			cp.Set(iter.Value())
			trim(cp)
			rv.SetMapIndex(iter.Key(), cp)
		}
	}
}

// RowTrimSpace returns a copy of a data-table row with keys and values
// trimmed. Cells under a blank header are dropped.
func RowTrimSpace(row map[string]string) map[string]string {
	out := make(map[string]string, len(row))
	for k, v := range row {
		if k = strings.TrimSpace(k); k != "" {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out
}
