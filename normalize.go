package reststeps

import "reflect"

// Normalizer is implemented by shapes that clean up decoded values before
// validation, e.g. trimming padding a backend puts around status codes.
type Normalizer interface {
	Normalize()
}

// normalize calls Normalize on dst and then on every shape nested in it,
// outermost first.
func normalize(dst any) {
	normalizeValue(reflect.ValueOf(dst))
}

func normalizeValue(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return
		}
		if n, ok := rv.Interface().(Normalizer); ok {
			n.Normalize()
		}
		if rv.Elem().Kind() == reflect.Struct {
			normalizeFields(rv.Elem())
		}
	case reflect.Struct:
		if rv.CanAddr() {
			normalizeValue(rv.Addr())
		}
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			normalizeValue(rv.Index(i))
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			v := iter.Value()
			if v.Kind() != reflect.Struct {
				normalizeValue(v)
				continue
			}
			// Map values are not addressable: normalize a copy and store it.
			cp := reflect.New(v.Type())
			cp.Elem().Set(v)
			normalizeValue(cp)
			rv.SetMapIndex(iter.Key(), cp.Elem())
		}
	}
}

func normalizeFields(sv reflect.Value) {
	t := sv.Type()
	for i := range t.NumField() {
		if t.Field(i).IsExported() {
			normalizeValue(sv.Field(i))
		}
	}
}
