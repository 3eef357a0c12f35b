package reststeps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Body is a JSON object whose keys keep their insertion order. Templates
// parsed with [ParseBody] keep the order of the source document, and
// [Body.MarshalJSON] writes keys back in that order.
//
// A Body is owned by a single scenario and is not safe for concurrent use.
type Body struct {
	keys   []string
	fields map[string]Value
}

// NewBody returns an empty body.
func NewBody() *Body {
	return &Body{fields: map[string]Value{}}
}

// ParseBody parses a JSON object. Malformed JSON, invalid UTF-8 or a top
// level that is not an object returns an error wrapping [ErrParse].
func ParseBody(data []byte) (*Body, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrParse)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrParse)
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, fmt.Errorf("%w: top level must be an object, got %s", ErrParse, res.Type)
	}
	obj, _ := fromResult(res).Object()
	return obj, nil
}

// MustParseBody is like [ParseBody] but panics on error.
func MustParseBody(s string) *Body {
	b, err := ParseBody([]byte(s))
	if err != nil {
		panic(err)
	}
	return b
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return NullValue()
	case gjson.False:
		return BoolValue(false)
	case gjson.True:
		return BoolValue(true)
	case gjson.Number:
		return Value{kind: Number, str: r.Raw}
	case gjson.String:
		return StringValue(r.String())
	case gjson.JSON:
		if r.IsObject() {
			body := NewBody()
			r.ForEach(func(k, v gjson.Result) bool {
				body.Set(k.String(), fromResult(v))
				return true
			})
			return ObjectValue(body)
		}
		arr := []Value{}
		r.ForEach(func(_, v gjson.Result) bool {
			arr = append(arr, fromResult(v))
			return true
		})
		return ArrayValue(arr...)
	}
	return Value{}
}

// Len returns the number of top-level keys.
func (b *Body) Len() int { return len(b.keys) }

// Keys returns the top-level keys in order.
func (b *Body) Keys() []string { return slices.Clone(b.keys) }

// Has reports whether key is present.
func (b *Body) Has(key string) bool {
	_, ok := b.fields[key]
	return ok
}

// Get returns the value stored under key. A missing key returns an Absent
// value and false.
func (b *Body) Get(key string) (Value, bool) {
	v, ok := b.fields[key]
	return v, ok
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position. Setting an Absent value deletes the key.
func (b *Body) Set(key string, v Value) {
	if v.IsAbsent() {
		b.Delete(key)
		return
	}
	if b.fields == nil {
		b.fields = map[string]Value{}
	}
	if _, ok := b.fields[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.fields[key] = v
}

// Delete removes key and reports whether it was present.
func (b *Body) Delete(key string) bool {
	if _, ok := b.fields[key]; !ok {
		return false
	}
	delete(b.fields, key)
	b.keys = slices.DeleteFunc(b.keys, func(k string) bool { return k == key })
	return true
}

// Clone returns a deep copy of b.
func (b *Body) Clone() *Body {
	c := &Body{
		keys:   slices.Clone(b.keys),
		fields: make(map[string]Value, len(b.fields)),
	}
	for k, v := range b.fields {
		c.fields[k] = v.Clone()
	}
	return c
}

// Equal reports whether b and o hold the same fields, ignoring order.
func (b *Body) Equal(o *Body) bool {
	if b == nil || o == nil {
		return b == o
	}
	if len(b.fields) != len(o.fields) {
		return false
	}
	for k, v := range b.fields {
		ov, ok := o.fields[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Assign overwrites the value at path with raw, coerced to the kind of the
// value already there: numbers and booleans are parsed when the existing value
// has that kind, the literal "null" becomes JSON null, anything else is stored
// as a string. Missing targets are not created. Assign reports whether a value
// was written.
func (b *Body) Assign(path FieldPath, raw string) bool {
	target, key := path.resolve(b)
	cur, ok := target.Get(key)
	if !ok {
		return false
	}
	target.Set(key, coerce(cur, raw))
	return true
}

func coerce(cur Value, raw string) Value {
	if raw == "null" {
		return NullValue()
	}
	switch cur.Kind() {
	case Number:
		if v, ok := ParseNumber(raw); ok {
			return v
		}
	case Bool:
		if bv, err := strconv.ParseBool(raw); err == nil {
			return BoolValue(bv)
		}
	}
	return StringValue(raw)
}

// String returns the compact JSON encoding of b.
func (b *Body) String() string {
	out, err := b.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("!body(%v)", err)
	}
	return string(out)
}

// MarshalJSON encodes b with keys in insertion order.
func (b *Body) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Body) encode(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := b.fields[k].encode(buf); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON replaces the contents of b with the parsed object.
func (b *Body) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBody(data)
	if err != nil {
		return err
	}
	*b = *parsed
	return nil
}
