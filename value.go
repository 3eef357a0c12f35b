package reststeps

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind identifies which variant a [Value] holds.
type Kind uint8

const (
	// Absent is the zero Kind. Get on a missing key returns an Absent value.
	Absent Kind = iota
	Null
	String
	Number
	Bool
	Object
	Array
)

var kindNames = [...]string{"absent", "null", "string", "number", "bool", "object", "array"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single JSON value inside a [Body]. Numbers keep their JSON
// literal so a template round-trips without float rounding.
type Value struct {
	kind Kind
	str  string
	b    bool
	obj  *Body
	arr  []Value
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// NumberValue returns a number Value from a JSON number literal.
// The literal is not checked; use [ParseNumber] for untrusted input.
func NumberValue(n json.Number) Value { return Value{kind: Number, str: string(n)} }

// IntValue returns a number Value holding i.
func IntValue(i int64) Value { return Value{kind: Number, str: strconv.FormatInt(i, 10)} }

// FloatValue returns a number Value holding f.
func FloatValue(f float64) Value {
	return Value{kind: Number, str: strconv.FormatFloat(f, 'f', -1, 64)}
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NullValue returns a JSON null.
func NullValue() Value { return Value{kind: Null} }

// ObjectValue wraps a nested body. A nil body is treated as an empty object.
func ObjectValue(b *Body) Value {
	if b == nil {
		b = NewBody()
	}
	return Value{kind: Object, obj: b}
}

// ArrayValue returns an array Value holding vs.
func ArrayValue(vs ...Value) Value { return Value{kind: Array, arr: vs} }

// ParseNumber returns a number Value if s is a valid JSON number literal.
func ParseNumber(s string) (Value, bool) {
	if s == "" || !json.Valid([]byte(s)) {
		return Value{}, false
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return Value{}, false
	}
	return Value{kind: Number, str: s}, true
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the zero Value.
func (v Value) IsAbsent() bool { return v.kind == Absent }

// Str returns the string held by v.
func (v Value) Str() (string, bool) { return v.str, v.kind == String }

// Number returns the JSON literal of a number Value.
func (v Value) Number() (json.Number, bool) { return json.Number(v.str), v.kind == Number }

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == Bool }

// Object returns the nested body held by v.
func (v Value) Object() (*Body, bool) { return v.obj, v.kind == Object }

// Array returns the elements held by v.
func (v Value) Array() ([]Value, bool) { return v.arr, v.kind == Array }

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case Object:
		return Value{kind: Object, obj: v.obj.Clone()}
	case Array:
		arr := make([]Value, len(v.arr))
		for i := range v.arr {
			arr[i] = v.arr[i].Clone()
		}
		return Value{kind: Array, arr: arr}
	}
	return v
}

// Equal reports whether v and o hold the same JSON value. Object key order is
// not significant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case String:
		return v.str == o.str
	case Number:
		a, errA := strconv.ParseFloat(v.str, 64)
		b, errB := strconv.ParseFloat(o.str, 64)
		if errA != nil || errB != nil {
			return v.str == o.str
		}
		return a == b
	case Bool:
		return v.b == o.b
	case Object:
		return v.obj.Equal(o.obj)
	case Array:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes v. An Absent value encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case String:
		b, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case Number:
		buf.WriteString(v.str)
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Object:
		return v.obj.encode(buf)
	case Array:
		buf.WriteByte('[')
		for i := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := v.arr[i].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		buf.WriteString("null")
	}
	return nil
}
