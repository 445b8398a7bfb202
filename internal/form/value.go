package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the primitive type a field holds.
type Kind int

const (
	KindString Kind = iota + 1
	KindBool
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return "blank"
	}
}

// Value is a typed field value. The zero Value is blank: the field exists
// but has not been given a value yet.
type Value struct {
	kind Kind
	str  string
	b    bool
	n    int64
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// BoolValue returns a bool Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue returns an integer Value.
func IntValue(n int64) Value { return Value{kind: KindInt, n: n} }

// Kind reports the value's kind, or zero for a blank value.
func (v Value) Kind() Kind { return v.kind }

// IsBlank reports whether the value has never been set.
func (v Value) IsBlank() bool { return v.kind == 0 }

// Str returns the string payload; non-string values are formatted.
func (v Value) Str() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.n, 10)
	default:
		return ""
	}
}

// Truthy mirrors loose form semantics: blank, "", false and 0 are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindBool:
		return v.b
	case KindInt:
		return v.n != 0
	default:
		return false
	}
}

// Int returns the integer payload and whether the value is an integer.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.n, true
}

func (v Value) String() string {
	if v.IsBlank() {
		return "<blank>"
	}
	return v.Str()
}

// MarshalJSON encodes the value as its JSON primitive; blank becomes null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.n)
	default:
		return []byte("null"), nil
	}
}

// FieldSet maps field keys to values.
type FieldSet map[string]Value

// Clone returns an independent copy.
func (fs FieldSet) Clone() FieldSet {
	if fs == nil {
		return FieldSet{}
	}
	return maps.Clone(fs)
}

// Value returns the value for key.
func (fs FieldSet) Value(key string) (Value, bool) {
	v, ok := fs[key]
	return v, ok
}

// Keys returns the keys in sorted order.
func (fs FieldSet) Keys() []string {
	return slices.Sorted(maps.Keys(fs))
}

// Without returns a copy with the given keys removed.
func (fs FieldSet) Without(keys ...string) FieldSet {
	out := fs.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

var (
	// ErrUnknownField is returned for keys the schema does not list.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidValue is returned when a raw value cannot be coerced to the field's kind.
	ErrInvalidValue = errors.New("invalid value")
)

// coerce converts loosely typed input (JSON numbers, form strings, bools)
// into a Value of the requested kind. nil and "" yield a blank value for
// ints so that an unset numeric field can be represented.
func coerce(kind Kind, raw any) (Value, error) {
	if v, ok := raw.(Value); ok {
		if v.IsBlank() || v.kind == kind {
			return v, nil
		}
		raw = v.rawAny()
	}
	switch kind {
	case KindString:
		return coerceString(raw)
	case KindBool:
		return coerceBool(raw)
	case KindInt:
		return coerceInt(raw)
	}
	return Value{}, fmt.Errorf("%w: unsupported kind %d", ErrInvalidValue, kind)
}

func (v Value) rawAny() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindInt:
		return v.n
	}
	return nil
}

func coerceString(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return StringValue(""), nil
	case string:
		return StringValue(t), nil
	case bool:
		return StringValue(strconv.FormatBool(t)), nil
	case json.Number:
		return StringValue(t.String()), nil
	case float64:
		return StringValue(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case int:
		return StringValue(strconv.Itoa(t)), nil
	case int64:
		return StringValue(strconv.FormatInt(t, 10)), nil
	}
	return Value{}, fmt.Errorf("%w: %T is not a string", ErrInvalidValue, raw)
}

func coerceBool(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return BoolValue(false), nil
	case bool:
		return BoolValue(t), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "0", "false", "off", "no":
			return BoolValue(false), nil
		case "1", "true", "on", "yes":
			return BoolValue(true), nil
		}
		return Value{}, fmt.Errorf("%w: %q is not a bool", ErrInvalidValue, t)
	case float64:
		return BoolValue(t != 0), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return BoolValue(f != 0), nil
	case int:
		return BoolValue(t != 0), nil
	case int64:
		return BoolValue(t != 0), nil
	}
	return Value{}, fmt.Errorf("%w: %T is not a bool", ErrInvalidValue, raw)
}

func coerceInt(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Value{}, nil
	case bool:
		if t {
			return IntValue(1), nil
		}
		return IntValue(0), nil
	case int:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case float64:
		if t != math.Trunc(t) {
			return Value{}, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, t)
		}
		if math.Abs(t) >= 1<<63 {
			return Value{}, fmt.Errorf("%w: %v is out of range", ErrInvalidValue, t)
		}
		return IntValue(int64(t)), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return IntValue(n), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return Value{}, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, t)
		}
		return IntValue(n), nil
	}
	return Value{}, fmt.Errorf("%w: %T is not an integer", ErrInvalidValue, raw)
}
