package form

import (
	"errors"
	"fmt"
)

// ErrReadOnlyField is returned when a user edit targets a server-owned field.
var ErrReadOnlyField = errors.New("read-only field")

// Field describes one recognized key.
type Field struct {
	Key   string
	Kind  Kind
	Label string
	// ReadOnly fields are supplied by the server and rejected by SetField.
	ReadOnly bool
}

// Schema is an ordered set of fields.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema. Duplicate keys and missing kinds are programmer
// errors and panic.
func NewSchema(fields ...Field) Schema {
	s := Schema{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Key == "" || f.Kind == 0 {
			panic(fmt.Sprintf("form: invalid field %+v", f))
		}
		if _, dup := s.index[f.Key]; dup {
			panic("form: duplicate field " + f.Key)
		}
		s.index[f.Key] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// Fields returns the fields in declaration order.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the field for key.
func (s Schema) Lookup(key string) (Field, bool) {
	i, ok := s.index[key]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Coerce converts raw into a Value of the key's kind.
func (s Schema) Coerce(key string, raw any) (Value, error) {
	f, ok := s.Lookup(key)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	v, err := coerce(f.Kind, raw)
	if err != nil {
		return Value{}, fmt.Errorf("field %q: %w", key, err)
	}
	return v, nil
}

// Normalize coerces every entry of fs, dropping unknown keys and values that
// do not fit their kind. Dropped keys are returned so callers can log them.
func (s Schema) Normalize(fs FieldSet) (FieldSet, []string) {
	out := make(FieldSet, len(fs))
	var dropped []string
	for k, v := range fs {
		cv, err := s.Coerce(k, v)
		if err != nil {
			dropped = append(dropped, k)
			continue
		}
		out[k] = cv
	}
	return out, dropped
}
