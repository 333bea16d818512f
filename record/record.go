// Package record reads and writes annotated-image records in the tf.Example
// protobuf wire format.
//
// Wire layout:
//
//	Example  { Features features = 1; }
//	Features { map<string, Feature> feature = 1; }
//	Feature  { oneof kind { BytesList bytes_list = 1; FloatList float_list = 2; Int64List int64_list = 3; } }
//	*List    { repeated <T> value = 1; }
package record

import (
	"fmt"

	"github.com/Tutortoise/example-decoder/schema"
)

// Value is one feature's typed list. Fixed fields hold a single element.
type Value struct {
	Type    schema.ValueType
	Bytes   [][]byte
	Int64   []int64
	Float32 []float32
}

// Len is the number of elements held for the value's type.
func (v Value) Len() int {
	switch v.Type {
	case schema.Bytes:
		return len(v.Bytes)
	case schema.Int64:
		return len(v.Int64)
	case schema.Float32:
		return len(v.Float32)
	}
	return 0
}

// ParseError reports a record that does not conform to the schema.
type ParseError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("feature %q: %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Raw is the parsed content of one record. Every fixed field of the schema is
// present. Variable fields are present only when the record carried them
// until the record has been densified.
type Raw struct {
	values map[string]Value
}

// Has reports whether name is present.
func (r *Raw) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Value returns the stored value for name.
func (r *Raw) Value(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Bytes returns the scalar bytes value of a fixed field.
func (r *Raw) Bytes(name string) []byte {
	v := r.values[name]
	if len(v.Bytes) == 0 {
		return nil
	}
	return v.Bytes[0]
}

// Int64 returns the scalar value of a fixed int64 field.
func (r *Raw) Int64(name string) int64 {
	v := r.values[name]
	if len(v.Int64) == 0 {
		return 0
	}
	return v.Int64[0]
}

// BytesList returns the list held by a variable bytes field.
func (r *Raw) BytesList(name string) [][]byte {
	return r.values[name].Bytes
}

// Int64s returns the list held by a variable int64 field.
func (r *Raw) Int64s(name string) []int64 {
	return r.values[name].Int64
}

// Float32s returns the list held by a variable float32 field.
func (r *Raw) Float32s(name string) []float32 {
	return r.values[name].Float32
}

// Parse reads one serialized record and applies the schema: undeclared
// features are ignored, absent fixed fields take their default and absent
// variable fields are left out until Densify.
func Parse(data []byte, s *schema.FeatureSchema) (*Raw, error) {
	features, err := decodeExample(data, s)
	if err != nil {
		return nil, err
	}

	raw := &Raw{values: make(map[string]Value, s.Len())}
	for _, f := range s.Fields() {
		v, ok := features[f.Name]

		switch f.Kind {
		case schema.Fixed:
			if !ok || v.Len() == 0 {
				if f.Required {
					return nil, &ParseError{Field: f.Name, Message: "required feature is missing"}
				}
				raw.values[f.Name] = defaultValue(f)
				continue
			}
			if v.Len() != 1 {
				return nil, &ParseError{Field: f.Name, Message: fmt.Sprintf("expected a single value, got %d", v.Len())}
			}
		case schema.Variable:
			if !ok {
				continue
			}
		}
		raw.values[f.Name] = v
	}
	return raw, nil
}

func defaultValue(f schema.FieldDescriptor) Value {
	v := Value{Type: f.Type}
	switch d := f.Default.(type) {
	case []byte:
		v.Bytes = [][]byte{d}
	case int64:
		v.Int64 = []int64{d}
	case float32:
		v.Float32 = []float32{d}
	}
	return v
}

// Densify returns a copy of raw in which every variable field of s is an
// explicit, possibly empty, list.
func Densify(raw *Raw, s *schema.FeatureSchema) *Raw {
	out := &Raw{values: make(map[string]Value, len(raw.values))}
	for name, v := range raw.values {
		out.values[name] = v
	}

	for _, f := range s.Fields() {
		if f.Kind != schema.Variable {
			continue
		}
		v := out.values[f.Name]
		v.Type = f.Type
		switch f.Type {
		case schema.Bytes:
			if v.Bytes == nil {
				v.Bytes = [][]byte{}
			}
		case schema.Int64:
			if v.Int64 == nil {
				v.Int64 = []int64{}
			}
		case schema.Float32:
			if v.Float32 == nil {
				v.Float32 = []float32{}
			}
		}
		out.values[f.Name] = v
	}
	return out
}
