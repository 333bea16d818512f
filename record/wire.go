package record

import (
	"bytes"
	"fmt"
	"math"

	"github.com/Tutortoise/example-decoder/schema"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldExampleFeatures protowire.Number = 1
	fieldFeaturesEntry   protowire.Number = 1
	fieldEntryKey        protowire.Number = 1
	fieldEntryValue      protowire.Number = 2
	fieldBytesList       protowire.Number = 1
	fieldFloatList       protowire.Number = 2
	fieldInt64List       protowire.Number = 3
	fieldListValue       protowire.Number = 1
)

func wireError(field string, n int) error {
	return &ParseError{Field: field, Message: "malformed record", Cause: protowire.ParseError(n)}
}

// skipField consumes a field the decoder does not care about.
func skipField(b []byte, num protowire.Number, typ protowire.Type, field string) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, wireError(field, n)
	}
	return n, nil
}

func decodeExample(b []byte, s *schema.FeatureSchema) (map[string]Value, error) {
	out := make(map[string]Value)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError("", n)
		}
		b = b[n:]

		if num == fieldExampleFeatures && typ == protowire.BytesType {
			inner, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError("", n)
			}
			if err := decodeFeatures(inner, s, out); err != nil {
				return nil, err
			}
			b = b[n:]
			continue
		}

		n, err := skipField(b, num, typ, "")
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return out, nil
}

func decodeFeatures(b []byte, s *schema.FeatureSchema, out map[string]Value) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return wireError("", n)
		}
		b = b[n:]

		if num != fieldFeaturesEntry || typ != protowire.BytesType {
			n, err := skipField(b, num, typ, "")
			if err != nil {
				return err
			}
			b = b[n:]
			continue
		}

		entry, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return wireError("", n)
		}
		b = b[n:]

		key, feature, err := decodeEntry(entry)
		if err != nil {
			return err
		}
		f, ok := s.Lookup(key)
		if !ok {
			continue
		}
		v, err := decodeFeature(feature, f)
		if err != nil {
			return err
		}
		out[key] = v
	}
	return nil
}

func decodeEntry(b []byte) (string, []byte, error) {
	var key string
	var value []byte
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", nil, wireError("", n)
		}
		b = b[n:]

		switch {
		case num == fieldEntryKey && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return "", nil, wireError("", n)
			}
			key = string(v)
			b = b[n:]
		case num == fieldEntryValue && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return "", nil, wireError(key, n)
			}
			value = v
			b = b[n:]
		default:
			n, err := skipField(b, num, typ, key)
			if err != nil {
				return "", nil, err
			}
			b = b[n:]
		}
	}
	return key, value, nil
}

func listType(num protowire.Number) (schema.ValueType, bool) {
	switch num {
	case fieldBytesList:
		return schema.Bytes, true
	case fieldFloatList:
		return schema.Float32, true
	case fieldInt64List:
		return schema.Int64, true
	}
	return 0, false
}

// decodeFeature reads one Feature message. A feature with no list set is an
// empty list of the declared type.
func decodeFeature(b []byte, f schema.FieldDescriptor) (Value, error) {
	v := Value{Type: f.Type}
	set := false
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Value{}, wireError(f.Name, n)
		}
		b = b[n:]

		t, ok := listType(num)
		if !ok || typ != protowire.BytesType {
			n, err := skipField(b, num, typ, f.Name)
			if err != nil {
				return Value{}, err
			}
			b = b[n:]
			continue
		}

		list, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return Value{}, wireError(f.Name, n)
		}
		b = b[n:]

		// a later member of the oneof replaces an earlier one
		if !set || t != v.Type {
			v = Value{Type: t}
			set = true
		}
		if err := decodeList(list, &v, f.Name); err != nil {
			return Value{}, err
		}
	}

	if set && v.Type != f.Type {
		return Value{}, &ParseError{
			Field:   f.Name,
			Message: fmt.Sprintf("type mismatch: schema declares %s, record holds %s", f.Type, v.Type),
		}
	}
	return v, nil
}

func decodeList(b []byte, v *Value, field string) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return wireError(field, n)
		}
		b = b[n:]

		if num != fieldListValue {
			n, err := skipField(b, num, typ, field)
			if err != nil {
				return err
			}
			b = b[n:]
			continue
		}

		var err error
		switch v.Type {
		case schema.Bytes:
			n, err = decodeBytesValue(b, typ, v, field)
		case schema.Float32:
			n, err = decodeFloatValue(b, typ, v, field)
		case schema.Int64:
			n, err = decodeInt64Value(b, typ, v, field)
		}
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func unexpectedWireType(field string, typ protowire.Type) error {
	return &ParseError{Field: field, Message: fmt.Sprintf("unexpected wire type %d", typ)}
}

func decodeBytesValue(b []byte, typ protowire.Type, v *Value, field string) (int, error) {
	if typ != protowire.BytesType {
		return 0, unexpectedWireType(field, typ)
	}
	raw, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, wireError(field, n)
	}
	v.Bytes = append(v.Bytes, bytes.Clone(raw))
	return n, nil
}

func decodeFloatValue(b []byte, typ protowire.Type, v *Value, field string) (int, error) {
	switch typ {
	case protowire.Fixed32Type:
		bits, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return 0, wireError(field, n)
		}
		v.Float32 = append(v.Float32, math.Float32frombits(bits))
		return n, nil
	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError(field, n)
		}
		for len(packed) > 0 {
			bits, m := protowire.ConsumeFixed32(packed)
			if m < 0 {
				return 0, wireError(field, m)
			}
			v.Float32 = append(v.Float32, math.Float32frombits(bits))
			packed = packed[m:]
		}
		return n, nil
	}
	return 0, unexpectedWireType(field, typ)
}

func decodeInt64Value(b []byte, typ protowire.Type, v *Value, field string) (int, error) {
	switch typ {
	case protowire.VarintType:
		x, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return 0, wireError(field, n)
		}
		v.Int64 = append(v.Int64, int64(x))
		return n, nil
	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, wireError(field, n)
		}
		for len(packed) > 0 {
			x, m := protowire.ConsumeVarint(packed)
			if m < 0 {
				return 0, wireError(field, m)
			}
			v.Int64 = append(v.Int64, int64(x))
			packed = packed[m:]
		}
		return n, nil
	}
	return 0, unexpectedWireType(field, typ)
}
