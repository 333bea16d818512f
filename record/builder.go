package record

import (
	"math"

	"github.com/Tutortoise/example-decoder/schema"
	"google.golang.org/protobuf/encoding/protowire"
)

type entry struct {
	name  string
	value Value
}

// Builder assembles a serialized record. Features are written in the order
// they are added; adding a name twice keeps both entries and the later one
// wins on parse.
type Builder struct {
	entries  []entry
	unpacked bool
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Unpacked writes numeric lists one tagged element at a time instead of the
// packed encoding.
func (b *Builder) Unpacked() *Builder {
	b.unpacked = true
	return b
}

func (b *Builder) Bytes(name string, values ...[]byte) *Builder {
	b.entries = append(b.entries, entry{name: name, value: Value{Type: schema.Bytes, Bytes: values}})
	return b
}

func (b *Builder) Text(name string, value string) *Builder {
	return b.Bytes(name, []byte(value))
}

func (b *Builder) Int64(name string, values ...int64) *Builder {
	b.entries = append(b.entries, entry{name: name, value: Value{Type: schema.Int64, Int64: values}})
	return b
}

func (b *Builder) Float32(name string, values ...float32) *Builder {
	b.entries = append(b.entries, entry{name: name, value: Value{Type: schema.Float32, Float32: values}})
	return b
}

// Encode returns the serialized record.
func (b *Builder) Encode() []byte {
	var features []byte
	for _, e := range b.entries {
		var kv []byte
		kv = protowire.AppendTag(kv, fieldEntryKey, protowire.BytesType)
		kv = protowire.AppendString(kv, e.name)
		kv = protowire.AppendTag(kv, fieldEntryValue, protowire.BytesType)
		kv = protowire.AppendBytes(kv, b.encodeFeature(e.value))

		features = protowire.AppendTag(features, fieldFeaturesEntry, protowire.BytesType)
		features = protowire.AppendBytes(features, kv)
	}

	var out []byte
	out = protowire.AppendTag(out, fieldExampleFeatures, protowire.BytesType)
	out = protowire.AppendBytes(out, features)
	return out
}

func (b *Builder) encodeFeature(v Value) []byte {
	var list []byte
	var num protowire.Number

	switch v.Type {
	case schema.Bytes:
		num = fieldBytesList
		for _, x := range v.Bytes {
			list = protowire.AppendTag(list, fieldListValue, protowire.BytesType)
			list = protowire.AppendBytes(list, x)
		}
	case schema.Float32:
		num = fieldFloatList
		if b.unpacked {
			for _, x := range v.Float32 {
				list = protowire.AppendTag(list, fieldListValue, protowire.Fixed32Type)
				list = protowire.AppendFixed32(list, math.Float32bits(x))
			}
		} else if len(v.Float32) > 0 {
			var packed []byte
			for _, x := range v.Float32 {
				packed = protowire.AppendFixed32(packed, math.Float32bits(x))
			}
			list = protowire.AppendTag(list, fieldListValue, protowire.BytesType)
			list = protowire.AppendBytes(list, packed)
		}
	case schema.Int64:
		num = fieldInt64List
		if b.unpacked {
			for _, x := range v.Int64 {
				list = protowire.AppendTag(list, fieldListValue, protowire.VarintType)
				list = protowire.AppendVarint(list, uint64(x))
			}
		} else if len(v.Int64) > 0 {
			var packed []byte
			for _, x := range v.Int64 {
				packed = protowire.AppendVarint(packed, uint64(x))
			}
			list = protowire.AppendTag(list, fieldListValue, protowire.BytesType)
			list = protowire.AppendBytes(list, packed)
		}
	}

	var feature []byte
	feature = protowire.AppendTag(feature, num, protowire.BytesType)
	feature = protowire.AppendBytes(feature, list)
	return feature
}
