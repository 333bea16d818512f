// Package schema declares the features recognised in an annotated-image record.
package schema

import (
	"fmt"
)

// Feature keys of an annotated-image record.
const (
	KeyImageEncoded = "image/encoded"
	KeySourceID     = "image/source_id"
	KeyHeight       = "image/height"
	KeyWidth        = "image/width"
	KeyXMin         = "image/object/bbox/xmin"
	KeyXMax         = "image/object/bbox/xmax"
	KeyYMin         = "image/object/bbox/ymin"
	KeyYMax         = "image/object/bbox/ymax"
	KeyClassLabel   = "image/object/class/label"
	KeyArea         = "image/object/area"
	KeyIsCrowd      = "image/object/is_crowd"
	KeyPseudoScore  = "image/object/pseudo_score"
	KeyMask         = "image/object/mask"
)

// UnknownDimension marks a height or width that must be taken from the decoded image.
const UnknownDimension int64 = -1

type Kind uint8

const (
	// Fixed fields hold exactly one value and fall back to a default.
	Fixed Kind = iota + 1
	// Variable fields hold a per-object list of any length.
	Variable
)

func (k Kind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Variable:
		return "variable"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

type ValueType uint8

const (
	Bytes ValueType = iota + 1
	Int64
	Float32
)

func (t ValueType) String() string {
	switch t {
	case Bytes:
		return "bytes"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// FieldDescriptor describes one feature of the record.
//
// Default is only meaningful for Fixed fields. Its dynamic type is []byte, int64
// or float32 to match Type. Required fixed fields have no default.
type FieldDescriptor struct {
	Name     string
	Kind     Kind
	Type     ValueType
	Default  any
	Required bool
}

// Validate checks that a fixed field carries a default compatible with its type.
func (f FieldDescriptor) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("field descriptor has no name")
	}
	if f.Kind != Fixed {
		return nil
	}
	if f.Required {
		if f.Default != nil {
			return fmt.Errorf("field %q: required field cannot carry a default", f.Name)
		}
		return nil
	}

	ok := false
	switch f.Type {
	case Bytes:
		_, ok = f.Default.([]byte)
	case Int64:
		_, ok = f.Default.(int64)
	case Float32:
		_, ok = f.Default.(float32)
	}
	if !ok {
		return fmt.Errorf("field %q: default %T is not compatible with %s", f.Name, f.Default, f.Type)
	}
	return nil
}

// Options select the optional parts of the schema.
type Options struct {
	IncludeMask         bool
	RegenerateSourceID  bool
	ActivatePseudoScore bool
}

// FeatureSchema is an ordered, immutable set of field descriptors.
type FeatureSchema struct {
	opts   Options
	fields []FieldDescriptor
	index  map[string]int
}

// New builds the schema for opts.
func New(opts Options) *FeatureSchema {
	fields := []FieldDescriptor{
		{Name: KeyImageEncoded, Kind: Fixed, Type: Bytes, Required: true},
		{Name: KeySourceID, Kind: Fixed, Type: Bytes, Default: []byte{}},
		{Name: KeyHeight, Kind: Fixed, Type: Int64, Default: UnknownDimension},
		{Name: KeyWidth, Kind: Fixed, Type: Int64, Default: UnknownDimension},
		{Name: KeyXMin, Kind: Variable, Type: Float32},
		{Name: KeyXMax, Kind: Variable, Type: Float32},
		{Name: KeyYMin, Kind: Variable, Type: Float32},
		{Name: KeyYMax, Kind: Variable, Type: Float32},
		{Name: KeyClassLabel, Kind: Variable, Type: Int64},
		{Name: KeyArea, Kind: Variable, Type: Float32},
		{Name: KeyIsCrowd, Kind: Variable, Type: Int64},
	}
	if opts.ActivatePseudoScore {
		fields = append(fields, FieldDescriptor{Name: KeyPseudoScore, Kind: Variable, Type: Float32})
	}
	if opts.IncludeMask {
		fields = append(fields, FieldDescriptor{Name: KeyMask, Kind: Variable, Type: Bytes})
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Name] = i
	}
	return &FeatureSchema{opts: opts, fields: fields, index: index}
}

// Options returns the flags the schema was built from.
func (s *FeatureSchema) Options() Options {
	return s.opts
}

// Fields returns the descriptors in declaration order.
func (s *FeatureSchema) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the descriptor for name.
func (s *FeatureSchema) Lookup(name string) (FieldDescriptor, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return s.fields[i], true
}

func (s *FeatureSchema) Len() int {
	return len(s.fields)
}

// Validate checks every descriptor.
func (s *FeatureSchema) Validate() error {
	for _, f := range s.fields {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}
