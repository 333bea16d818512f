package models

import "github.com/Tutortoise/example-decoder/schema"

// SchemaField is the printable form of a schema.FieldDescriptor.
type SchemaField struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
	Default  any    `json:"default,omitempty"`
}

func NewSchemaFields(fields []schema.FieldDescriptor) []SchemaField {
	out := make([]SchemaField, 0, len(fields))
	for _, f := range fields {
		sf := SchemaField{
			Name:     f.Name,
			Kind:     f.Kind.String(),
			Type:     f.Type.String(),
			Required: f.Required,
		}
		if b, ok := f.Default.([]byte); ok {
			sf.Default = string(b)
		} else {
			sf.Default = f.Default
		}
		out = append(out, sf)
	}
	return out
}
