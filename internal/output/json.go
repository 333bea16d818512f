package output

import (
	"encoding/json"
	"io"

	"github.com/Tutortoise/example-decoder/models"
)

// JSONFormatter outputs data in JSON format.
type JSONFormatter struct{}

// WriteResults writes decode results as a JSON array.
func (f *JSONFormatter) WriteResults(w io.Writer, results []DecodeResult) error {
	return writeJSON(w, results)
}

// WriteSchema writes the feature schema as JSON.
func (f *JSONFormatter) WriteSchema(w io.Writer, fields []models.SchemaField) error {
	return writeJSON(w, fields)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
