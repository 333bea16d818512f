package output

import (
	"io"

	"github.com/Tutortoise/example-decoder/models"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// DecodeResult is the outcome of decoding one record file. Exactly one of
// Example and Error is set.
type DecodeResult struct {
	File      string                `json:"file"`
	Size      int64                 `json:"size"`
	SizeHuman string                `json:"size_human"`
	Example   *models.DecodeSummary `json:"example,omitempty"`
	Kind      string                `json:"kind,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// Formatter is the interface for output formatting.
type Formatter interface {
	WriteResults(w io.Writer, results []DecodeResult) error
	WriteSchema(w io.Writer, fields []models.SchemaField) error
}

// NewFormatter creates a new formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return &TableFormatter{}
	}
}
