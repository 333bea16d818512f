package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Tutortoise/example-decoder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []DecodeResult {
	masks := [3]int{2, 8, 16}
	return []DecodeResult{
		{
			File:      "a.bin",
			Size:      2048,
			SizeHuman: "2.0 KiB",
			Example: &models.DecodeSummary{
				SourceID:           "123",
				Height:             8,
				Width:              16,
				ImageShape:         [3]int{8, 16, 3},
				NumObjects:         2,
				IsCrowd:            []bool{true, false},
				InstanceMasksShape: &masks,
			},
		},
		{
			File:      "b.bin",
			Size:      3,
			SizeHuman: "3 B",
			Kind:      "parse",
			Error:     "parse: truncated",
		},
	}
}

func TestNewFormatter(t *testing.T) {
	t.Run("returns TableFormatter for table format", func(t *testing.T) {
		_, ok := NewFormatter(FormatTable).(*TableFormatter)
		assert.True(t, ok)
	})

	t.Run("returns JSONFormatter for json format", func(t *testing.T) {
		_, ok := NewFormatter(FormatJSON).(*JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("returns TableFormatter for unknown format", func(t *testing.T) {
		_, ok := NewFormatter("unknown").(*TableFormatter)
		assert.True(t, ok)
	})
}

func TestTableFormatter_WriteResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).WriteResults(&buf, sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "SOURCE_ID")
	assert.Contains(t, out, "8x16x3")
	assert.Contains(t, out, "2x8x16")
	assert.Contains(t, out, "parse: parse: truncated")
	assert.Contains(t, out, "Records: 2 (1 failed), 2.0 KiB read")
}

func TestTableFormatter_WriteSchema(t *testing.T) {
	var buf bytes.Buffer
	fields := []models.SchemaField{
		{Name: "image/encoded", Kind: "fixed", Type: "bytes", Required: true},
		{Name: "image/height", Kind: "fixed", Type: "int64", Default: int64(-1)},
		{Name: "image/object/area", Kind: "variable", Type: "float32"},
	}
	require.NoError(t, (&TableFormatter{}).WriteSchema(&buf, fields))

	out := buf.String()
	assert.Contains(t, out, "(required)")
	assert.Contains(t, out, `"-1"`)
	assert.Contains(t, out, "variable")
}

func TestJSONFormatter_WriteResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).WriteResults(&buf, sampleResults()))

	var got []DecodeResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "123", got[0].Example.SourceID)
	assert.Empty(t, got[0].Error)
	assert.Nil(t, got[1].Example)
	assert.Equal(t, "parse", got[1].Kind)
}
