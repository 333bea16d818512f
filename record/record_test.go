package record_test

import (
	"errors"
	"testing"

	"github.com/Tutortoise/example-decoder/record"
	"github.com/Tutortoise/example-decoder/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func baseBuilder() *record.Builder {
	return record.NewBuilder().
		Bytes(schema.KeyImageEncoded, []byte("image-bytes"))
}

func TestParse_Defaults(t *testing.T) {
	s := schema.New(schema.Options{})
	raw, err := record.Parse(baseBuilder().Encode(), s)
	require.NoError(t, err)

	assert.Equal(t, []byte("image-bytes"), raw.Bytes(schema.KeyImageEncoded))
	assert.Equal(t, []byte{}, raw.Bytes(schema.KeySourceID))
	assert.Equal(t, int64(-1), raw.Int64(schema.KeyHeight))
	assert.Equal(t, int64(-1), raw.Int64(schema.KeyWidth))
	assert.False(t, raw.Has(schema.KeyXMin))
	assert.Nil(t, raw.Float32s(schema.KeyXMin))
}

func TestParse_Values(t *testing.T) {
	for _, unpacked := range []bool{false, true} {
		b := baseBuilder().
			Text(schema.KeySourceID, "img-42").
			Int64(schema.KeyHeight, 100).
			Int64(schema.KeyWidth, 200).
			Float32(schema.KeyXMin, 0.1, 0.2).
			Float32(schema.KeyArea, 1.5, -2.25).
			Int64(schema.KeyClassLabel, 3, -7)
		if unpacked {
			b.Unpacked()
		}

		raw, err := record.Parse(b.Encode(), schema.New(schema.Options{}))
		require.NoError(t, err)

		assert.Equal(t, []byte("img-42"), raw.Bytes(schema.KeySourceID))
		assert.Equal(t, int64(100), raw.Int64(schema.KeyHeight))
		assert.Equal(t, int64(200), raw.Int64(schema.KeyWidth))
		assert.Equal(t, []float32{0.1, 0.2}, raw.Float32s(schema.KeyXMin))
		assert.Equal(t, []float32{1.5, -2.25}, raw.Float32s(schema.KeyArea))
		assert.Equal(t, []int64{3, -7}, raw.Int64s(schema.KeyClassLabel))
	}
}

func TestParse_IgnoresUndeclaredFeatures(t *testing.T) {
	data := baseBuilder().
		Text("image/format", "png").
		Float32(schema.KeyPseudoScore, 0.9).
		Bytes(schema.KeyMask, []byte("m")).
		Encode()

	raw, err := record.Parse(data, schema.New(schema.Options{}))
	require.NoError(t, err)
	assert.False(t, raw.Has("image/format"))
	assert.False(t, raw.Has(schema.KeyPseudoScore))
	assert.False(t, raw.Has(schema.KeyMask))

	raw, err = record.Parse(data, schema.New(schema.Options{IncludeMask: true, ActivatePseudoScore: true}))
	require.NoError(t, err)
	assert.Equal(t, []float32{0.9}, raw.Float32s(schema.KeyPseudoScore))
	assert.Equal(t, [][]byte{[]byte("m")}, raw.BytesList(schema.KeyMask))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		field string
	}{
		{
			name:  "missing image",
			data:  record.NewBuilder().Int64(schema.KeyHeight, 1).Encode(),
			field: schema.KeyImageEncoded,
		},
		{
			name:  "empty image list",
			data:  record.NewBuilder().Bytes(schema.KeyImageEncoded).Encode(),
			field: schema.KeyImageEncoded,
		},
		{
			name:  "type mismatch",
			data:  baseBuilder().Float32(schema.KeyHeight, 1).Encode(),
			field: schema.KeyHeight,
		},
		{
			name:  "variable type mismatch",
			data:  baseBuilder().Int64(schema.KeyXMin, 1).Encode(),
			field: schema.KeyXMin,
		},
		{
			name:  "fixed with two values",
			data:  baseBuilder().Int64(schema.KeyWidth, 1, 2).Encode(),
			field: schema.KeyWidth,
		},
		{
			name: "truncated",
			data: baseBuilder().Encode()[:5],
		},
		{
			name: "garbage",
			data: []byte{0xff, 0xff, 0xff},
		},
	}

	s := schema.New(schema.Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := record.Parse(tt.data, s)
			require.Error(t, err)
			assert.Nil(t, raw)

			var pe *record.ParseError
			require.True(t, errors.As(err, &pe))
			if tt.field != "" {
				assert.Equal(t, tt.field, pe.Field)
			}
		})
	}
}

func TestParse_EmptyFixedUsesDefault(t *testing.T) {
	raw, err := record.Parse(baseBuilder().Int64(schema.KeyHeight).Encode(), schema.New(schema.Options{}))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), raw.Int64(schema.KeyHeight))
}

func TestParse_LaterEntryWins(t *testing.T) {
	data := baseBuilder().
		Int64(schema.KeyHeight, 10).
		Int64(schema.KeyHeight, 20).
		Encode()

	raw, err := record.Parse(data, schema.New(schema.Options{}))
	require.NoError(t, err)
	assert.Equal(t, int64(20), raw.Int64(schema.KeyHeight))
}

func TestParse_SkipsUnknownWireFields(t *testing.T) {
	data := baseBuilder().Encode()
	// an unrelated varint field at the Example level
	data = protowire.AppendTag(data, 7, protowire.VarintType)
	data = protowire.AppendVarint(data, 99)

	raw, err := record.Parse(data, schema.New(schema.Options{}))
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), raw.Bytes(schema.KeyImageEncoded))
}

func TestParse_FeatureWithoutList(t *testing.T) {
	var kv []byte
	kv = protowire.AppendTag(kv, 1, protowire.BytesType)
	kv = protowire.AppendString(kv, schema.KeyXMin)
	kv = protowire.AppendTag(kv, 2, protowire.BytesType)
	kv = protowire.AppendBytes(kv, nil)

	var features []byte
	features = protowire.AppendTag(features, 1, protowire.BytesType)
	features = protowire.AppendBytes(features, kv)

	data := baseBuilder().Encode()
	data = protowire.AppendTag(data, 1, protowire.BytesType)
	data = protowire.AppendBytes(data, features)

	raw, err := record.Parse(data, schema.New(schema.Options{}))
	require.NoError(t, err)
	require.True(t, raw.Has(schema.KeyXMin))
	assert.Empty(t, raw.Float32s(schema.KeyXMin))
	assert.Equal(t, []byte("image-bytes"), raw.Bytes(schema.KeyImageEncoded))
}

func TestParse_DoesNotAliasInput(t *testing.T) {
	data := baseBuilder().Encode()
	raw, err := record.Parse(data, schema.New(schema.Options{}))
	require.NoError(t, err)

	for i := range data {
		data[i] = 0
	}
	assert.Equal(t, []byte("image-bytes"), raw.Bytes(schema.KeyImageEncoded))
}

func TestDensify(t *testing.T) {
	s := schema.New(schema.Options{IncludeMask: true, ActivatePseudoScore: true})
	raw, err := record.Parse(baseBuilder().Float32(schema.KeyXMin, 0.5).Encode(), s)
	require.NoError(t, err)

	dense := record.Densify(raw, s)
	for _, f := range s.Fields() {
		require.True(t, dense.Has(f.Name), f.Name)
	}

	assert.Equal(t, []float32{0.5}, dense.Float32s(schema.KeyXMin))
	assert.NotNil(t, dense.Float32s(schema.KeyXMax))
	assert.Empty(t, dense.Float32s(schema.KeyXMax))
	assert.NotNil(t, dense.Int64s(schema.KeyIsCrowd))
	assert.Empty(t, dense.Int64s(schema.KeyIsCrowd))
	assert.NotNil(t, dense.BytesList(schema.KeyMask))
	assert.NotNil(t, dense.Float32s(schema.KeyPseudoScore))

	// the parsed record is left as it was
	assert.False(t, raw.Has(schema.KeyXMax))
}
