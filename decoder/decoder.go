// Package decoder turns one serialized annotated-image record into the typed
// fields consumed by a detection training pipeline.
//
// A Decoder is immutable once built and Decode is safe for concurrent use.
// Each call works on its own record and never affects another call.
package decoder

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tutortoise/example-decoder/models"
	"github.com/Tutortoise/example-decoder/record"
	"github.com/Tutortoise/example-decoder/schema"
)

// Config selects the optional outputs of the decoder.
type Config struct {
	// IncludeMask adds instance masks and their encoded bytes.
	IncludeMask bool
	// RegenerateSourceID always derives the source id from the image bytes.
	RegenerateSourceID bool
	// ActivatePseudoScore adds the per-object pseudo-label scores.
	ActivatePseudoScore bool
}

type Decoder struct {
	cfg    Config
	schema *schema.FeatureSchema
}

func New(cfg Config) (*Decoder, error) {
	s := schema.New(schema.Options{
		IncludeMask:         cfg.IncludeMask,
		RegenerateSourceID:  cfg.RegenerateSourceID,
		ActivatePseudoScore: cfg.ActivatePseudoScore,
	})
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feature schema: %w", err)
	}
	return &Decoder{cfg: cfg, schema: s}, nil
}

func (d *Decoder) Config() Config {
	return d.cfg
}

func (d *Decoder) Schema() *schema.FeatureSchema {
	return d.schema
}

// Decode decodes one serialized record.
func (d *Decoder) Decode(data []byte) (*Example, error) {
	return d.DecodeTimed(data, nil)
}

// DecodeTimed is Decode that also records per-stage durations into timings
// when it is non-nil.
func (d *Decoder) DecodeTimed(data []byte, timings *models.DecodeTimings) (*Example, error) {
	if timings == nil {
		timings = &models.DecodeTimings{}
	}
	startTotal := time.Now()
	defer func() { timings.Total = time.Since(startTotal) }()

	parseStart := time.Now()
	parsed, err := record.Parse(data, d.schema)
	if err != nil {
		var pe *record.ParseError
		if errors.As(err, &pe) {
			return nil, &Error{Kind: KindParse, Field: pe.Field, Message: pe.Message, Cause: pe.Cause}
		}
		return nil, &Error{Kind: KindParse, Message: "parse record", Cause: err}
	}
	raw := record.Densify(parsed, d.schema)
	timings.Parse = time.Since(parseStart)

	annStart := time.Now()
	boxes, err := assembleBoxes(
		raw.Float32s(schema.KeyXMin),
		raw.Float32s(schema.KeyXMax),
		raw.Float32s(schema.KeyYMin),
		raw.Float32s(schema.KeyYMax),
	)
	if err != nil {
		return nil, err
	}
	n := len(boxes)

	classes := raw.Int64s(schema.KeyClassLabel)
	if err := checkClasses(classes, n); err != nil {
		return nil, err
	}
	areas, err := resolveAreas(raw.Float32s(schema.KeyArea), boxes)
	if err != nil {
		return nil, err
	}
	isCrowd, err := resolveCrowd(raw.Int64s(schema.KeyIsCrowd), n)
	if err != nil {
		return nil, err
	}
	for _, key := range []string{schema.KeyHeight, schema.KeyWidth} {
		if err := checkDimension(key, raw.Int64(key)); err != nil {
			return nil, err
		}
	}
	timings.Annotations = time.Since(annStart)

	encoded := raw.Bytes(schema.KeyImageEncoded)
	imageStart := time.Now()
	img, err := decodeImage(encoded)
	if err != nil {
		return nil, err
	}
	timings.ImageDecode = time.Since(imageStart)

	ex := &Example{
		Image:    img,
		SourceID: resolveSourceID(d.cfg.RegenerateSourceID, raw.Bytes(schema.KeySourceID), encoded),
		Height:   resolveDimension(raw.Int64(schema.KeyHeight), img.Height),
		Width:    resolveDimension(raw.Int64(schema.KeyWidth), img.Width),
		Classes:  classes,
		IsCrowd:  isCrowd,
		Area:     areas,
		Boxes:    boxes,
	}

	if d.cfg.ActivatePseudoScore {
		ex.PseudoScore = raw.Float32s(schema.KeyPseudoScore)
	}

	if d.cfg.IncludeMask {
		maskStart := time.Now()
		encodedMasks := raw.BytesList(schema.KeyMask)
		masks, err := decodeMasks(encodedMasks, ex.Height, ex.Width)
		if err != nil {
			return nil, err
		}
		ex.InstanceMasks = masks
		ex.InstanceMasksEncoded = encodedMasks
		timings.Masks = time.Since(maskStart)
	}

	return ex, nil
}
