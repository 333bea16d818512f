package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tutortoise/example-decoder/record"
	"github.com/Tutortoise/example-decoder/schema"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

// Annotations is the JSON input of the encode command. Mask paths are
// relative to the annotations file.
type Annotations struct {
	SourceID string   `json:"source_id"`
	Height   *int64   `json:"height,omitempty"`
	Width    *int64   `json:"width,omitempty"`
	Objects  []Object `json:"objects"`
}

type Object struct {
	XMin        float32  `json:"xmin"`
	YMin        float32  `json:"ymin"`
	XMax        float32  `json:"xmax"`
	YMax        float32  `json:"ymax"`
	Class       int64    `json:"class"`
	Area        *float32 `json:"area,omitempty"`
	IsCrowd     bool     `json:"is_crowd"`
	PseudoScore *float32 `json:"pseudo_score,omitempty"`
	Mask        string   `json:"mask,omitempty"`
}

func encodeAction(c *cli.Context) error {
	img, err := os.ReadFile(c.String("image"))
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	var ann Annotations
	var baseDir string
	if path := c.String("annotations"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read annotations: %w", err)
		}
		if err := json.Unmarshal(data, &ann); err != nil {
			return fmt.Errorf("parse annotations %s: %w", path, err)
		}
		baseDir = filepath.Dir(path)
	}

	if c.Bool("declare-size") {
		decoded, err := imaging.Decode(bytes.NewReader(img))
		if err != nil {
			return fmt.Errorf("decode image: %w", err)
		}
		h, w := int64(decoded.Bounds().Dy()), int64(decoded.Bounds().Dx())
		ann.Height, ann.Width = &h, &w
	}

	data, err := buildRecord(img, ann, baseDir)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.String("out"), data, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "wrote %s (%s, %d objects)\n", c.String("out"), humanize.IBytes(uint64(len(data))), len(ann.Objects))
	return nil
}

// buildRecord serializes img and ann. Optional per-object lists are written
// only when every object carries the value.
func buildRecord(img []byte, ann Annotations, baseDir string) ([]byte, error) {
	b := record.NewBuilder().Bytes(schema.KeyImageEncoded, img)
	if ann.SourceID != "" {
		b.Text(schema.KeySourceID, ann.SourceID)
	}
	if ann.Height != nil {
		b.Int64(schema.KeyHeight, *ann.Height)
	}
	if ann.Width != nil {
		b.Int64(schema.KeyWidth, *ann.Width)
	}

	n := len(ann.Objects)
	xmin := make([]float32, n)
	xmax := make([]float32, n)
	ymin := make([]float32, n)
	ymax := make([]float32, n)
	classes := make([]int64, n)
	crowd := make([]int64, n)
	var areas, scores []float32
	var masks [][]byte

	for i, o := range ann.Objects {
		xmin[i], xmax[i], ymin[i], ymax[i] = o.XMin, o.XMax, o.YMin, o.YMax
		classes[i] = o.Class
		if o.IsCrowd {
			crowd[i] = 1
		}
		if o.Area != nil {
			areas = append(areas, *o.Area)
		}
		if o.PseudoScore != nil {
			scores = append(scores, *o.PseudoScore)
		}
		if o.Mask != "" {
			mask, err := os.ReadFile(filepath.Join(baseDir, o.Mask))
			if err != nil {
				return nil, fmt.Errorf("object %d: read mask: %w", i, err)
			}
			masks = append(masks, mask)
		}
	}

	b.Float32(schema.KeyXMin, xmin...).
		Float32(schema.KeyXMax, xmax...).
		Float32(schema.KeyYMin, ymin...).
		Float32(schema.KeyYMax, ymax...).
		Int64(schema.KeyClassLabel, classes...).
		Int64(schema.KeyIsCrowd, crowd...)

	if len(areas) == n && n > 0 {
		b.Float32(schema.KeyArea, areas...)
	}
	if len(scores) == n && n > 0 {
		b.Float32(schema.KeyPseudoScore, scores...)
	}
	if len(masks) > 0 {
		if len(masks) != n {
			return nil, fmt.Errorf("%d of %d objects have a mask: masks must be given for all objects or none", len(masks), n)
		}
		b.Bytes(schema.KeyMask, masks...)
	}
	return b.Encode(), nil
}
