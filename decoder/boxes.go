package decoder

import (
	"github.com/Tutortoise/example-decoder/schema"
)

// assembleBoxes merges the four coordinate lists into [ymin, xmin, ymax, xmax]
// tuples. All lists must have the same length.
func assembleBoxes(xmin, xmax, ymin, ymax []float32) ([][4]float32, error) {
	n := len(xmin)
	for _, c := range []struct {
		key  string
		list []float32
	}{
		{schema.KeyXMax, xmax},
		{schema.KeyYMin, ymin},
		{schema.KeyYMax, ymax},
	} {
		if len(c.list) != n {
			return nil, validationError(c.key, "has %d values, %s has %d", len(c.list), schema.KeyXMin, n)
		}
	}

	boxes := make([][4]float32, n)
	for i := range boxes {
		boxes[i] = [4]float32{ymin[i], xmin[i], ymax[i], xmax[i]}
	}
	return boxes, nil
}

// resolveAreas uses the stored areas when present and otherwise computes them
// from the boxes. Degenerate boxes give zero or negative areas.
func resolveAreas(area []float32, boxes [][4]float32) ([]float32, error) {
	if len(area) > 0 {
		if len(area) != len(boxes) {
			return nil, validationError(schema.KeyArea, "has %d values for %d boxes", len(area), len(boxes))
		}
		return area, nil
	}

	out := make([]float32, len(boxes))
	for i, b := range boxes {
		ymin, xmin, ymax, xmax := b[0], b[1], b[2], b[3]
		out[i] = (xmax - xmin) * (ymax - ymin)
	}
	return out, nil
}

func checkClasses(classes []int64, n int) error {
	if len(classes) > 0 && len(classes) != n {
		return validationError(schema.KeyClassLabel, "has %d values for %d boxes", len(classes), n)
	}
	return nil
}
