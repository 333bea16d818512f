package decoder

import "github.com/Tutortoise/example-decoder/models"

// Output field names used by the training pipeline.
const (
	FieldImage                = "image"
	FieldSourceID             = "source_id"
	FieldHeight               = "height"
	FieldWidth                = "width"
	FieldClasses              = "groundtruth_classes"
	FieldIsCrowd              = "groundtruth_is_crowd"
	FieldArea                 = "groundtruth_area"
	FieldBoxes                = "groundtruth_boxes"
	FieldInstanceMasks        = "groundtruth_instance_masks"
	FieldInstanceMasksEncoded = "groundtruth_instance_masks_png"
	FieldPseudoScore          = "groundtruth_pseudo_score"
)

// Image is a decoded 3-channel image in height, width, channel order.
type Image struct {
	Height int
	Width  int
	Pix    []uint8
}

func (im *Image) Shape() [3]int {
	return [3]int{im.Height, im.Width, 3}
}

// At returns the RGB triple at row y, column x.
func (im *Image) At(y, x int) [3]uint8 {
	i := (y*im.Width + x) * 3
	return [3]uint8{im.Pix[i], im.Pix[i+1], im.Pix[i+2]}
}

// MaskSet is a stack of single-channel instance masks shaped [Count, Height, Width].
type MaskSet struct {
	Count  int
	Height int
	Width  int
	Data   []float32
}

func (m *MaskSet) Shape() [3]int {
	return [3]int{m.Count, m.Height, m.Width}
}

// Mask returns the i-th mask in row-major order.
func (m *MaskSet) Mask(i int) []float32 {
	size := m.Height * m.Width
	return m.Data[i*size : (i+1)*size]
}

// Example is one decoded record. Boxes are ordered [ymin, xmin, ymax, xmax].
// InstanceMasks and InstanceMasksEncoded are nil unless masks are enabled;
// PseudoScore is nil unless pseudo scores are enabled.
type Example struct {
	Image    *Image
	SourceID string
	Height   int64
	Width    int64
	Classes  []int64
	IsCrowd  []bool
	Area     []float32
	Boxes    [][4]float32

	InstanceMasks        *MaskSet
	InstanceMasksEncoded [][]byte
	PseudoScore          []float32
}

// NumObjects is the number of annotated boxes.
func (e *Example) NumObjects() int {
	return len(e.Boxes)
}

// Fields returns the example keyed by output field name. Optional fields are
// present only when enabled.
func (e *Example) Fields() map[string]any {
	out := map[string]any{
		FieldImage:    e.Image,
		FieldSourceID: e.SourceID,
		FieldHeight:   e.Height,
		FieldWidth:    e.Width,
		FieldClasses:  e.Classes,
		FieldIsCrowd:  e.IsCrowd,
		FieldArea:     e.Area,
		FieldBoxes:    e.Boxes,
	}
	if e.PseudoScore != nil {
		out[FieldPseudoScore] = e.PseudoScore
	}
	if e.InstanceMasks != nil {
		out[FieldInstanceMasks] = e.InstanceMasks
		out[FieldInstanceMasksEncoded] = e.InstanceMasksEncoded
	}
	return out
}

// Summary reduces the example to its annotations and shapes.
func (e *Example) Summary() models.DecodeSummary {
	out := models.DecodeSummary{
		SourceID:    e.SourceID,
		Height:      e.Height,
		Width:       e.Width,
		ImageShape:  e.Image.Shape(),
		NumObjects:  e.NumObjects(),
		Classes:     e.Classes,
		IsCrowd:     e.IsCrowd,
		Area:        e.Area,
		Boxes:       e.Boxes,
		PseudoScore: e.PseudoScore,
	}
	if e.InstanceMasks != nil {
		shape := e.InstanceMasks.Shape()
		out.InstanceMasksShape = &shape
		out.InstanceMasksBytes = make([]int, len(e.InstanceMasksEncoded))
		for i, m := range e.InstanceMasksEncoded {
			out.InstanceMasksBytes[i] = len(m)
		}
	}
	return out
}
