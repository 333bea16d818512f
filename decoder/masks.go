package decoder

import (
	"bytes"
	"fmt"
	"image"

	"github.com/Tutortoise/example-decoder/schema"
	"github.com/disintegration/imaging"
)

// decodeMasks decodes every encoded mask as one channel and stacks them. With
// no masks the result is an empty stack shaped [0, height, width].
func decodeMasks(encoded [][]byte, height, width int64) (*MaskSet, error) {
	if len(encoded) == 0 {
		return &MaskSet{Height: int(height), Width: int(width), Data: []float32{}}, nil
	}

	var set *MaskSet
	for i, data := range encoded {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, imageDecodeError(schema.KeyMask, fmt.Sprintf("mask %d is not a supported image", i), err)
		}

		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		if set == nil {
			set = &MaskSet{
				Count:  len(encoded),
				Height: h,
				Width:  w,
				Data:   make([]float32, 0, len(encoded)*h*w),
			}
		} else if h != set.Height || w != set.Width {
			return nil, validationError(schema.KeyMask, "mask %d is %dx%d, mask 0 is %dx%d", i, h, w, set.Height, set.Width)
		}
		set.Data = appendGray(set.Data, img)
	}
	return set, nil
}

// appendGray appends the luminance of img in row-major order.
func appendGray(dst []float32, img image.Image) []float32 {
	if g, ok := img.(*image.Gray); ok {
		w, h := g.Rect.Dx(), g.Rect.Dy()
		for y := 0; y < h; y++ {
			row := g.Pix[y*g.Stride : y*g.Stride+w]
			for _, v := range row {
				dst = append(dst, float32(v))
			}
		}
		return dst
	}

	// Grayscale writes equal R, G and B values.
	gray := imaging.Grayscale(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w*4]
		for x := 0; x < w; x++ {
			dst = append(dst, float32(row[x*4]))
		}
	}
	return dst
}
