package decoder

import (
	"bytes"
	"image"
	"runtime"
	"sync"

	"github.com/Tutortoise/example-decoder/schema"
	"github.com/disintegration/imaging"

	// webp is not registered by imaging
	_ "golang.org/x/image/webp"
)

// Images with fewer pixels are converted on the calling goroutine.
const parallelPixelThreshold = 256 * 256

// decodeImage decodes PNG, JPEG, GIF (first frame), BMP, TIFF or WebP bytes
// into a 3-channel image. Alpha is dropped without compositing.
func decodeImage(data []byte) (*Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, imageDecodeError(schema.KeyImageEncoded, "unsupported or corrupt image", err)
	}
	return toRGB(imaging.Clone(img)), nil
}

func toRGB(src *image.NRGBA) *Image {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := &Image{Height: h, Width: w, Pix: make([]uint8, h*w*3)}

	numWorkers := runtime.GOMAXPROCS(0)
	if w*h < parallelPixelThreshold || numWorkers < 2 {
		copyRows(dst, src, 0, h)
		return dst
	}
	if numWorkers > h {
		numWorkers = h
	}

	rowsPerWorker := h / numWorkers
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for n := 0; n < numWorkers; n++ {
		startRow := n * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if n == numWorkers-1 {
			endRow = h
		}

		go func(start, end int) {
			defer wg.Done()
			copyRows(dst, src, start, end)
		}(startRow, endRow)
	}

	wg.Wait()
	return dst
}

func copyRows(dst *Image, src *image.NRGBA, start, end int) {
	for y := start; y < end; y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+dst.Width*4]
		out := dst.Pix[y*dst.Width*3 : (y+1)*dst.Width*3]
		for x := 0; x < dst.Width; x++ {
			out[x*3] = in[x*4]
			out[x*3+1] = in[x*4+1]
			out[x*3+2] = in[x*4+2]
		}
	}
}

// checkDimension rejects declared sizes below zero other than the unknown sentinel.
func checkDimension(field string, declared int64) error {
	if declared < 0 && declared != schema.UnknownDimension {
		return validationError(field, "declared size %d is negative", declared)
	}
	return nil
}

// resolveDimension keeps a declared dimension unless it is the unknown sentinel.
func resolveDimension(declared int64, actual int) int64 {
	if declared == schema.UnknownDimension {
		return int64(actual)
	}
	return declared
}
