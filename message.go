package main

import (
	"fmt"

	"github.com/Tutortoise/example-decoder/decoder"
)

const (
	MsgInvalidRecord = "The record could not be parsed. Make sure it is a serialized tf.Example carrying image/encoded."

	MsgInvalidAnnotations = "The record's per-object lists disagree in length. Every box needs one xmin, xmax, ymin and ymax, and class, area and is_crowd lists must match the box count when present."

	MsgInvalidImage = "The image or one of its masks is not a supported raster format (PNG, JPEG, GIF, BMP, TIFF or WebP)."

	MsgBusy = "All decode slots are busy. Please retry shortly."

	MsgRateLimited = "Too many decode requests. Please slow down."
)

func rejectionMessage(kind decoder.Kind) string {
	switch kind {
	case decoder.KindParse:
		return MsgInvalidRecord
	case decoder.KindValidation:
		return MsgInvalidAnnotations
	case decoder.KindImageDecode:
		return MsgInvalidImage
	}
	return "Failed to decode record"
}

func decodeMessage(numObjects int) string {
	switch {
	case numObjects == 0:
		return "Decoded record without annotated objects"
	case numObjects == 1:
		return "Decoded record with a single object"
	default:
		return fmt.Sprintf("Decoded record with %d objects", numObjects)
	}
}
