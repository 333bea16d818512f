package decoder

import (
	"strconv"

	farm "github.com/dgryski/go-farm"
)

// SourceIDBuckets is the bucket count source ids are hashed into.
const SourceIDBuckets uint64 = 1<<63 - 1

// SourceIDFromImage derives a stable id from encoded image bytes: the FarmHash
// Fingerprint64 of the bytes modulo SourceIDBuckets, in decimal.
func SourceIDFromImage(encoded []byte) string {
	return strconv.FormatUint(farm.Fingerprint64(encoded)%SourceIDBuckets, 10)
}

func resolveSourceID(regenerate bool, stored, encoded []byte) string {
	if !regenerate && len(stored) > 0 {
		return string(stored)
	}
	return SourceIDFromImage(encoded)
}
