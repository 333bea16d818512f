package decoder

import (
	"github.com/Tutortoise/example-decoder/schema"
)

// resolveCrowd converts stored crowd flags to booleans, or marks all n
// objects as non-crowd when none are stored.
func resolveCrowd(isCrowd []int64, n int) ([]bool, error) {
	if len(isCrowd) == 0 {
		return make([]bool, n), nil
	}
	if len(isCrowd) != n {
		return nil, validationError(schema.KeyIsCrowd, "has %d values for %d boxes", len(isCrowd), n)
	}

	out := make([]bool, n)
	for i, v := range isCrowd {
		out[i] = v != 0
	}
	return out, nil
}
