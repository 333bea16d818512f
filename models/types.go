package models

import "time"

type DecodeTimings struct {
	RequestID   string
	Parse       time.Duration
	Annotations time.Duration
	ImageDecode time.Duration
	Masks       time.Duration
	Total       time.Duration
}

// DecodeSummary is the JSON view of a decoded record. Pixel data is reduced
// to shapes.
type DecodeSummary struct {
	SourceID           string       `json:"source_id"`
	Height             int64        `json:"height"`
	Width              int64        `json:"width"`
	ImageShape         [3]int       `json:"image_shape"`
	NumObjects         int          `json:"num_objects"`
	Classes            []int64      `json:"classes"`
	IsCrowd            []bool       `json:"is_crowd"`
	Area               []float32    `json:"area"`
	Boxes              [][4]float32 `json:"boxes"`
	InstanceMasksShape *[3]int      `json:"instance_masks_shape,omitempty"`
	InstanceMasksBytes []int        `json:"instance_masks_bytes,omitempty"`
	PseudoScore        []float32    `json:"pseudo_score,omitempty"`
}
