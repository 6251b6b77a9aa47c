package crf

import "errors"

var (
	// ErrConfig reports an invalid model definition: a bad type catalog or an
	// edge-feature-count matrix that is not NumTypes x NumTypes.
	ErrConfig = errors.New("crf: invalid model configuration")

	// ErrShape reports an instance, labeling or weight vector whose shape
	// disagrees with the model layout.
	ErrShape = errors.New("crf: shape mismatch")
)
