package domain

import "errors"

// Sentinel errors shared across the store, similarity engine and service.
// Callers match with errors.Is; wrapping adds the failing input.
var (
	// ErrValidation rejects malformed input before any store access.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound means a referenced product ID does not exist.
	ErrNotFound = errors.New("product not found")

	// ErrEmptyCatalog means a query ran against zero stored images.
	ErrEmptyCatalog = errors.New("catalog has no images")

	// ErrDimensionMismatch means a stored embedding's length disagrees
	// with the query embedding. This signals mixed model versions or data
	// corruption, so the whole query aborts.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrImageDecode means the embedding provider could not read or
	// decode an input image.
	ErrImageDecode = errors.New("cannot decode image")
)
