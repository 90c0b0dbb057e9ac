// Package embedding defines the provider interface for turning images into
// fixed-length embedding vectors. Implementations live in subpackages:
// histogram (local color features) and remote (HTTP embedding API).
package embedding

import "context"

// Provider converts an image into a numeric vector representation.
// A provider is deterministic for a given image and model version.
type Provider interface {
	Name() string
	Embed(ctx context.Context, imagePath string) ([]float64, error)
	// Dimension returns the output vector length, or 0 if not yet known.
	Dimension() int
}
