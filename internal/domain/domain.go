package domain

import "context"

// Product is a catalog item. IDs are assigned by the store, monotonically,
// and never reused.
type Product struct {
	ID     uint64
	Name   string
	Price  float64
	Amount int64
}

// ImageRecord associates one stored image and its embedding with a product.
// A product may own many image records; a record belongs to exactly one
// product and is immutable after creation.
type ImageRecord struct {
	ID        uint64
	ProductID uint64
	Path      string
	Embedding []float64
}

// NewImage is the input for attaching an image to a product: the opaque
// source path plus the already-computed embedding.
type NewImage struct {
	Path      string
	Embedding []float64
}

// Entry is one row of the flat product×image join used as the candidate
// universe for a similarity query.
type Entry struct {
	ProductID uint64
	Name      string
	Price     float64
	Amount    int64
	ImageID   uint64
	ImagePath string
	Embedding []float64
}

// Match is a ranked candidate under one metric.
type Match struct {
	ProductID uint64
	Name      string
	Price     float64
	Amount    int64
	ImageID   uint64
	ImagePath string
	Score     float64
}

// QueryResult combines both metrics' rankings for one query image.
// A best match may be nil when the metric produced no ranking (every
// candidate excluded under cosine, for example); top-k lists are prefixes
// of the full per-metric ranking.
type QueryResult struct {
	CosineBest    *Match
	CosineTopK    []Match
	EuclideanBest *Match
	EuclideanTopK []Match
}

// ProductSummary is a product with its image count, for inventory listings.
type ProductSummary struct {
	Product
	ImageCount int
}

// Provider computes a fixed-dimension embedding for an image. A provider is
// deterministic for a given image and model version and is reused across
// calls.
type Provider interface {
	Name() string
	Embed(ctx context.Context, imagePath string) ([]float64, error)
	// Dimension returns the output vector length, or 0 if not yet known
	// (remote providers learn it on first call).
	Dimension() int
}

// Store persists products and their image embeddings.
type Store interface {
	// Init idempotently ensures the persistent keyspace exists.
	Init(ctx context.Context) error

	// CreateProduct inserts a product and all given images atomically and
	// returns the assigned product ID.
	CreateProduct(ctx context.Context, name string, price float64, amount int64, images []NewImage) (uint64, error)

	// AddImages appends image records to an existing product.
	AddImages(ctx context.Context, productID uint64, images []NewImage) error

	// AllEntries returns the flat join of every image record with its
	// owning product. Order is unspecified; callers must re-rank.
	AllEntries(ctx context.Context) ([]Entry, error)

	// ListProducts returns every product with its image count, ascending
	// by product ID.
	ListProducts(ctx context.Context) ([]ProductSummary, error)

	// UpdateProduct applies a partial price/amount update. Nil fields are
	// left unchanged.
	UpdateProduct(ctx context.Context, id uint64, price *float64, amount *int64) error

	// DeleteProduct removes a product and cascades to its image records.
	DeleteProduct(ctx context.Context, id uint64) error

	Close() error
}
