// Package service orchestrates the end-to-end flows: embed the input
// image(s), mutate or scan the catalog store, and rank candidates.
package service

import (
	"context"
	"fmt"
	"strings"

	"visearch/internal/audit"
	"visearch/internal/domain"
	"visearch/internal/similarity"
)

// Service wires an embedding provider and a catalog store together. The
// provider is injected once and reused for every call.
type Service struct {
	provider domain.Provider
	store    domain.Store
	log      *audit.Log
	topK     int
}

// New builds a retrieval service. log may be nil to disable action logging;
// topK <= 0 falls back to the default summary length.
func New(provider domain.Provider, store domain.Store, log *audit.Log, topK int) *Service {
	if topK <= 0 {
		topK = similarity.DefaultTopK
	}
	return &Service{provider: provider, store: store, log: log, topK: topK}
}

// Query embeds the image and ranks the full catalog under both metrics.
func (s *Service) Query(ctx context.Context, imagePath string) (domain.QueryResult, error) {
	q, err := s.provider.Embed(ctx, imagePath)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("embed query image: %w", err)
	}
	entries, err := s.store.AllEntries(ctx)
	if err != nil {
		return domain.QueryResult{}, err
	}
	if len(entries) == 0 {
		return domain.QueryResult{}, domain.ErrEmptyCatalog
	}
	res, err := similarity.Rank(q, entries, s.topK)
	if err != nil {
		return domain.QueryResult{}, err
	}
	s.record(ctx, "QUERY", imagePath, fmt.Sprintf("%d candidates", len(entries)))
	return res, nil
}

// CreateProduct embeds every image first, so a failing image aborts the
// whole operation before the store is touched, then inserts the product and
// all images atomically.
func (s *Service) CreateProduct(ctx context.Context, name string, price float64, amount int64, imagePaths []string) (uint64, error) {
	images, err := s.embedAll(ctx, imagePaths)
	if err != nil {
		return 0, err
	}
	id, err := s.store.CreateProduct(ctx, name, price, amount, images)
	if err != nil {
		return 0, err
	}
	s.record(ctx, "ADD", fmt.Sprintf("product %d", id),
		fmt.Sprintf("%s, %d images", name, len(images)))
	return id, nil
}

// AddImages appends images to an existing product, with the same
// all-or-nothing embedding behavior as CreateProduct.
func (s *Service) AddImages(ctx context.Context, productID uint64, imagePaths []string) error {
	images, err := s.embedAll(ctx, imagePaths)
	if err != nil {
		return err
	}
	if err := s.store.AddImages(ctx, productID, images); err != nil {
		return err
	}
	s.record(ctx, "ADD_IMAGES", fmt.Sprintf("product %d", productID), strings.Join(imagePaths, ", "))
	return nil
}

// Inventory lists every product with its image count.
func (s *Service) Inventory(ctx context.Context) ([]domain.ProductSummary, error) {
	return s.store.ListProducts(ctx)
}

// UpdateProduct applies a partial price/amount update.
func (s *Service) UpdateProduct(ctx context.Context, id uint64, price *float64, amount *int64) error {
	if err := s.store.UpdateProduct(ctx, id, price, amount); err != nil {
		return err
	}
	s.record(ctx, "UPDATE", fmt.Sprintf("product %d", id), "")
	return nil
}

// RemoveProduct deletes a product and all its images.
func (s *Service) RemoveProduct(ctx context.Context, id uint64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "DELETE", fmt.Sprintf("product %d", id), "")
	return nil
}

func (s *Service) embedAll(ctx context.Context, imagePaths []string) ([]domain.NewImage, error) {
	images := make([]domain.NewImage, 0, len(imagePaths))
	for _, path := range imagePaths {
		vec, err := s.provider.Embed(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("embed %s: %w", path, err)
		}
		images = append(images, domain.NewImage{Path: path, Embedding: vec})
	}
	return images, nil
}

func (s *Service) record(ctx context.Context, action, subject, detail string) {
	if s.log != nil {
		s.log.Record(ctx, action, subject, detail)
	}
}
