package similarity

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"visearch/internal/domain"
)

func entry(imageID, productID uint64, name string, emb []float64) domain.Entry {
	return domain.Entry{
		ProductID: productID,
		Name:      name,
		ImageID:   imageID,
		ImagePath: name + ".png",
		Embedding: emb,
	}
}

func TestSelfSimilarity(t *testing.T) {
	e := []float64{0.3, -1.2, 4.5, 0.07}
	cos, ok := Cosine(e, e)
	if !ok {
		t.Fatalf("cosine undefined for non-zero vector")
	}
	if math.Abs(cos-1.0) > 1e-12 {
		t.Fatalf("Cosine(E, E) = %v, want 1.0", cos)
	}
	if d := Euclidean(e, e); d != 0 {
		t.Fatalf("Euclidean(E, E) = %v, want exactly 0", d)
	}
}

func TestZeroVectorCosineUndefined(t *testing.T) {
	if _, ok := Cosine([]float64{0, 0}, []float64{1, 2}); ok {
		t.Fatalf("cosine should be undefined for a zero vector")
	}
}

func TestRankScenario(t *testing.T) {
	entries := []domain.Entry{
		{ProductID: 1, Name: "A", Price: 10, Amount: 2, ImageID: 1, ImagePath: "a.png", Embedding: []float64{1, 0, 0}},
		{ProductID: 2, Name: "B", Price: 20, Amount: 5, ImageID: 2, ImagePath: "b.png", Embedding: []float64{0, 1, 0}},
	}
	res, err := Rank([]float64{0.9, 0.1, 0}, entries, 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if res.CosineBest == nil || res.CosineBest.Name != "A" {
		t.Fatalf("cosine best = %+v, want A", res.CosineBest)
	}
	if math.Abs(res.CosineBest.Score-0.9939) > 1e-3 {
		t.Fatalf("cosine best score = %v, want ~0.994", res.CosineBest.Score)
	}
	if res.EuclideanBest == nil || res.EuclideanBest.Name != "A" {
		t.Fatalf("euclidean best = %+v, want A", res.EuclideanBest)
	}
	if math.Abs(res.EuclideanBest.Score-0.1414) > 1e-3 {
		t.Fatalf("euclidean best score = %v, want ~0.141", res.EuclideanBest.Score)
	}
	if res.CosineBest.Price != 10 || res.CosineBest.Amount != 2 {
		t.Fatalf("best match metadata not carried: %+v", res.CosineBest)
	}
}

func TestRankingOrder(t *testing.T) {
	entries := []domain.Entry{
		entry(1, 1, "far", []float64{5, 5}),
		entry(2, 2, "near", []float64{1, 1.1}),
		entry(3, 3, "mid", []float64{2, 3}),
	}
	res, err := Rank([]float64{1, 1}, entries, 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	for i := 1; i < len(res.CosineTopK); i++ {
		if res.CosineTopK[i].Score > res.CosineTopK[i-1].Score {
			t.Fatalf("cosine ranking not descending: %+v", res.CosineTopK)
		}
	}
	for i := 1; i < len(res.EuclideanTopK); i++ {
		if res.EuclideanTopK[i].Score < res.EuclideanTopK[i-1].Score {
			t.Fatalf("euclidean ranking not ascending: %+v", res.EuclideanTopK)
		}
	}
	if res.EuclideanTopK[0].Name != "near" {
		t.Fatalf("euclidean best = %q, want near", res.EuclideanTopK[0].Name)
	}
	if res.CosineBest.Score != res.CosineTopK[0].Score {
		t.Fatalf("cosine best is not the top of the ranking")
	}
	if res.EuclideanBest.Score != res.EuclideanTopK[0].Score {
		t.Fatalf("euclidean best is not the top of the ranking")
	}
}

func TestTopKIsPrefixOfFullRanking(t *testing.T) {
	entries := []domain.Entry{
		entry(1, 1, "a", []float64{1, 0}),
		entry(2, 1, "b", []float64{0.5, 0.5}),
		entry(3, 2, "c", []float64{0, 1}),
		entry(4, 2, "d", []float64{0.9, 0.1}),
	}
	q := []float64{1, 0.2}
	full, err := Rank(q, entries, 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	short, err := Rank(q, entries, 2)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(short.CosineTopK) != 2 || len(short.EuclideanTopK) != 2 {
		t.Fatalf("top-k length = %d/%d, want 2", len(short.CosineTopK), len(short.EuclideanTopK))
	}
	if !reflect.DeepEqual(short.CosineTopK, full.CosineTopK[:2]) {
		t.Fatalf("cosine top-2 is not a prefix of the full ranking")
	}
	if !reflect.DeepEqual(short.EuclideanTopK, full.EuclideanTopK[:2]) {
		t.Fatalf("euclidean top-2 is not a prefix of the full ranking")
	}
}

func TestTopKCappedByCandidates(t *testing.T) {
	entries := []domain.Entry{entry(1, 1, "only", []float64{1, 0})}
	res, err := Rank([]float64{1, 0}, entries, 5)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(res.CosineTopK) != 1 || len(res.EuclideanTopK) != 1 {
		t.Fatalf("top-k longer than candidate set: %d/%d", len(res.CosineTopK), len(res.EuclideanTopK))
	}
}

func TestTieBreakByImageID(t *testing.T) {
	// Identical embeddings produce exactly equal scores under both metrics.
	emb := []float64{0.5, 0.5}
	entries := []domain.Entry{
		entry(9, 1, "late", emb),
		entry(2, 7, "early", emb),
		entry(5, 3, "middle", emb),
	}
	res, err := Rank([]float64{1, 1}, entries, 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	wantOrder := []uint64{2, 5, 9}
	for i, want := range wantOrder {
		if res.CosineTopK[i].ImageID != want {
			t.Fatalf("cosine tie-break order = %+v, want image ids %v", res.CosineTopK, wantOrder)
		}
		if res.EuclideanTopK[i].ImageID != want {
			t.Fatalf("euclidean tie-break order = %+v, want image ids %v", res.EuclideanTopK, wantOrder)
		}
	}
}

func TestDimensionMismatchAbortsQuery(t *testing.T) {
	entries := []domain.Entry{
		entry(1, 1, "ok", []float64{1, 0, 0}),
		entry(2, 1, "bad", []float64{1, 0}),
	}
	_, err := Rank([]float64{1, 0, 0}, entries, 3)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestZeroEmbeddingExcludedFromCosineOnly(t *testing.T) {
	entries := []domain.Entry{
		entry(1, 1, "zero", []float64{0, 0}),
		entry(2, 2, "unit", []float64{1, 0}),
	}
	res, err := Rank([]float64{1, 0}, entries, 5)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(res.CosineTopK) != 1 || res.CosineTopK[0].Name != "unit" {
		t.Fatalf("cosine ranking = %+v, want only unit", res.CosineTopK)
	}
	if len(res.EuclideanTopK) != 2 {
		t.Fatalf("euclidean ranking should keep zero-magnitude candidates, got %+v", res.EuclideanTopK)
	}
}

func TestZeroQueryVector(t *testing.T) {
	entries := []domain.Entry{
		entry(1, 1, "a", []float64{1, 0}),
		entry(2, 2, "b", []float64{0, 2}),
	}
	res, err := Rank([]float64{0, 0}, entries, 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if res.CosineBest != nil || len(res.CosineTopK) != 0 {
		t.Fatalf("cosine ranking should be empty for a zero query, got %+v", res.CosineTopK)
	}
	if res.EuclideanBest == nil || res.EuclideanBest.Name != "a" {
		t.Fatalf("euclidean best = %+v, want a", res.EuclideanBest)
	}
}

func TestRankDeterministic(t *testing.T) {
	entries := []domain.Entry{
		entry(3, 2, "c", []float64{0.2, 0.8}),
		entry(1, 1, "a", []float64{0.5, 0.5}),
		entry(2, 1, "b", []float64{0.5, 0.5}),
	}
	q := []float64{0.4, 0.6}
	first, err := Rank(q, entries, 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	second, err := Rank(q, entries, 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different rankings")
	}
}
