// Package similarity ranks catalog entries against a query embedding under
// cosine similarity and euclidean distance. The scan is exhaustive over the
// candidate set; dataset sizes are expected to stay small enough that O(N·D)
// per query is fine.
package similarity

import (
	"fmt"
	"math"
	"sort"

	"visearch/internal/domain"
	"visearch/internal/obs"
)

// DefaultTopK is the summary length used when the caller passes k <= 0.
const DefaultTopK = 3

// Cosine returns the cosine similarity of a and b and whether the metric is
// defined. It is undefined when either vector has zero magnitude.
func Cosine(a, b []float64) (float64, bool) {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}

// Euclidean returns the euclidean distance between a and b.
func Euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

type scored struct {
	entry     domain.Entry
	cosine    float64
	cosineOK  bool
	euclidean float64
}

// Rank scores every entry against the query vector and returns both metrics'
// best match and top-k summary. Any entry whose embedding length differs
// from the query aborts the whole ranking with ErrDimensionMismatch: a
// mismatch means mixed model versions or corrupted data, and silently
// narrowing the candidate set would mask it.
//
// Entries with a zero-magnitude embedding are excluded from the cosine
// ranking only (logged at warn level); the euclidean ranking still includes
// them. Ties on exactly equal scores break by ascending image ID, then
// product ID, so identical inputs always produce identical output.
func Rank(query []float64, entries []domain.Entry, k int) (domain.QueryResult, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	scores := make([]scored, len(entries))
	for i, e := range entries {
		if len(e.Embedding) != len(query) {
			return domain.QueryResult{}, fmt.Errorf("image %d: stored dimension %d, query dimension %d: %w",
				e.ImageID, len(e.Embedding), len(query), domain.ErrDimensionMismatch)
		}
		cos, ok := Cosine(e.Embedding, query)
		if !ok {
			obs.Logger.Warn("zero-magnitude vector excluded from cosine ranking",
				"image_id", e.ImageID, "product_id", e.ProductID)
		}
		scores[i] = scored{entry: e, cosine: cos, cosineOK: ok, euclidean: Euclidean(e.Embedding, query)}
	}

	cosIdx := make([]int, 0, len(scores))
	eucIdx := make([]int, 0, len(scores))
	for i := range scores {
		if scores[i].cosineOK {
			cosIdx = append(cosIdx, i)
		}
		eucIdx = append(eucIdx, i)
	}

	sort.Slice(cosIdx, func(a, b int) bool {
		sa, sb := scores[cosIdx[a]], scores[cosIdx[b]]
		if sa.cosine != sb.cosine {
			return sa.cosine > sb.cosine
		}
		return tieBreak(sa.entry, sb.entry)
	})
	sort.Slice(eucIdx, func(a, b int) bool {
		sa, sb := scores[eucIdx[a]], scores[eucIdx[b]]
		if sa.euclidean != sb.euclidean {
			return sa.euclidean < sb.euclidean
		}
		return tieBreak(sa.entry, sb.entry)
	})

	var res domain.QueryResult
	res.CosineTopK = collect(scores, cosIdx, k, func(s scored) float64 { return s.cosine })
	res.EuclideanTopK = collect(scores, eucIdx, k, func(s scored) float64 { return s.euclidean })
	if len(cosIdx) > 0 {
		m := match(scores[cosIdx[0]], scores[cosIdx[0]].cosine)
		res.CosineBest = &m
	}
	if len(eucIdx) > 0 {
		m := match(scores[eucIdx[0]], scores[eucIdx[0]].euclidean)
		res.EuclideanBest = &m
	}
	return res, nil
}

func tieBreak(a, b domain.Entry) bool {
	if a.ImageID != b.ImageID {
		return a.ImageID < b.ImageID
	}
	return a.ProductID < b.ProductID
}

func collect(scores []scored, idx []int, k int, score func(scored) float64) []domain.Match {
	if k > len(idx) {
		k = len(idx)
	}
	out := make([]domain.Match, 0, k)
	for _, i := range idx[:k] {
		out = append(out, match(scores[i], score(scores[i])))
	}
	return out
}

func match(s scored, score float64) domain.Match {
	return domain.Match{
		ProductID: s.entry.ProductID,
		Name:      s.entry.Name,
		Price:     s.entry.Price,
		Amount:    s.entry.Amount,
		ImageID:   s.entry.ImageID,
		ImagePath: s.entry.ImagePath,
		Score:     score,
	}
}
