// Package histogram implements a local embedding provider built from color
// statistics: the image is sampled onto a fixed grid, converted to HSV, and
// summarized as per-cell channel means plus global means. No model or
// network access needed, and the same image always yields the same vector.
package histogram

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"visearch/internal/domain"
)

const (
	sampleSize = 64 // images are resampled to sampleSize×sampleSize
	gridCells  = 4  // per axis; 16 cells total
)

// Dim is the provider's fixed output dimension: 3 channel means for each
// grid cell plus 3 global means.
const Dim = gridCells*gridCells*3 + 3

// Provider extracts color-grid embeddings from image files.
type Provider struct{}

// New returns a histogram provider.
func New() *Provider { return &Provider{} }

func (p *Provider) Name() string { return "histogram" }

func (p *Provider) Dimension() int { return Dim }

// Embed decodes the image at imagePath and returns its color-grid vector.
// Unreadable or undecodable input fails with ErrImageDecode.
func (p *Provider) Embed(ctx context.Context, imagePath string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", imagePath, err, domain.ErrImageDecode)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", imagePath, err, domain.ErrImageDecode)
	}

	// Resample to a fixed grid so the vector length and cell layout do not
	// depend on the source resolution.
	var hs, ss, vs [sampleSize][sampleSize]float64
	b := img.Bounds()
	for y := 0; y < sampleSize; y++ {
		sy := b.Min.Y + y*b.Dy()/sampleSize
		for x := 0; x < sampleSize; x++ {
			sx := b.Min.X + x*b.Dx()/sampleSize
			r, g, bl, _ := img.At(sx, sy).RGBA()
			h, s, v := rgbToHSV(float64(r)/65535, float64(g)/65535, float64(bl)/65535)
			hs[y][x], ss[y][x], vs[y][x] = h, s, v
		}
	}

	features := make([]float64, 0, Dim)
	cell := sampleSize / gridCells
	var gh, gs, gv float64
	for cy := 0; cy < gridCells; cy++ {
		for cx := 0; cx < gridCells; cx++ {
			var ch, cs, cv float64
			for y := cy * cell; y < (cy+1)*cell; y++ {
				for x := cx * cell; x < (cx+1)*cell; x++ {
					ch += hs[y][x]
					cs += ss[y][x]
					cv += vs[y][x]
				}
			}
			n := float64(cell * cell)
			features = append(features, ch/n, cs/n, cv/n)
			gh += ch
			gs += cs
			gv += cv
		}
	}
	total := float64(sampleSize * sampleSize)
	features = append(features, gh/total, gs/total, gv/total)
	return features, nil
}

// rgbToHSV converts [0,1] RGB to HSV with all channels scaled to [0,1].
func rgbToHSV(r, g, b float64) (h, s, v float64) {
	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	v = max
	d := max - min
	if max > 0 {
		s = d / max
	}
	if d == 0 {
		return 0, s, v
	}
	switch max {
	case r:
		h = (g - b) / d
		if h < 0 {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, v
}
