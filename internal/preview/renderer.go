package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
	"style-preset-backend/internal/style"
)

// ErrUnsupportedImage is returned when the input cannot be decoded.
var ErrUnsupportedImage = errors.New("unsupported image")

const (
	DefaultMaxDimension = 2048
	DefaultQuality      = 95
)

// Renderer applies the brightness, contrast and saturation subset of a
// parameter set to an image and encodes the result as JPEG.
type Renderer struct {
	maxDimension int
	quality      int
}

func NewRenderer(maxDimension, quality int) *Renderer {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Renderer{
		maxDimension: maxDimension,
		quality:      quality,
	}
}

// Factors are the multiplicative enhancement factors derived from params.
type Factors struct {
	Brightness float64
	Contrast   float64
	Saturation float64
}

// FactorsFor derives enhancement factors; 1 means unchanged. Factors never
// go below zero.
func FactorsFor(params style.Parameters) Factors {
	return Factors{
		Brightness: math.Max(0, 1+params.Exposure),
		Contrast:   math.Max(0, 1+params.Contrast),
		Saturation: math.Max(0, 1+params.Saturation+params.Vibrance),
	}
}

// Render decodes r, applies params and returns the JPEG preview.
func (r *Renderer) Render(ctx context.Context, src io.Reader, params style.Parameters) ([]byte, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() > r.maxDimension || b.Dy() > r.maxDimension {
		img = imaging.Fit(img, r.maxDimension, r.maxDimension, imaging.Lanczos)
	}

	out := Apply(img, FactorsFor(params))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// Apply runs brightness, contrast and saturation in that order.
func Apply(img image.Image, f Factors) *image.NRGBA {
	out := imaging.Clone(img)
	if f.Brightness != 1 {
		out = scaleBrightness(out, f.Brightness)
	}
	if f.Contrast != 1 {
		out = imaging.AdjustContrast(out, (f.Contrast-1)*100)
	}
	if f.Saturation != 1 {
		// imaging clamps saturation to [-100, 500] percent
		out = imaging.AdjustSaturation(out, (f.Saturation-1)*100)
	}
	return out
}

// scaleBrightness multiplies every channel by factor, blending toward black
// below 1 and clipping at white above it.
func scaleBrightness(img image.Image, factor float64) *image.NRGBA {
	var lut [256]uint8
	for i := range lut {
		lut[i] = clamp(float64(i) * factor)
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
}

func clamp(v float64) uint8 {
	v = math.Round(v)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
