package preview_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"style-preset-backend/internal/preview"
	"style-preset-backend/internal/style"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFactorsFor(t *testing.T) {
	f := preview.FactorsFor(style.Default())
	assert.Equal(t, preview.Factors{Brightness: 1, Contrast: 1, Saturation: 1}, f)

	params := style.Default()
	params.Exposure = -0.5
	params.Contrast = 0.3
	params.Saturation = -0.1
	params.Vibrance = -0.1
	f = preview.FactorsFor(params)
	assert.InDelta(t, 0.5, f.Brightness, 1e-9)
	assert.InDelta(t, 1.3, f.Contrast, 1e-9)
	assert.InDelta(t, 0.8, f.Saturation, 1e-9)

	params.Exposure = -3
	assert.Equal(t, 0.0, preview.FactorsFor(params).Brightness)
}

func TestApply_NeutralIsIdentity(t *testing.T) {
	src := solid(4, 4, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	out := preview.Apply(src, preview.Factors{Brightness: 1, Contrast: 1, Saturation: 1})
	assert.Equal(t, src.Pix, out.Pix)
}

func TestApply_Brightness(t *testing.T) {
	src := solid(2, 2, color.NRGBA{R: 100, G: 200, B: 40, A: 255})

	dark := preview.Apply(src, preview.Factors{Brightness: 0.5, Contrast: 1, Saturation: 1})
	assert.Equal(t, color.NRGBA{R: 50, G: 100, B: 20, A: 255}, dark.NRGBAAt(0, 0))

	bright := preview.Apply(src, preview.Factors{Brightness: 1.5, Contrast: 1, Saturation: 1})
	assert.Equal(t, color.NRGBA{R: 150, G: 255, B: 60, A: 255}, bright.NRGBAAt(1, 1))
}

func TestApply_ZeroSaturationIsGray(t *testing.T) {
	src := solid(2, 2, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	out := preview.Apply(src, preview.Factors{Brightness: 1, Contrast: 1, Saturation: 0})

	c := out.NRGBAAt(0, 0)
	assert.InDelta(t, int(c.R), int(c.G), 1)
	assert.InDelta(t, int(c.G), int(c.B), 1)
}

func TestApply_ContrastPushesAwayFromMidGray(t *testing.T) {
	src := solid(2, 2, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	out := preview.Apply(src, preview.Factors{Brightness: 1, Contrast: 1.5, Saturation: 1})
	assert.Greater(t, out.NRGBAAt(0, 0).R, uint8(200))
}

func TestRender_ProducesJPEG(t *testing.T) {
	r := preview.NewRenderer(0, 0)
	data := encodePNG(t, solid(16, 8, color.NRGBA{R: 128, G: 128, B: 128, A: 255}))

	params := style.Default()
	params.Exposure = -0.5
	out, err := r.Render(context.Background(), bytes.NewReader(data), params)
	require.NoError(t, err)
	require.True(t, len(out) > 3)
	assert.Equal(t, []byte{0xFF, 0xD8}, out[:2])

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	gray := color.NRGBAModel.Convert(img.At(4, 4)).(color.NRGBA)
	assert.InDelta(t, 64, int(gray.R), 3)
}

func TestRender_FitsLargeImages(t *testing.T) {
	r := preview.NewRenderer(10, 80)
	data := encodePNG(t, solid(40, 20, color.NRGBA{R: 10, G: 20, B: 30, A: 255}))

	out, err := r.Render(context.Background(), bytes.NewReader(data), style.Default())
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())
}

func TestRender_UnsupportedImage(t *testing.T) {
	r := preview.NewRenderer(0, 0)
	_, err := r.Render(context.Background(), strings.NewReader("not an image"), style.Default())
	assert.ErrorIs(t, err, preview.ErrUnsupportedImage)
}

func TestRender_CancelledContext(t *testing.T) {
	r := preview.NewRenderer(0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := encodePNG(t, solid(4, 4, color.NRGBA{A: 255}))
	_, err := r.Render(ctx, bytes.NewReader(data), style.Default())
	assert.ErrorIs(t, err, context.Canceled)
}

// 1x1 lossless WebP
const tinyWebP = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func TestWebPIsRegistered(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(tinyWebP)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "webp", format)
	assert.Equal(t, 1, cfg.Width)
	assert.Equal(t, 1, cfg.Height)
}
