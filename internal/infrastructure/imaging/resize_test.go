package imaging

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img
}

func TestResizeWithRatio_FitsBoxAndKeepsRatio(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW, maxH int
	}{
		{"landscape", 1600, 900, 800, 800},
		{"portrait", 600, 1800, 150, 150},
		{"square", 1000, 1000, 150, 300},
		{"thin", 3000, 2, 800, 800},
		{"odd", 1023, 767, 151, 149},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ResizeWithRatio(solid(tt.w, tt.h), tt.maxW, tt.maxH)
			b := out.Bounds()
			assert.LessOrEqual(t, b.Dx(), tt.maxW)
			assert.LessOrEqual(t, b.Dy(), tt.maxH)
			assert.GreaterOrEqual(t, b.Dx(), 1)
			assert.GreaterOrEqual(t, b.Dy(), 1)

			// the derived side matches the source ratio within one pixel
			if float64(tt.w)/float64(tt.maxW) >= float64(tt.h)/float64(tt.maxH) {
				want := float64(tt.h) * float64(b.Dx()) / float64(tt.w)
				assert.InDelta(t, want, float64(b.Dy()), 1.0)
			} else {
				want := float64(tt.w) * float64(b.Dy()) / float64(tt.h)
				assert.InDelta(t, want, float64(b.Dx()), 1.0)
			}
		})
	}
}

func TestResizeWithRatio_ReturnsSourceWhenItFits(t *testing.T) {
	src := solid(100, 50)
	assert.Same(t, src, ResizeWithRatio(src, 150, 150))
}

func TestResize(t *testing.T) {
	out := Resize(solid(40, 20), 10, 30)
	assert.Equal(t, image.Rect(0, 0, 10, 30), out.Bounds())
}

func TestResizeQuality(t *testing.T) {
	out := ResizeQuality(solid(1000, 800), 100, 80)
	assert.Equal(t, image.Rect(0, 0, 100, 80), out.Bounds())
	r, _, _, _ := out.At(50, 40).RGBA()
	assert.InDelta(t, 200, r>>8, 2)

	up := ResizeQuality(solid(10, 10), 30, 30)
	assert.Equal(t, image.Rect(0, 0, 30, 30), up.Bounds())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatPNG, FormatJPEG, FormatGIF} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, solid(8, 4), f))
		img, got, err := Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, f, got)
		assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	}
	assert.ErrorIs(t, Encode(&bytes.Buffer{}, solid(1, 1), "bmp"), ErrUnsupportedFormat)
}

func TestFormatFromName(t *testing.T) {
	f, err := FormatFromName("Photo.JPG")
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, f)
	_, err = FormatFromName("archive.zip")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
