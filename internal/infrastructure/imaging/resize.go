// Package imaging scales product images for the storefront.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// Format is an encoded image format
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
)

// ErrUnsupportedFormat is returned for formats other than png, jpeg and gif
var ErrUnsupportedFormat = errors.New("unsupported image format")

// FormatFromName derives the format from a file name extension
func FormatFromName(name string) (Format, error) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "", ErrUnsupportedFormat
	}
	switch strings.ToLower(name[i+1:]) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	}
	return "", ErrUnsupportedFormat
}

// Resize scales src to exactly w x h in a single bilinear pass
func Resize(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// ResizeQuality scales src to w x h by halving both dimensions while they are
// more than twice the target, then finishing with Catmull-Rom.
// Upscaling is a single pass.
func ResizeQuality(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	cw, ch := b.Dx(), b.Dy()
	if w >= cw || h >= ch {
		return scale(src, w, h, draw.CatmullRom)
	}

	current := src
	for cw > 2*w && ch > 2*h {
		cw, ch = cw/2, ch/2
		current = scale(current, cw, ch, draw.BiLinear)
	}
	return scale(current, w, h, draw.CatmullRom)
}

func scale(src image.Image, w, h int, s draw.Scaler) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	s.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// FitDimensions returns the largest size within maxW x maxH that keeps the
// w:h ratio. Both results are clamped to [1, max].
func FitDimensions(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	ratio := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := clamp(int(math.Round(float64(w)*ratio)), 1, maxW)
	nh := clamp(int(math.Round(float64(h)*ratio)), 1, maxH)
	return nw, nh
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ResizeWithRatio shrinks src to fit in maxW x maxH keeping its aspect ratio.
// An image that already fits is returned unchanged.
func ResizeWithRatio(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := FitDimensions(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	return ResizeQuality(src, w, h)
}

// Decode reads a png, jpeg or gif image
func Decode(r io.Reader) (image.Image, Format, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, Format(name), nil
}

// Encode writes img in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	}
	return ErrUnsupportedFormat
}
