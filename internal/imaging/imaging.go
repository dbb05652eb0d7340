package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 85

// DefaultMaxPixels bounds width*height when no limit is configured.
const DefaultMaxPixels int64 = 40_000_000

var ErrUnsupportedImage = errors.New("unsupported image")

var mediaTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Inspect returns the media type of an encoded jpeg, png, gif or webp image
// of at most DefaultMaxPixels pixels.
func Inspect(data []byte) (string, error) {
	_, mediaType, err := decodeConfig(data, DefaultMaxPixels)
	return mediaType, err
}

// Only the header is read, so oversized images are refused before any pixel
// buffer is allocated.
func decodeConfig(data []byte, maxPixels int64) (image.Config, string, error) {
	if len(data) == 0 {
		return image.Config{}, "", fmt.Errorf("%w: empty", ErrUnsupportedImage)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	mediaType, ok := mediaTypes[format]
	if !ok {
		return image.Config{}, "", fmt.Errorf("%w: format %s", ErrUnsupportedImage, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", fmt.Errorf("%w: %dx%d", ErrUnsupportedImage, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return image.Config{}, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedImage, cfg.Width, cfg.Height, maxPixels)
	}
	return cfg, mediaType, nil
}

// Normalizer shrinks images before they are sent for inference.
type Normalizer struct {
	maxDimension int
	maxPixels    int64
}

// NewNormalizer falls back to DefaultMaxPixels when maxPixels is not positive.
func NewNormalizer(maxDimension int, maxPixels int64) *Normalizer {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Normalizer{maxDimension: maxDimension, maxPixels: maxPixels}
}

// Inspect is the package Inspect with the normalizer's pixel limit.
func (n *Normalizer) Inspect(data []byte) (string, error) {
	_, mediaType, err := decodeConfig(data, n.maxPixels)
	return mediaType, err
}

// Prepare returns data unchanged when its larger side fits maxDimension.
// Larger images are scaled with Catmull-Rom onto a white canvas and
// re-encoded as JPEG.
func (n *Normalizer) Prepare(data []byte) ([]byte, string, error) {
	cfg, mediaType, err := decodeConfig(data, n.maxPixels)
	if err != nil {
		return nil, "", err
	}
	if n.maxDimension <= 0 || max(cfg.Width, cfg.Height) <= n.maxDimension {
		return data, mediaType, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	w, h := fit(cfg.Width, cfg.Height, n.maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encode scaled image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

func fit(w, h, limit int) (int, int) {
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
