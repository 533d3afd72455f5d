// Package codec is the Codec Gateway (spec §4.E): sniff-from-bytes,
// decode, resize, and encode-to-format, with every CPU-bound call run on a
// dedicated blocking worker pool (spec §5).
package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"github.com/gen2brain/webp"

	"imageforge/internal/codec/radiance"
	"imageforge/internal/imageformat"
	"imageforge/internal/imgerr"
)

// Gateway wraps the pixel-level codec libraries behind the four
// spec-mandated primitives, all scheduled on a shared blocking Pool.
type Gateway struct {
	pool *Pool
}

// New builds a Gateway backed by a worker pool of the given size.
func New(workers int) *Gateway {
	return &Gateway{pool: NewPool(workers)}
}

// Close shuts the underlying pool down, waiting for in-flight work.
func (g *Gateway) Close() { g.pool.Close() }

// Sniff guesses format from magic bytes. Grounded on the teacher's
// internal/imaging/validator.go DetectFormat magic-byte table, generalized
// to the five-format registry (adding Radiance's "#?RADIANCE"/"#?RGBE"
// text header).
func Sniff(data []byte) (imageformat.Format, error) {
	if len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}) {
		return imageformat.JPEG, nil
	}
	if len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) {
		return imageformat.PNG, nil
	}
	if len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return imageformat.WEBP, nil
	}
	if len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")) {
		brand := string(data[8:12])
		switch brand {
		case "avif", "avis":
			return imageformat.AVIF, nil
		}
	}
	if bytes.HasPrefix(data, []byte("#?RADIANCE")) || bytes.HasPrefix(data, []byte("#?RGBE")) {
		return imageformat.HDR, nil
	}
	return 0, imgerr.UnsupportedFormat("could not guess image format from bytes")
}

// Decode runs the format-appropriate decoder on the pool.
func (g *Gateway) Decode(ctx context.Context, data []byte, format imageformat.Format) (image.Image, error) {
	return Submit(ctx, g.pool, func() (image.Image, error) {
		r := bytes.NewReader(data)
		switch format {
		case imageformat.PNG:
			img, err := png.Decode(r)
			return img, wrapMalformed(err)
		case imageformat.JPEG:
			img, err := jpeg.Decode(r)
			return img, wrapMalformed(err)
		case imageformat.WEBP:
			img, err := webp.Decode(r)
			return img, wrapMalformed(err)
		case imageformat.AVIF:
			img, err := avif.Decode(r)
			return img, wrapMalformed(err)
		case imageformat.HDR:
			img, err := radiance.Decode(r)
			return img, wrapMalformed(err)
		default:
			return nil, imgerr.UnsupportedFormat(fmt.Sprintf("no decoder for format %s", format))
		}
	})
}

// Resize fits img within a w x h bounding box using Lanczos3, preserving
// aspect ratio. Missing dimensions (0) are filled with the source's own
// dimension along that axis before fitting — see DESIGN.md's resize
// Open Question resolution.
func (g *Gateway) Resize(ctx context.Context, img image.Image, w, h int) (image.Image, error) {
	return Submit(ctx, g.pool, func() (image.Image, error) {
		bounds := img.Bounds()
		if w <= 0 {
			w = bounds.Dx()
		}
		if h <= 0 {
			h = bounds.Dy()
		}
		return imaging.Fit(img, w, h, imaging.Lanczos), nil
	})
}

// Encode runs the format-appropriate encoder on the pool.
func (g *Gateway) Encode(ctx context.Context, img image.Image, format imageformat.Format) ([]byte, error) {
	return Submit(ctx, g.pool, func() ([]byte, error) {
		var buf bytes.Buffer
		var err error
		switch format {
		case imageformat.PNG:
			err = png.Encode(&buf, img)
		case imageformat.JPEG:
			err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
		case imageformat.WEBP:
			err = webp.Encode(&buf, img, webp.Options{Quality: 90})
		case imageformat.AVIF:
			err = avif.Encode(&buf, img, avif.Options{Quality: 90})
		case imageformat.HDR:
			err = radiance.Encode(&buf, img)
		default:
			return nil, imgerr.UnsupportedFormat(fmt.Sprintf("no encoder for format %s", format))
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", format, err)
		}
		return buf.Bytes(), nil
	})
}

func wrapMalformed(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("decode: malformed image: %w", err)
}
