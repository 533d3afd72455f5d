// Package radiance implements a minimal encoder/decoder for the Radiance
// RGBE picture format (".hdr"), the one supported format with no library
// anywhere in the corpus or a plausible ecosystem equivalent — see
// DESIGN.md. It supports the flat (non run-length-encoded) scanline
// layout only, which this package always writes and can always read back.
package radiance

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strings"
)

const magic = "#?RADIANCE\n"

// Image holds linear RGB radiance values, three float32s per pixel,
// row-major from the top-left. It implements image.Image via a tone-mapped
// RGBA64 view (clamped to [0,1]) so it can flow through the rest of the
// Codec Gateway (resize, re-encode to an LDR format) like any other
// decoded image.
type Image struct {
	Width, Height int
	Pix           []float32
}

// New allocates a zeroed radiance image of the given dimensions.
func New(w, h int) *Image {
	return &Image{Width: w, Height: h, Pix: make([]float32, w*h*3)}
}

func (im *Image) ColorModel() color.Model { return color.RGBA64Model }

func (im *Image) Bounds() image.Rectangle { return image.Rect(0, 0, im.Width, im.Height) }

func (im *Image) At(x, y int) color.Color {
	i := (y*im.Width + x) * 3
	return color.RGBA64{
		R: clampTo16(im.Pix[i]),
		G: clampTo16(im.Pix[i+1]),
		B: clampTo16(im.Pix[i+2]),
		A: 0xffff,
	}
}

// Set stores a linear radiance value at (x, y).
func (im *Image) Set(x, y int, r, g, b float32) {
	i := (y*im.Width + x) * 3
	im.Pix[i], im.Pix[i+1], im.Pix[i+2] = r, g, b
}

func clampTo16(v float32) uint16 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint16(v*65535 + 0.5)
}

// FromImage converts any decoded image into a radiance Image, treating its
// 16-bit RGBA samples as linear radiance in [0,1].
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	out := New(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			out.Set(x-b.Min.X, y-b.Min.Y, float32(r)/65535, float32(g)/65535, float32(bl)/65535)
		}
	}
	return out
}

// Encode writes img in the flat (uncompressed) Radiance RGBE layout.
func Encode(w io.Writer, src image.Image) error {
	im, ok := src.(*Image)
	if !ok {
		im = FromImage(src)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(magic); err != nil {
		return err
	}
	if _, err := bw.WriteString("FORMAT=32-bit_rle_rgbe\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "-Y %d +X %d\n", im.Height, im.Width); err != nil {
		return err
	}

	var rgbe [4]byte
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			i := (y*im.Width + x) * 3
			floatToRGBE(im.Pix[i], im.Pix[i+1], im.Pix[i+2], &rgbe)
			if _, err := bw.Write(rgbe[:]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Decode reads a flat-layout Radiance RGBE image.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)

	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("radiance: read header: %w", err)
	}
	if line != magic && !strings.HasPrefix(line, "#?RGBE") {
		return nil, fmt.Errorf("radiance: missing magic header")
	}

	// Skip variable lines until the blank line separator.
	for {
		line, err = br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("radiance: read header: %w", err)
		}
		if strings.TrimRight(line, "\r\n") == "" {
			break
		}
	}

	resLine, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("radiance: read resolution line: %w", err)
	}
	var height, width int
	if _, err := fmt.Sscanf(strings.TrimSpace(resLine), "-Y %d +X %d", &height, &width); err != nil {
		return nil, fmt.Errorf("radiance: parse resolution %q: %w", resLine, err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("radiance: invalid dimensions %dx%d", width, height)
	}

	im := New(width, height)
	var rgbe [4]byte
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if _, err := io.ReadFull(br, rgbe[:]); err != nil {
				return nil, fmt.Errorf("radiance: read pixel (%d,%d): %w", x, y, err)
			}
			r, g, b := rgbeToFloat(rgbe)
			im.Set(x, y, r, g, b)
		}
	}
	return im, nil
}

// floatToRGBE applies Ward's shared-exponent encoding.
func floatToRGBE(r, g, b float32, out *[4]byte) {
	v := r
	if g > v {
		v = g
	}
	if b > v {
		v = b
	}
	if v < 1e-32 {
		*out = [4]byte{0, 0, 0, 0}
		return
	}
	mant, exp := math.Frexp(float64(v))
	scale := mant * 256.0 / float64(v)
	out[0] = byteClamp(float64(r) * scale)
	out[1] = byteClamp(float64(g) * scale)
	out[2] = byteClamp(float64(b) * scale)
	out[3] = byte(exp + 128)
}

func byteClamp(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// rgbeToFloat inverts floatToRGBE.
func rgbeToFloat(rgbe [4]byte) (r, g, b float32) {
	if rgbe[3] == 0 {
		return 0, 0, 0
	}
	f := math.Ldexp(1.0, int(rgbe[3])-128-8)
	r = float32(float64(rgbe[0]) * f)
	g = float32(float64(rgbe[1]) * f)
	b = float32(float64(rgbe[2]) * f)
	return
}
