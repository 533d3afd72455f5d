package codec

import (
	"context"
	"image"
	"image/color"
	"testing"

	"imageforge/internal/imageformat"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    imageformat.Format
		wantErr bool
	}{
		{name: "jpeg", data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, want: imageformat.JPEG},
		{name: "png", data: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, want: imageformat.PNG},
		{name: "webp", data: append(append([]byte("RIFF"), 0, 0, 0, 0), []byte("WEBP")...), want: imageformat.WEBP},
		{name: "avif", data: append([]byte{0, 0, 0, 0x20}, []byte("ftypavif")...), want: imageformat.AVIF},
		{name: "radiance", data: []byte("#?RADIANCE\n"), want: imageformat.HDR},
		{name: "unknown", data: []byte("not an image"), wantErr: true},
		{name: "empty", data: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sniff(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Sniff: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Sniff = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResizeFillsMissingDimensionFromSource(t *testing.T) {
	g := New(1)
	defer g.Close()

	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			src.Set(x, y, color.White)
		}
	}

	resized, err := g.Resize(context.Background(), src, 100, 0)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}

	b := resized.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("expected 100x50 (aspect preserved), got %dx%d", b.Dx(), b.Dy())
	}
}
