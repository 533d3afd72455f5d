package imagepath

import (
	"path/filepath"
	"testing"

	"imageforge/internal/identifier"
	"imageforge/internal/imageformat"
)

func TestDerive(t *testing.T) {
	id := identifier.New()
	got := Derive("/data/images", id, imageformat.PNG)
	want := filepath.Join("/data/images", id.String()+".png")
	if got != want {
		t.Fatalf("Derive = %q, want %q", got, want)
	}
}

func TestDeriveVariesByFormat(t *testing.T) {
	id := identifier.New()
	png := Derive("root", id, imageformat.PNG)
	jpg := Derive("root", id, imageformat.JPEG)
	if png == jpg {
		t.Fatalf("expected distinct paths per format, both got %q", png)
	}
}
