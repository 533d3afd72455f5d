// Package imageformat is the Format Registry (spec §4.A): the single
// bijection between the closed set of supported format tags and their
// codec handles, file extensions, and MIME types. No other package spells
// format tags as string literals except when translating wire input.
package imageformat

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"imageforge/internal/imgerr"
)

// Format is the closed enumeration {PNG, JPEG, WEBP, HDR, AVIF}.
type Format int

const (
	PNG Format = iota
	JPEG
	WEBP
	HDR
	AVIF
)

type entry struct {
	tag string
	ext string
	mime string
}

var registry = map[Format]entry{
	PNG:  {tag: "png", ext: "png", mime: "image/png"},
	JPEG: {tag: "jpg", ext: "jpg", mime: "image/jpeg"},
	WEBP: {tag: "webp", ext: "webp", mime: "image/webp"},
	HDR:  {tag: "hdr", ext: "hdr", mime: "image/vnd.radiance"},
	AVIF: {tag: "avif", ext: "avif", mime: "image/avif"},
}

// aliases maps additional accepted input spellings to a canonical tag.
var aliases = map[string]Format{
	"jpeg": JPEG,
}

// Parse resolves a wire-format tag to a Format. An empty string is never a
// valid format (callers must treat "" as "absent" before calling Parse).
func Parse(tag string) (Format, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return 0, imgerr.UnsupportedFormat("format tag is empty")
	}
	for f, e := range registry {
		if e.tag == tag {
			return f, nil
		}
	}
	if f, ok := aliases[tag]; ok {
		return f, nil
	}
	return 0, imgerr.UnsupportedFormat(fmt.Sprintf("unsupported format tag %q", tag))
}

// Tag returns the canonical lowercase tag for f.
func (f Format) Tag() string {
	e, ok := registry[f]
	if !ok {
		return "unknown"
	}
	return e.tag
}

// Extension returns the file extension for f, equal to its tag.
func (f Format) Extension() string {
	return f.Tag()
}

// MIME returns the MIME type the Codec Gateway reports for f.
func (f Format) MIME() string {
	e, ok := registry[f]
	if !ok {
		return "application/octet-stream"
	}
	return e.mime
}

// String implements fmt.Stringer via Tag, for log/debug output.
func (f Format) String() string {
	return f.Tag()
}

// Valid reports whether f is one of the closed set of variants.
func (f Format) Valid() bool {
	_, ok := registry[f]
	return ok
}

// Value implements driver.Valuer: the durable representation in the
// Metadata Store is the canonical tag text.
func (f Format) Value() (driver.Value, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("imageformat: invalid format %d", int(f))
	}
	return f.Tag(), nil
}

// Scan implements sql.Scanner, parsing the stored tag back into a Format.
func (f *Format) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("imageformat: unsupported scan source %T", src)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// All returns every supported format, in a stable order, for iteration
// (e.g. in tests).
func All() []Format {
	return []Format{PNG, JPEG, WEBP, HDR, AVIF}
}
