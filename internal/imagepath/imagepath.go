// Package imagepath is the Image Path Derivation component (spec §4.B): a
// pure function mapping (root, identifier, format) to a filesystem path.
// It is the only place that concatenates these three inputs; every Object
// Store read and write goes through Derive.
package imagepath

import (
	"path/filepath"

	"imageforge/internal/identifier"
	"imageforge/internal/imageformat"
)

// Derive returns root/hex32(identifier).extension(format).
//
// Path traversal is structurally impossible here: identifiers are
// server-minted (identifier.New) and hex-only, and formats come from the
// closed imageformat.Format enumeration, so neither input can carry path
// separators or ".." segments.
func Derive(root string, id identifier.ID, format imageformat.Format) string {
	name := id.String() + "." + format.Extension()
	return filepath.Join(root, name)
}
