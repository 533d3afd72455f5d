// Package identifier implements the server-minted 128-bit opaque identifier
// (spec §3 "Identifier"): 32 lowercase hex digits, no separators.
package identifier

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"imageforge/internal/imgerr"
)

// ID is a 128-bit server-minted identifier. It is never derived from
// client input; uuid.New() is only used as a 16-byte random source, never
// rendered in its dashed RFC-4122 form.
type ID [16]byte

// New mints a fresh random identifier.
func New() ID {
	return ID(uuid.New())
}

// String renders the identifier as 32 lowercase hex digits.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Parse decodes a hex32 identifier string, failing with BadIdentifier on
// any malformed input.
func Parse(s string) (ID, error) {
	if len(s) != 32 {
		return ID{}, imgerr.BadIdentifier(fmt.Sprintf("identifier must be 32 hex characters, got %d", len(s)))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, imgerr.BadIdentifier("identifier is not valid hex")
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// Value implements driver.Valuer for storage as a 16-byte column.
func (id ID) Value() (driver.Value, error) {
	return id[:], nil
}

// Scan implements sql.Scanner, reading back a 16-byte column.
func (id *ID) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("identifier: unsupported scan source %T", src)
	}
	if len(b) != 16 {
		return fmt.Errorf("identifier: expected 16 bytes, got %d", len(b))
	}
	copy(id[:], b)
	return nil
}
