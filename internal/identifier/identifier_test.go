package identifier

import "testing"

func TestNewProducesHex32(t *testing.T) {
	id := New()
	s := id.String()
	if len(s) != 32 {
		t.Fatalf("expected 32 hex chars, got %d (%q)", len(s), s)
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			t.Fatalf("non-lowercase-hex rune %q in %q", r, s)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	id := New()
	parsed, err := Parse(id.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: got %v want %v", parsed, id)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"too short", "abcd"},
		{"too long", "0000000000000000000000000000000000"},
		{"not hex", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.in); err == nil {
				t.Fatalf("expected error parsing %q", tt.in)
			}
		})
	}
}

func TestValueScanRoundTrip(t *testing.T) {
	id := New()
	v, err := id.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	b, ok := v.([]byte)
	if !ok || len(b) != 16 {
		t.Fatalf("expected 16-byte []byte, got %T", v)
	}

	var scanned ID
	if err := scanned.Scan(b); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if scanned != id {
		t.Fatalf("scan round trip mismatch: got %v want %v", scanned, id)
	}
}
