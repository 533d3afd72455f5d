package ingest

import (
	"testing"
	"time"
)

func TestDetermineExpiresAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	reqTTL := int64(60)
	maxTTL := int64(300)
	smallReq := int64(100)
	bigReq := int64(500)

	tests := []struct {
		name      string
		requested *int64
		max       *int64
		wantSecs  int64
		wantErr   bool
	}{
		{name: "neither set", requested: nil, max: nil, wantErr: true},
		{name: "only max set", requested: nil, max: &maxTTL, wantSecs: 300},
		{name: "only requested set", requested: &reqTTL, max: nil, wantSecs: 60},
		{name: "requested under max", requested: &smallReq, max: &maxTTL, wantSecs: 100},
		{name: "requested over max clamps to max", requested: &bigReq, max: &maxTTL, wantSecs: 300},
		{name: "requested equals max", requested: &maxTTL, max: &maxTTL, wantSecs: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetermineExpiresAt(now, tt.requested, tt.max)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DetermineExpiresAt: %v", err)
			}
			want := now.Add(time.Duration(tt.wantSecs) * time.Second)
			if !got.Equal(want) {
				t.Fatalf("got %v, want %v", got, want)
			}
		})
	}
}
