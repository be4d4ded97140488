package hypnosis

import (
	"errors"
	"testing"
)

func TestResolvePriority(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		def     float64
		want    float64
		wantErr bool
	}{
		{name: "critical", input: "critical", want: 0.99},
		{name: "high", input: "high", want: 0.95},
		{name: "medium", input: "medium", want: 0.85},
		{name: "low", input: "low", want: 0.75},
		{name: "level is case-insensitive", input: "CRITICAL", want: 0.99},
		{name: "empty uses default", input: "", def: 0.6, want: 0.6},
		{name: "raw score verbatim", input: "0.5", want: 0.5},
		{name: "zero is valid", input: "0", want: 0},
		{name: "one is valid", input: "1", want: 1},
		{name: "above range", input: "1.5", wantErr: true},
		{name: "below range", input: "-0.1", wantErr: true},
		{name: "unknown level", input: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePriority(tt.input, tt.def)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPriority) {
					t.Fatalf("expected ErrInvalidPriority, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
