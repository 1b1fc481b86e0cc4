package errors

import (
	"strings"
	"testing"
)

func TestValidateColumnName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "latency_ms", false},
		{"valid with space", "task type", false},
		{"valid unicode", "latenz_µs", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnName("x", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSpec) {
				t.Errorf("ValidateColumnName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidSpec)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative file", "chart.png", false},
		{"nested file", "out/plots/latency.svg", false},
		{"absolute file", "/tmp/run-1/latency.pdf", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"trailing slash", "out/", true},
		{"dot", ".", true},
		{"dot dot", "out/..", true},
		{"null byte", "chart\x00.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
