package scratchcard

import (
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadFontInvalid(t *testing.T) {
	if _, err := LoadFont([]byte("not a font"), 14); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestFontFit(t *testing.T) {
	f, err := LoadFont(goregular.TTF, 14)
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	full, _ := f.MeasureString("MOUNTAIN")
	if full <= 0 {
		t.Fatalf("MeasureString width = %v, want > 0", full)
	}

	tests := []struct {
		name  string
		width float64
	}{
		{"fits", full + 1},
		{"exact", full},
		{"half", full / 2},
		{"tiny", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Fit("MOUNTAIN", tt.width)
			if tt.width >= full {
				if got != "MOUNTAIN" {
					t.Errorf("Fit = %q, want unchanged", got)
				}
				return
			}
			if got != "" && !strings.HasSuffix(got, "…") {
				t.Errorf("Fit = %q, want an ellipsis", got)
			}
			if w, _ := f.MeasureString(got); w > tt.width {
				t.Errorf("Fit = %q measures %v, want <= %v", got, w, tt.width)
			}
		})
	}
}
