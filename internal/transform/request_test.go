package transform

import (
	"errors"
	"testing"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"identity is valid", Request{}, nil},
		{"full range is valid", Request{Brightness: 100, Contrast: -100, Filter: FilterSepia, Rotation: 270}, nil},
		{"brightness too high", Request{Brightness: 101}, ErrInvalidRequest},
		{"brightness too low", Request{Brightness: -101}, ErrInvalidRequest},
		{"contrast too high", Request{Contrast: 150}, ErrInvalidRequest},
		{"degenerate contrast", Request{Contrast: 259}, ErrDegenerateContrast},
		{"unknown filter", Request{Filter: Filter(9)}, ErrInvalidRequest},
		{"diagonal rotation", Request{Rotation: 45}, ErrInvalidRequest},
		{"negative rotation", Request{Rotation: -90}, ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDegenerateContrastPrecedesRangeCheck(t *testing.T) {
	// 259 is also outside [-100,100]; it must still surface as the
	// singularity error, never reach the division, and never be reported
	// as a plain range violation.
	err := Request{Contrast: 259}.Validate()
	if !errors.Is(err, ErrDegenerateContrast) {
		t.Fatalf("got %v, want ErrDegenerateContrast", err)
	}
	if errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("degenerate contrast must not be reported as a range error")
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", FilterNone, false},
		{"none", FilterNone, false},
		{"grayscale", FilterGrayscale, false},
		{"sepia", FilterSepia, false},
		{"invert", FilterInvert, false},
		{"blur", FilterNone, true},
	}

	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFilter(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFilter(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFilter(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFilterRoundTrip(t *testing.T) {
	for _, f := range []Filter{FilterNone, FilterGrayscale, FilterSepia, FilterInvert} {
		got, err := ParseFilter(f.String())
		if err != nil {
			t.Fatalf("ParseFilter(%q) failed: %v", f.String(), err)
		}
		if got != f {
			t.Errorf("round trip: got %v, want %v", got, f)
		}
	}
}
