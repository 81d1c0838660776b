package transform

import (
	"errors"
	"fmt"
)

// ErrDegenerateContrast is returned when a request's contrast delta hits the
// singularity of the contrast formula (delta = 259), where the denominator
// becomes zero. The request is rejected before any state is mutated.
var ErrDegenerateContrast = errors.New("contrast delta hits the formula singularity")

// ErrInvalidRequest is the base error for out-of-range request fields.
var ErrInvalidRequest = errors.New("invalid transform request")

// degenerateContrast is the contrast delta at which the contrast factor's
// denominator 255*(259-delta) reaches zero.
const degenerateContrast = 259

// Filter selects the per-pixel filter applied after brightness and contrast.
type Filter int

const (
	// FilterNone applies no filter.
	FilterNone Filter = iota

	// FilterGrayscale replaces R, G, and B with their mean.
	FilterGrayscale

	// FilterSepia applies the classic sepia weighting matrix.
	FilterSepia

	// FilterInvert replaces each color channel c with 255-c.
	FilterInvert
)

// String returns the filter's wire name.
func (f Filter) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterGrayscale:
		return "grayscale"
	case FilterSepia:
		return "sepia"
	case FilterInvert:
		return "invert"
	default:
		return "unknown"
	}
}

// ParseFilter converts a wire name into a Filter. The empty string parses as
// FilterNone.
func ParseFilter(name string) (Filter, error) {
	switch name {
	case "", "none":
		return FilterNone, nil
	case "grayscale":
		return FilterGrayscale, nil
	case "sepia":
		return FilterSepia, nil
	case "invert":
		return FilterInvert, nil
	default:
		return FilterNone, fmt.Errorf("%w: unknown filter %q", ErrInvalidRequest, name)
	}
}

// Request describes one transform invocation. It is immutable per run; the
// engine never mutates it.
type Request struct {
	// Brightness is a per-channel delta in [-100, 100].
	Brightness int `json:"brightness"`

	// Contrast is a per-channel delta in [-100, 100].
	Contrast int `json:"contrast"`

	// Filter is the per-pixel filter applied after brightness and contrast.
	Filter Filter `json:"filter"`

	// Rotation is one of 0, 90, 180, 270 degrees clockwise.
	Rotation int `json:"rotation"`
}

// Validate checks the request's field domains.
//
// The contrast singularity is checked first so that a delta of 259 surfaces
// as ErrDegenerateContrast rather than a plain range error.
func (r Request) Validate() error {
	if r.Contrast == degenerateContrast {
		return ErrDegenerateContrast
	}
	if r.Brightness < -100 || r.Brightness > 100 {
		return fmt.Errorf("%w: brightness %d outside [-100,100]", ErrInvalidRequest, r.Brightness)
	}
	if r.Contrast < -100 || r.Contrast > 100 {
		return fmt.Errorf("%w: contrast %d outside [-100,100]", ErrInvalidRequest, r.Contrast)
	}
	switch r.Filter {
	case FilterNone, FilterGrayscale, FilterSepia, FilterInvert:
	default:
		return fmt.Errorf("%w: unknown filter %d", ErrInvalidRequest, int(r.Filter))
	}
	switch r.Rotation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("%w: rotation %d not one of 0/90/180/270", ErrInvalidRequest, r.Rotation)
	}
	return nil
}

// IsIdentity reports whether the request changes nothing: zero deltas, no
// filter, no rotation.
func (r Request) IsIdentity() bool {
	return r.Brightness == 0 && r.Contrast == 0 && r.Filter == FilterNone && r.Rotation == 0
}
