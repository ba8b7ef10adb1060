package params

import (
	"errors"
	"fmt"
	"image/color"
)

// Valid ranges for processing parameters.
const (
	MinZoomOutFactor = 0.5
	MaxZoomOutFactor = 3.0
	MaxPaddingRatio  = 2.0
)

// Parameter validation errors. All of them wrap into the invalid-parameter
// class: they are detected before any pixel work happens and the caller can
// recover by supplying corrected values.
var (
	ErrInvalidDimensions = errors.New("target width and height must be positive")
	ErrInvalidZoomFactor = fmt.Errorf("zoom out factor must be between %g and %g", MinZoomOutFactor, MaxZoomOutFactor)
	ErrInvalidPadding    = fmt.Errorf("padding ratios must be between 0.0 and %g", MaxPaddingRatio)

	// ErrMissingParameter is returned by boundaries that receive parameters
	// as loose maps (config presets) when a required field is absent.
	ErrMissingParameter = errors.New("missing required parameter")
)

// ProcessingParameters is the immutable value set for one processing call.
type ProcessingParameters struct {
	TargetWidth  int
	TargetHeight int

	// Padding ratios are fractions of the face box added around it:
	// top/bottom relative to face height, side relative to face width.
	PaddingTopRatio    float64
	PaddingBottomRatio float64
	PaddingSideRatio   float64

	// ZoomOutFactor scales the crop box around its center; values above 1
	// admit more surrounding context.
	ZoomOutFactor float64

	// Pixel offsets applied to the crop box center, positive = right/down.
	ShiftX int
	ShiftY int

	// BorderColor fills the padding added when the crop does not cover the
	// target size exactly.
	BorderColor color.Color

	// Grayscale converts the final image to luminance as a post-process.
	Grayscale bool
}

// Default returns the default processing parameters: a 400x500 portrait with
// generous shoulder room and a slight zoom out.
func Default() ProcessingParameters {
	return ProcessingParameters{
		TargetWidth:        400,
		TargetHeight:       500,
		PaddingTopRatio:    0.2,
		PaddingBottomRatio: 0.5,
		PaddingSideRatio:   0.1,
		ZoomOutFactor:      1.1,
		BorderColor:        color.NRGBA{0, 0, 0, 255},
	}
}

// Validate range-checks all parameters. It must pass before the parameters
// reach the crop planner.
func (p ProcessingParameters) Validate() error {
	if p.TargetWidth <= 0 || p.TargetHeight <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, p.TargetWidth, p.TargetHeight)
	}
	if p.ZoomOutFactor < MinZoomOutFactor || p.ZoomOutFactor > MaxZoomOutFactor {
		return fmt.Errorf("%w: got %g", ErrInvalidZoomFactor, p.ZoomOutFactor)
	}
	for _, r := range []float64{p.PaddingTopRatio, p.PaddingBottomRatio, p.PaddingSideRatio} {
		if r < 0 || r > MaxPaddingRatio {
			return fmt.Errorf("%w: got %g", ErrInvalidPadding, r)
		}
	}
	return nil
}

// TargetRatio returns the target aspect ratio (width/height).
func (p ProcessingParameters) TargetRatio() float64 {
	return float64(p.TargetWidth) / float64(p.TargetHeight)
}

// Border returns the border color, defaulting to opaque black when unset.
func (p ProcessingParameters) Border() color.Color {
	if p.BorderColor == nil {
		return color.NRGBA{0, 0, 0, 255}
	}
	return p.BorderColor
}

// ParseHexColor parses "#RGB" or "#RRGGBB" color strings as used in preset
// configuration files.
func ParseHexColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 255}
	if len(s) == 0 || s[0] != '#' {
		return c, fmt.Errorf("invalid hex color %q", s)
	}

	hex := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}

	switch len(s) {
	case 7:
		for i, p := range []*uint8{&c.R, &c.G, &c.B} {
			hi, ok1 := hex(s[1+2*i])
			lo, ok2 := hex(s[2+2*i])
			if !ok1 || !ok2 {
				return c, fmt.Errorf("invalid hex color %q", s)
			}
			*p = hi<<4 | lo
		}
	case 4:
		for i, p := range []*uint8{&c.R, &c.G, &c.B} {
			v, ok := hex(s[1+i])
			if !ok {
				return c, fmt.Errorf("invalid hex color %q", s)
			}
			*p = v<<4 | v
		}
	default:
		return c, fmt.Errorf("invalid hex color %q", s)
	}
	return c, nil
}
