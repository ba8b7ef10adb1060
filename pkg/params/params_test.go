package params

import (
	"errors"
	"image/color"
	"testing"
)

func TestDefault(t *testing.T) {
	p := Default()

	if p.TargetWidth != 400 || p.TargetHeight != 500 {
		t.Errorf("Expected 400x500 default target, got %dx%d", p.TargetWidth, p.TargetHeight)
	}
	if p.ZoomOutFactor != 1.1 {
		t.Errorf("Expected default zoom 1.1, got %g", p.ZoomOutFactor)
	}
	if p.Grayscale {
		t.Error("Expected grayscale to be off by default")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Default parameters should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*ProcessingParameters)
		want   error
	}{
		{"valid", func(p *ProcessingParameters) {}, nil},
		{"zero width", func(p *ProcessingParameters) { p.TargetWidth = 0 }, ErrInvalidDimensions},
		{"negative height", func(p *ProcessingParameters) { p.TargetHeight = -100 }, ErrInvalidDimensions},
		{"zoom too small", func(p *ProcessingParameters) { p.ZoomOutFactor = 0.4 }, ErrInvalidZoomFactor},
		{"zoom too large", func(p *ProcessingParameters) { p.ZoomOutFactor = 5.0 }, ErrInvalidZoomFactor},
		{"zoom lower bound", func(p *ProcessingParameters) { p.ZoomOutFactor = 0.5 }, nil},
		{"zoom upper bound", func(p *ProcessingParameters) { p.ZoomOutFactor = 3.0 }, nil},
		{"negative padding", func(p *ProcessingParameters) { p.PaddingTopRatio = -0.1 }, ErrInvalidPadding},
		{"padding too large", func(p *ProcessingParameters) { p.PaddingBottomRatio = 2.5 }, ErrInvalidPadding},
		{"padding upper bound", func(p *ProcessingParameters) { p.PaddingSideRatio = 2.0 }, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Default()
			tc.modify(&p)

			err := p.Validate()
			if tc.want == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTargetRatio(t *testing.T) {
	p := Default()
	if r := p.TargetRatio(); r != 0.8 {
		t.Errorf("Expected target ratio 0.8, got %g", r)
	}
}

func TestBorderDefaultsToBlack(t *testing.T) {
	p := ProcessingParameters{}
	r, g, b, a := p.Border().RGBA()
	if r != 0 || g != 0 || b != 0 || a != 0xffff {
		t.Errorf("Expected opaque black, got %d,%d,%d,%d", r, g, b, a)
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#000000", color.NRGBA{0, 0, 0, 255}, false},
		{"#ffffff", color.NRGBA{255, 255, 255, 255}, false},
		{"#FF8040", color.NRGBA{255, 128, 64, 255}, false},
		{"#abc", color.NRGBA{170, 187, 204, 255}, false},
		{"", color.NRGBA{}, true},
		{"000000", color.NRGBA{}, true},
		{"#12345", color.NRGBA{}, true},
		{"#gggggg", color.NRGBA{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseHexColor(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) failed: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
