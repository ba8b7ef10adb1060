package headshot

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/menta2k/headshot/pkg/params"
	"github.com/menta2k/headshot/pkg/planner"
	"github.com/menta2k/headshot/pkg/types"
)

// createTestImage creates a test image with a darker central region
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				img.Set(x, y, color.RGBA{180, 150, 130, 255})
			} else {
				img.Set(x, y, color.RGBA{64, 64, 64, 255})
			}
		}
	}
	return img
}

// stubLocator returns canned detection results.
type stubLocator struct {
	boxes []types.Box
	err   error
}

func (s *stubLocator) DetectFaces(ctx context.Context, img image.Image) ([]types.Box, error) {
	return s.boxes, s.err
}

func TestNew(t *testing.T) {
	gen := New()
	if gen == nil {
		t.Fatal("New() returned nil")
	}
}

func TestProcessOutputSize(t *testing.T) {
	gen := New()

	cases := []struct {
		name             string
		imgW, imgH       int
		face             *types.Box
		targetW, targetH int
	}{
		{"center crop portrait", 1000, 1000, nil, 400, 500},
		{"center crop landscape", 800, 600, nil, 1200, 630},
		{"face crop", 1000, 1000, &types.Box{X: 400, Y: 300, W: 200, H: 250}, 400, 500},
		{"face near edge", 640, 480, &types.Box{X: 560, Y: 10, W: 70, H: 70}, 300, 300},
		{"tiny image", 120, 120, nil, 400, 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := params.Default()
			p.TargetWidth = tc.targetW
			p.TargetHeight = tc.targetH

			result, err := gen.Process(createTestImage(tc.imgW, tc.imgH), tc.face, p)
			if err != nil {
				t.Fatalf("Process failed: %v", err)
			}

			b := result.Image.Bounds()
			if b.Dx() != tc.targetW || b.Dy() != tc.targetH {
				t.Errorf("Expected %dx%d output, got %dx%d", tc.targetW, tc.targetH, b.Dx(), b.Dy())
			}
		})
	}
}

func TestProcessInvalidParams(t *testing.T) {
	gen := New()
	img := createTestImage(500, 500)

	p := params.Default()
	p.TargetWidth = 0

	if _, err := gen.Process(img, nil, p); !errors.Is(err, params.ErrInvalidDimensions) {
		t.Errorf("Expected ErrInvalidDimensions, got %v", err)
	}

	p = params.Default()
	p.ZoomOutFactor = 10

	if _, err := gen.Process(img, nil, p); !errors.Is(err, params.ErrInvalidZoomFactor) {
		t.Errorf("Expected ErrInvalidZoomFactor, got %v", err)
	}
}

func TestProcessDeterministic(t *testing.T) {
	gen := New()
	img := createTestImage(900, 700)
	p := params.Default()

	first, err := gen.Process(img, nil, p)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	second, err := gen.Process(img, nil, p)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if first.Crop != second.Crop {
		t.Errorf("Expected identical crops, got %v and %v", first.Crop, second.Crop)
	}
}

func TestProcessDegenerateCrop(t *testing.T) {
	gen := New()
	img := createTestImage(500, 500)

	p := params.Default()
	p.PaddingTopRatio = 0
	p.PaddingBottomRatio = 0
	p.PaddingSideRatio = 0
	p.ZoomOutFactor = 0.5

	face := &types.Box{X: 250, Y: 250, W: 1, H: 1}
	if _, err := gen.Process(img, face, p); !errors.Is(err, planner.ErrDegenerateCrop) {
		t.Errorf("Expected ErrDegenerateCrop, got %v", err)
	}
}

func TestProcessGrayscale(t *testing.T) {
	gen := New()
	img := createTestImage(800, 800)

	p := params.Default()
	p.Grayscale = true

	result, err := gen.Process(img, nil, p)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	nrgba, ok := result.Image.(*image.NRGBA)
	if !ok {
		t.Fatalf("Expected *image.NRGBA output, got %T", result.Image)
	}

	b := nrgba.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 13 {
		for x := b.Min.X; x < b.Max.X; x += 13 {
			px := nrgba.NRGBAAt(x, y)
			if px.R != px.G || px.G != px.B {
				t.Fatalf("Pixel (%d,%d) not gray: %v", x, y, px)
			}
		}
	}
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	gen := New()

	img := image.NewRGBA(image.Rect(0, 0, 400, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 77, 255})
		}
	}
	before := make([]uint8, len(img.Pix))
	copy(before, img.Pix)

	p := params.Default()
	p.Grayscale = true
	if _, err := gen.Process(img, nil, p); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	for i := range before {
		if img.Pix[i] != before[i] {
			t.Fatal("Input image was modified during processing")
		}
	}
}

func TestDetectWithoutLocator(t *testing.T) {
	gen := New()
	if _, err := gen.Detect(context.Background(), createTestImage(200, 200)); !errors.Is(err, ErrNoLocator) {
		t.Errorf("Expected ErrNoLocator, got %v", err)
	}
}

func TestDetectAndProcessWithFace(t *testing.T) {
	face := types.Box{X: 300, Y: 200, W: 150, H: 180}
	gen := NewWithLocator(&stubLocator{boxes: []types.Box{face, {X: 0, Y: 0, W: 40, H: 40}}})

	result, err := gen.DetectAndProcess(context.Background(), createTestImage(1000, 800), params.Default())
	if err != nil {
		t.Fatalf("DetectAndProcess failed: %v", err)
	}

	if result.Face == nil {
		t.Fatal("Expected a detected face in the result")
	}
	if *result.Face != face {
		t.Errorf("Expected primary face %v, got %v", face, *result.Face)
	}
}

func TestDetectAndProcessNoFaces(t *testing.T) {
	// Zero faces is not an error: the center-crop branch runs and the
	// result carries a nil face so callers can tell the branches apart.
	gen := NewWithLocator(&stubLocator{})

	result, err := gen.DetectAndProcess(context.Background(), createTestImage(1000, 800), params.Default())
	if err != nil {
		t.Fatalf("DetectAndProcess failed: %v", err)
	}

	if result.Face != nil {
		t.Errorf("Expected nil face for center crop, got %v", result.Face)
	}
	b := result.Image.Bounds()
	if b.Dx() != 400 || b.Dy() != 500 {
		t.Errorf("Expected 400x500 output, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestDetectAndProcessDetectionError(t *testing.T) {
	gen := NewWithLocator(&stubLocator{err: errors.New("cascade exploded")})

	_, err := gen.DetectAndProcess(context.Background(), createTestImage(500, 500), params.Default())
	if !errors.Is(err, ErrDetection) {
		t.Errorf("Expected ErrDetection, got %v", err)
	}
}

func TestValidateImage(t *testing.T) {
	gen := New()

	if err := gen.ValidateImage(createTestImage(200, 200)); err != nil {
		t.Errorf("200x200 should validate: %v", err)
	}
	if err := gen.ValidateImage(createTestImage(40, 40)); err == nil {
		t.Error("Expected error for undersized image")
	}
}

func BenchmarkProcess(b *testing.B) {
	gen := New()
	img := createTestImage(1920, 1080)
	face := &types.Box{X: 800, Y: 400, W: 300, H: 330}
	p := params.Default()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gen.Process(img, face, p)
	}
}
