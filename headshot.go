// Package headshot turns arbitrary portrait photographs into standardized
// headshot crops.
//
// Given an image, an optional detected face box and a set of processing
// parameters, it computes a crop region around the face (or the image center
// when no face is available), fits the crop into an exact target resolution
// padded with a border color, and optionally converts the result to
// grayscale.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/menta2k/headshot"
//		"github.com/menta2k/headshot/pkg/locator"
//		"github.com/menta2k/headshot/pkg/params"
//	)
//
//	func main() {
//		loc, err := locator.NewPigoLocatorFromFile("facefinder", locator.DefaultPigoConfig())
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		gen := headshot.New()
//		gen.SetLocator(loc)
//
//		img, err := gen.LoadImage("portrait.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		result, err := gen.DetectAndProcess(context.Background(), img, params.Default())
//		if err != nil {
//			log.Fatal(err)
//		}
//		if result.Face == nil {
//			log.Print("no face detected, used center crop")
//		}
//
//		if err := gen.SaveImage(result.Image, "headshot.jpg"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of four main components:
//
// 1. Params (pkg/params): typed processing parameters and their validation
// 2. Planner (pkg/planner): crop rectangle computation
// 3. Processing (pkg/processing): cropping, finalization and grayscale
// 4. Locator (pkg/locator): pluggable face detection backends
//
// Processing is a pure function of (image, face box, parameters): no hidden
// state, no I/O, deterministic output. Face detection is the only external
// collaborator, and "no faces found" is a designed outcome rather than an
// error.
package headshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/menta2k/headshot/pkg/locator"
	"github.com/menta2k/headshot/pkg/params"
	"github.com/menta2k/headshot/pkg/planner"
	"github.com/menta2k/headshot/pkg/processing"
	"github.com/menta2k/headshot/pkg/types"
)

// Version of the headshot library
const Version = "1.0.0"

// ErrDetection wraps failures of the face detection collaborator. It is
// distinct from the zero-faces outcome, which is not an error.
var ErrDetection = errors.New("face detection failed")

// ErrNoLocator is returned by DetectAndProcess when no face locator has
// been configured.
var ErrNoLocator = errors.New("no face locator configured")

// Generator provides a high-level interface for headshot generation.
type Generator struct {
	locator   locator.FaceLocator
	processor *processing.Processor
}

// New creates a new Generator without a face locator; Process with an
// explicit face box and center-crop processing work immediately, while
// DetectAndProcess requires SetLocator first.
func New() *Generator {
	return &Generator{
		processor: processing.NewProcessor(),
	}
}

// NewWithLocator creates a new Generator using the given face locator.
func NewWithLocator(loc locator.FaceLocator) *Generator {
	g := New()
	g.locator = loc
	return g
}

// SetLocator sets or replaces the face detection backend.
func (g *Generator) SetLocator(loc locator.FaceLocator) {
	g.locator = loc
}

// Result contains the outcome of one processing call.
type Result struct {
	// Image is the final image, exactly TargetWidth x TargetHeight.
	Image image.Image
	// Face is the bounding box the crop was built around, or nil when the
	// center-crop branch was taken.
	Face *types.Box
	// Crop is the region of the original image selected for the headshot.
	Crop image.Rectangle
}

// Process computes a headshot from an image and an optional face box. It is
// the sole processing entry point: validation, crop planning, cropping,
// finalization and the optional grayscale pass, in that order. The input
// image is never modified.
func (g *Generator) Process(img image.Image, face *types.Box, p params.ProcessingParameters) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	bounds := img.Bounds()
	rect, err := planner.PlanCrop(bounds.Dx(), bounds.Dy(), face, p)
	if err != nil {
		return Result{}, err
	}

	cropped, err := g.processor.Crop(img, rect)
	if err != nil {
		return Result{}, fmt.Errorf("cropping failed: %w", err)
	}

	final := g.processor.Finalize(cropped, p.TargetWidth, p.TargetHeight, p.Border())
	if p.Grayscale {
		final = g.processor.Grayscale(final)
	}

	return Result{Image: final, Face: face, Crop: rect}, nil
}

// Detect runs the configured face locator on an image and returns the
// detected face boxes, largest first. An empty slice with a nil error means
// no faces were found.
func (g *Generator) Detect(ctx context.Context, img image.Image) ([]types.Box, error) {
	if g.locator == nil {
		return nil, ErrNoLocator
	}
	boxes, err := g.locator.DetectFaces(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetection, err)
	}
	return boxes, nil
}

// DetectAndProcess detects faces and processes the image in one call. When
// no face is found the center-crop branch is used and Result.Face is nil, so
// callers can surface an informational notice while still receiving a valid
// headshot.
func (g *Generator) DetectAndProcess(ctx context.Context, img image.Image, p params.ProcessingParameters) (Result, error) {
	faces, err := g.Detect(ctx, img)
	if err != nil {
		return Result{}, err
	}

	var face *types.Box
	if len(faces) > 0 {
		face = &faces[0]
	}
	return g.Process(img, face, p)
}

// LoadImage loads an image from a file path.
func (g *Generator) LoadImage(path string) (image.Image, error) {
	return g.processor.LoadImage(path)
}

// LoadImageFromReader loads an image from an io.Reader.
func (g *Generator) LoadImageFromReader(r io.Reader) (image.Image, error) {
	return g.processor.LoadImageFromReader(r)
}

// ValidateImage checks that an image is within the supported input size
// range.
func (g *Generator) ValidateImage(img image.Image) error {
	return g.processor.ValidateInput(img)
}

// SaveImage saves an image as JPEG with default quality.
func (g *Generator) SaveImage(img image.Image, path string) error {
	return g.processor.SaveImage(img, path, "jpg", 90, false)
}

// SaveImageAs saves an image in the given format (jpg, png or webp) with
// quality and lossless options.
func (g *Generator) SaveImageAs(img image.Image, path, format string, quality int, lossless bool) error {
	return g.processor.SaveImage(img, path, format, quality, lossless)
}

// GetVersion returns the library version.
func GetVersion() string {
	return Version
}
